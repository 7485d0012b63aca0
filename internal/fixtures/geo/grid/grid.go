package grid

// Cell addresses a square of a grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
