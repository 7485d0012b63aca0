package geo

import "github.com/hengadev/blockx/internal/fixtures/audit"

// Point is a plain coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is marked sensitive.
type Polygon struct {
	audit.Sensitive
	Points []Point `json:"points"`
}

// Label has no marker.
type Label struct {
	Text string `json:"text"`
	At   Point  `json:"at"`
}
