package audit

import "time"

// Sensitive marks a struct as carrying data that must never be serialized.
type Sensitive struct{}

// Redactable is an interface marker: types implementing it are considered
// sensitive as well.
type Redactable interface {
	Redact()
}

// Entry is an ordinary audit record without any marker.
type Entry struct {
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// Token carries a credential and implements Redactable.
type Token struct {
	Value string `json:"value"`
}

func (t *Token) Redact() { t.Value = "" }
