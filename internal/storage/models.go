package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Template is a saved form, stored as its JSON encoding so the table does not
// change when form fields are added.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	FormJSON  string    `json:"form_json"`
}
