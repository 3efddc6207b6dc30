// AngelaMos | 2026
// ref.go

package core

import (
	"encoding/json"
	"fmt"
)

// Ref points at another record by ID. When the owning query joined the
// record in, Expanded carries it and the ref serializes as the full object;
// otherwise it serializes as the bare ID string.
type Ref[T any] struct {
	ID       string
	Expanded *T
}

func Reference[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

func Expand[T any](id string, record T) Ref[T] {
	return Ref[T]{ID: id, Expanded: &record}
}

func (r Ref[T]) IsExpanded() bool {
	return r.Expanded != nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Expanded != nil {
		return json.Marshal(r.Expanded)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts only the bare ID form. Expanded records are produced
// by repositories, never by clients.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("ref must be an id string: %w", err)
	}
	r.ID = id
	r.Expanded = nil
	return nil
}
