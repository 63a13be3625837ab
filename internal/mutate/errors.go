package mutate

import (
	"fmt"

	"planboard/internal/model"
)

// ErrInvalidStatus is returned for status values outside the fixed set.
var ErrInvalidStatus = model.ErrInvalidStatus

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
