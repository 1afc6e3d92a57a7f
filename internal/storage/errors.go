package storage

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing row. A missing parent referenced by an
// existing child (a product whose store is gone) is a data-integrity error
// surfaced the same way.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
