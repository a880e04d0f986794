package deferred

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound matches every *NotFoundError via errors.Is.
var ErrResourceNotFound = errors.New("resource not found")

// NotFoundError reports access to a value whose resource was missing at
// load time. It unwraps to the original not-found error.
type NotFoundError struct {
	Identifier string
	Err        error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource [%s] was not found at load time but was read: %v", e.Identifier, e.Err)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
