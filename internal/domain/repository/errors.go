package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested row does not exist (or is not owned by the caller).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is matched by every unique-constraint violation.
var ErrDuplicate = errors.New("duplicate")

// DuplicateError names the unique field a write collided on.
type DuplicateError struct {
	Field string // email, username, profile_slug
}

func (e *DuplicateError) Error() string { return fmt.Sprintf("duplicate %s", e.Field) }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// DuplicateField returns the colliding field, or "" when err is not a duplicate.
func DuplicateField(err error) string {
	var de *DuplicateError
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
