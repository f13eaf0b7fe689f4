// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios and map them onto
// HTTP statuses: ErrNotFound becomes 404, ErrDuplicateName and ErrInUse
// become 409, and the soft-delete guards become 409 as well.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist or is excluded by the
// default deleted_at IS NULL filter.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when an insert or update violates a unique
// name (or reference) constraint.
var ErrDuplicateName = errors.New("name already exists")

// ErrEmailExists is returned when a user insert or update violates the
// unique email constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrInUse is returned when a hard delete is blocked because other rows
// still reference the target. Handlers translate this into HTTP 409 and
// perform no mutation.
var ErrInUse = errors.New("record is referenced and cannot be deleted")

// ErrAlreadyDeleted is returned when a soft delete targets a row whose
// deleted_at is already set.
var ErrAlreadyDeleted = errors.New("record is already deleted")

// ErrNotDeleted is returned when a restore targets a row that is not
// soft-deleted.
var ErrNotDeleted = errors.New("record is not deleted")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
