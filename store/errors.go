package store

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that an identifier-based lookup could not account
// for every requested identifier. The message enumerates the originally
// requested identifiers, not just the missing ones, because the caller's
// request is the unit of failure.
type NotFoundError struct {
	// Table names the searched entity table. May be empty for lookups
	// spanning heterogeneous sets.
	Table string

	// IDs are the identifiers the caller originally requested.
	IDs []int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	joined := strings.Join(ids, ", ")

	switch {
	case e.Table != "" && len(e.IDs) == 1:
		return fmt.Sprintf("record %s not found in %s", joined, e.Table)
	case e.Table != "":
		return fmt.Sprintf("records not found in %s (requested ids: %s)", e.Table, joined)
	case len(e.IDs) == 1:
		return fmt.Sprintf("record %s not found", joined)
	default:
		return fmt.Sprintf("records not found (requested ids: %s)", joined)
	}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
