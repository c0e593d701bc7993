package store

import (
	"context"

	"github.com/roach88/kinship/query"
)

// Set is the queryable-collection capability: the contract a member set
// must satisfy to participate in a union collection.
//
// Implementations in this package are lazy - no SQL runs until one of these
// methods is invoked, and each invocation issues a fresh query. Callers
// must treat returned records as shared and not mutate them.
type Set interface {
	// Empty reports whether the set currently contains no records,
	// honoring the set's declared conditions.
	Empty(ctx context.Context) (bool, error)

	// FindFirst returns the first record matching q in the set's
	// deterministic order, or nil (with nil error) when nothing matches.
	FindFirst(ctx context.Context, q *query.Query) (*Record, error)

	// FindAll returns every record matching q.
	FindAll(ctx context.Context, q *query.Query) ([]*Record, error)

	// FindID returns the record with the given primary key, scoped to the
	// set (declared conditions apply). Absent records yield *NotFoundError.
	FindID(ctx context.Context, id int64) (*Record, error)

	// Records returns the set's full contents under base conditions only.
	Records(ctx context.Context) ([]*Record, error)
}
