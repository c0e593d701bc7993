package relation

import (
	"context"

	"github.com/roach88/kinship/query"
	"github.com/roach88/kinship/store"
)

// Union is a lazy set-union view over zero or more member sets.
//
// Member sets are probed in construction order; that order is a semantic
// contract ("search in priority order"), not an implementation detail.
// A Union is built per accessor invocation and used by a single logical
// caller; it is not safe for concurrent use without external locking.
type Union struct {
	sets []store.Set

	// loaded caches the deduplicated concatenation of all sets. Computed
	// at most once; once set it is permanent for the Union's lifetime.
	loaded []*store.Record
	done   bool
}

// NewUnion builds a union over the given member sets. Nil members are
// dropped immediately and never dereferenced; duplicate identical sets are
// permitted (results deduplicate at materialization). No set is read.
func NewUnion(sets ...store.Set) *Union {
	u := &Union{}
	for _, s := range sets {
		if s == nil {
			continue
		}
		u.sets = append(u.sets, s)
	}
	return u
}

// NumSets returns the number of retained member sets.
func (u *Union) NumSets() int {
	return len(u.sets)
}

// First probes member sets in declared order and returns the first match,
// or nil when no set matches. The query is cloned before every per-set
// dispatch: the underlying query machinery may mutate its filter payload,
// and a corrupted filter must not leak into later iterations. Upstream
// errors abort the fan-out immediately.
func (u *Union) First(ctx context.Context, q *query.Query) (*store.Record, error) {
	for _, s := range u.sets {
		empty, err := s.Empty(ctx)
		if err != nil {
			return nil, err
		}
		if empty {
			continue
		}
		rec, err := s.FindFirst(ctx, q.Clone())
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

// All issues the query against every non-empty member set and wraps the
// per-set result collections in a new Union, so the result remains
// queryable and deduplicates only when itself materialized. Each set
// receives its own deep clone of the query.
func (u *Union) All(ctx context.Context, q *query.Query) (*Union, error) {
	var members []store.Set
	for _, s := range u.sets {
		empty, err := s.Empty(ctx)
		if err != nil {
			return nil, err
		}
		if empty {
			continue
		}
		recs, err := s.FindAll(ctx, q.Clone())
		if err != nil {
			return nil, err
		}
		members = append(members, Fixed(recs...))
	}
	return NewUnion(members...), nil
}

// Find looks up records by identifier across all member sets.
//
// For each identifier, sets are probed in order; a per-set not-found is
// swallowed so later sets get a chance, and hits for the same identifier
// are deduplicated by record identity across sets. Results for distinct
// requested identifiers are never deduplicated against each other:
// Find(0, 0) yields two entries, even though materialization would collapse
// them.
//
// If the collected results do not account for every requested identifier,
// Find fails with a NotFoundError enumerating the original request. Any
// other upstream failure aborts the fan-out immediately.
func (u *Union) Find(ctx context.Context, ids ...int64) ([]*store.Record, error) {
	found := []*store.Record{}
	for _, id := range ids {
		seen := make(map[store.RecordKey]bool)
		for _, s := range u.sets {
			empty, err := s.Empty(ctx)
			if err != nil {
				return nil, err
			}
			if empty {
				continue
			}
			rec, err := s.FindID(ctx, id)
			if err != nil {
				if store.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if seen[rec.Key()] {
				continue
			}
			seen[rec.Key()] = true
			found = append(found, rec)
		}
	}

	if len(found) != len(ids) {
		requested := make([]int64, len(ids))
		copy(requested, ids)
		return nil, &store.NotFoundError{IDs: requested}
	}
	return found, nil
}

// FindOne is the single-identifier form of Find, returning the bare record.
func (u *Union) FindOne(ctx context.Context, id int64) (*store.Record, error) {
	recs, err := u.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// Records forces full materialization: the concatenation of every set's
// contents (set order, then element order within each set), deduplicated
// by record identity. The result is cached; repeated calls return the same
// content without re-querying any set. Callers must not mutate it.
func (u *Union) Records(ctx context.Context) ([]*store.Record, error) {
	if u.done {
		return u.loaded, nil
	}

	seen := make(map[store.RecordKey]bool)
	merged := []*store.Record{}
	for _, s := range u.sets {
		recs, err := s.Records(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if seen[rec.Key()] {
				continue
			}
			seen[rec.Key()] = true
			merged = append(merged, rec)
		}
	}

	u.loaded = merged
	u.done = true
	return u.loaded, nil
}

// Len returns the materialized length.
func (u *Union) Len(ctx context.Context) (int, error) {
	recs, err := u.Records(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Contains reports whether the materialized union holds a record with the
// given identity.
func (u *Union) Contains(ctx context.Context, key store.RecordKey) (bool, error) {
	recs, err := u.Records(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if rec.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

// ContainsID is Contains for unions over a single entity table, matching
// on primary key alone.
func (u *Union) ContainsID(ctx context.Context, id int64) (bool, error) {
	recs, err := u.Records(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Each iterates the materialized union in order. Returning an error from
// fn stops iteration and propagates the error.
func (u *Union) Each(ctx context.Context, fn func(*store.Record) error) error {
	recs, err := u.Records(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// FirstBy is the attribute-finder form of First: first record whose column
// equals value. The column name is rejected at the call site if invalid.
func (u *Union) FirstBy(ctx context.Context, column string, value any) (*store.Record, error) {
	if err := query.ValidColumn(column); err != nil {
		return nil, err
	}
	return u.First(ctx, query.Where(query.Eq{Column: column, Value: value}))
}

// AllBy is the attribute-finder form of All.
func (u *Union) AllBy(ctx context.Context, column string, value any) (*Union, error) {
	if err := query.ValidColumn(column); err != nil {
		return nil, err
	}
	return u.All(ctx, query.Where(query.Eq{Column: column, Value: value}))
}
