package relation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/kinship/query"
	"github.com/roach88/kinship/store"
)

// Fixed wraps already-loaded records as a member set. Used for the result
// collections of Union.All and for in-memory fixtures. Structured filters
// evaluate via query.Match; Raw conditions cannot be evaluated in memory
// and fail rather than guess.
func Fixed(recs ...*store.Record) store.Set {
	return &fixedSet{recs: recs}
}

type fixedSet struct {
	recs []*store.Record
}

// Empty implements store.Set.
func (f *fixedSet) Empty(ctx context.Context) (bool, error) {
	return len(f.recs) == 0, nil
}

// FindFirst implements store.Set.
func (f *fixedSet) FindFirst(ctx context.Context, q *query.Query) (*store.Record, error) {
	out, err := f.filter(q)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// FindAll implements store.Set.
func (f *fixedSet) FindAll(ctx context.Context, q *query.Query) ([]*store.Record, error) {
	return f.filter(q)
}

// FindID implements store.Set.
func (f *fixedSet) FindID(ctx context.Context, id int64) (*store.Record, error) {
	for _, rec := range f.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, &store.NotFoundError{Table: f.table(), IDs: []int64{id}}
}

// Records implements store.Set.
func (f *fixedSet) Records(ctx context.Context) ([]*store.Record, error) {
	out := make([]*store.Record, len(f.recs))
	copy(out, f.recs)
	return out, nil
}

func (f *fixedSet) table() string {
	if len(f.recs) == 0 {
		return ""
	}
	return f.recs[0].Table
}

func (f *fixedSet) filter(q *query.Query) ([]*store.Record, error) {
	out := []*store.Record{}
	for _, rec := range f.recs {
		var where query.Predicate
		if q != nil {
			where = q.Where
		}
		ok, err := query.Match(where, rec.Columns)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}

	if q != nil && q.Order != "" {
		if err := sortRecords(out, q.Order); err != nil {
			return nil, err
		}
	}
	if q != nil && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// sortRecords orders records by a single "column [ASC|DESC]" hint, with
// record id as tiebreaker (stable sort over id-ordered input).
func sortRecords(recs []*store.Record, order string) error {
	norm, err := query.ValidOrder(order)
	if err != nil {
		return err
	}
	parts := strings.Fields(norm)
	col, desc := parts[0], parts[1] == "DESC"
	// Qualified hints address the source table; fixed sets hold
	// unqualified columns.
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		col = col[i+1:]
	}

	sort.SliceStable(recs, func(i, j int) bool {
		c := compareValues(recs[i].Get(col), recs[j].Get(col))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

// compareValues imposes a total order over the scalar kinds SQLite
// returns: nil first, then numerics, then text.
func compareValues(a, b any) int {
	an, aok := toFloat(a)
	bn, bok := toFloat(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case aok && bok:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(stringOf(a), stringOf(b))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
