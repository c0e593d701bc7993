package query

// Predicate represents a filter condition applied to a record set.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in Compile and Match.
//
// Predicate types:
//   - Eq: column = value
//   - In: column IN (values...)
//   - And: all predicates must be true
//   - Raw: verbatim SQL fragment with bound args (opaque passthrough)
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package

	// Clone returns a deep structural copy sharing no mutable state
	// with the receiver.
	Clone() Predicate
}

// Eq represents a column-equals-value predicate.
//
// Value must be a plain data value (string, integer, bool, nil). It is
// always passed as a bound parameter, never interpolated.
type Eq struct {
	Column string
	Value  any
}

func (Eq) predicateNode() {}

// Clone returns a copy of the predicate. Value is copied structurally.
func (p Eq) Clone() Predicate {
	return Eq{Column: p.Column, Value: cloneValue(p.Value)}
}

// In represents a column-in-set predicate.
type In struct {
	Column string
	Values []any
}

func (In) predicateNode() {}

// Clone duplicates the value slice so callers cannot share backing arrays.
func (p In) Clone() Predicate {
	vals := make([]any, len(p.Values))
	for i, v := range p.Values {
		vals[i] = cloneValue(v)
	}
	return In{Column: p.Column, Values: vals}
}

// And represents a conjunction of predicates (all must be true).
// An empty Predicates slice is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Clone deep-copies every member predicate.
func (p And) Clone() Predicate {
	ps := make([]Predicate, 0, len(p.Predicates))
	for _, sub := range p.Predicates {
		if sub == nil {
			continue
		}
		ps = append(ps, sub.Clone())
	}
	return And{Predicates: ps}
}

// Raw represents an opaque SQL predicate fragment with bound args.
//
// Raw exists for declared relationship conditions that reference join-table
// columns directly (for example "invitations.accepted = 1"). The fragment is
// passed to the database verbatim; it is the caller's responsibility that it
// parses. Raw predicates cannot be evaluated in memory.
type Raw struct {
	SQL  string
	Args []any
}

func (Raw) predicateNode() {}

// Clone duplicates the args slice.
func (p Raw) Clone() Predicate {
	args := make([]any, len(p.Args))
	for i, v := range p.Args {
		args[i] = cloneValue(v)
	}
	return Raw{SQL: p.SQL, Args: args}
}

// cloneValue structurally copies the plain value kinds predicates may carry.
// Scalars are returned as-is; slices and string-keyed maps are copied
// recursively. Anything else is assumed immutable by contract.
func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = cloneValue(elem)
		}
		return out
	case []int64:
		out := make([]int64, len(val))
		copy(out, val)
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
