package query

// Query carries the optional filter, ordering hint, and row limit for a
// find-like operation against a record set.
//
// A nil *Query means "no extra constraints". Query values are treated as
// plain data: union collections clone them before each per-set dispatch, so
// a set's query execution can never narrow or corrupt the filter seen by
// later sets.
type Query struct {
	// Where is an extra predicate combined (AND) with the set's declared
	// conditions. Nil means no extra filter.
	Where Predicate

	// Order is an ordering hint of the form "column" or "column DESC".
	// It is validated before being spliced into SQL. The target primary
	// key is always appended as a deterministic tiebreaker.
	Order string

	// Limit caps the number of rows returned. Zero means no limit.
	Limit int
}

// Clone returns a deep copy of the query. Clone of nil is nil.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	out := &Query{Order: q.Order, Limit: q.Limit}
	if q.Where != nil {
		out.Where = q.Where.Clone()
	}
	return out
}

// Where is shorthand for a query with only a filter predicate.
func Where(p Predicate) *Query {
	return &Query{Where: p}
}
