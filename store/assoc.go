package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/kinship/query"
)

// Assoc is a declared association: immutable metadata that can be bound to
// an owning record's id to produce a queryable Set.
//
// This is a sealed interface - only types in this package implement it.
// Declarations perform no database I/O; queries run only when a bound Set
// is observed.
type Assoc interface {
	assocNode() // Marker method - seals interface to this package

	// Bind attaches the association to an owner id, producing a lazy Set.
	Bind(s *Store, owner int64) Set
}

// ManyToMany declares a direct join-table association. The join table
// carries exactly two integer key columns: OriginKey holds the owning
// record's id, TargetKey holds the reached record's id.
type ManyToMany struct {
	Target     Table
	Join       string
	OriginKey  string
	TargetKey  string
	Conditions query.Predicate
}

func (ManyToMany) assocNode() {}

// Bind implements Assoc.
func (a ManyToMany) Bind(s *Store, owner int64) Set {
	return &joinSet{
		s:         s,
		target:    a.Target,
		join:      a.Join,
		ownerKey:  a.OriginKey,
		targetKey: a.TargetKey,
		conds:     a.Conditions,
		owner:     owner,
	}
}

// HasMany declares a one-to-many association: rows of Target whose
// ForeignKey column holds the owning record's id. Used for reaching
// intermediate (through) entities directly.
type HasMany struct {
	Target     Table
	ForeignKey string
	Conditions query.Predicate
}

func (HasMany) assocNode() {}

// Bind implements Assoc.
func (a HasMany) Bind(s *Store, owner int64) Set {
	return &fkSet{
		s:      s,
		target: a.Target,
		fk:     a.ForeignKey,
		conds:  a.Conditions,
		owner:  owner,
	}
}

// Through declares a derived association that traverses an intermediate
// entity table to reach Target. JoinKey is the intermediate column holding
// the owning record's id; SourceKey is the intermediate column holding the
// reached record's id. Conditions typically reference the intermediate
// table's descriptive columns.
type Through struct {
	Target     Table
	Join       Table
	JoinKey    string
	SourceKey  string
	Conditions query.Predicate
}

func (Through) assocNode() {}

// Bind implements Assoc.
func (a Through) Bind(s *Store, owner int64) Set {
	return &joinSet{
		s:         s,
		target:    a.Target,
		join:      a.Join.Name,
		ownerKey:  a.JoinKey,
		targetKey: a.SourceKey,
		conds:     a.Conditions,
		owner:     owner,
	}
}

// joinSet serves both ManyToMany and Through bindings: the generated SQL is
// identical, only the join table's provenance differs.
type joinSet struct {
	s         *Store
	target    Table
	join      string
	ownerKey  string
	targetKey string
	conds     query.Predicate
	owner     int64
}

// pk returns the qualified target primary key, used for ordering and
// identifier lookups. Qualification matters: the join table may carry a
// column of the same name.
func (j *joinSet) pk() string {
	return j.target.Name + "." + j.target.KeyColumn()
}

func (j *joinSet) base(selectExpr string) sq.SelectBuilder {
	return sq.Select(selectExpr).
		From(j.target.Name).
		Join(fmt.Sprintf("%s ON %s.%s = %s.%s",
			j.join, j.join, j.targetKey, j.target.Name, j.target.KeyColumn())).
		Where(sq.Eq{j.join + "." + j.ownerKey: j.owner})
}

// buildSelect assembles the full select for q: base owner condition,
// declared conditions, per-call filter, deterministic ordering.
func (j *joinSet) buildSelect(q *query.Query) (sq.SelectBuilder, error) {
	return applyQuery(j.base(j.target.Name+".*"), j.conds, q, j.pk())
}

// Empty implements Set.
func (j *joinSet) Empty(ctx context.Context) (bool, error) {
	b, err := applyConditions(j.base("1"), j.conds)
	if err != nil {
		return false, err
	}
	return runEmpty(ctx, j.s, b.Limit(1))
}

// FindFirst implements Set.
func (j *joinSet) FindFirst(ctx context.Context, q *query.Query) (*Record, error) {
	b, err := j.buildSelect(q)
	if err != nil {
		return nil, err
	}
	recs, err := j.s.selectRecords(ctx, b.Limit(1), j.target)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// FindAll implements Set.
func (j *joinSet) FindAll(ctx context.Context, q *query.Query) ([]*Record, error) {
	b, err := j.buildSelect(q)
	if err != nil {
		return nil, err
	}
	return j.s.selectRecords(ctx, b, j.target)
}

// FindID implements Set. Declared conditions scope the lookup: an id
// outside the conditioned domain is not found.
func (j *joinSet) FindID(ctx context.Context, id int64) (*Record, error) {
	b, err := j.buildSelect(nil)
	if err != nil {
		return nil, err
	}
	recs, err := j.s.selectRecords(ctx, b.Where(sq.Eq{j.pk(): id}).Limit(1), j.target)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &NotFoundError{Table: j.target.Name, IDs: []int64{id}}
	}
	return recs[0], nil
}

// Records implements Set.
func (j *joinSet) Records(ctx context.Context) ([]*Record, error) {
	return j.FindAll(ctx, nil)
}

// fkSet is a HasMany binding: rows of target keyed by a foreign-key column.
type fkSet struct {
	s      *Store
	target Table
	fk     string
	conds  query.Predicate
	owner  int64
}

func (f *fkSet) base(selectExpr string) sq.SelectBuilder {
	return sq.Select(selectExpr).
		From(f.target.Name).
		Where(sq.Eq{f.fk: f.owner})
}

func (f *fkSet) buildSelect(q *query.Query) (sq.SelectBuilder, error) {
	return applyQuery(f.base("*"), f.conds, q, f.target.KeyColumn())
}

// Empty implements Set.
func (f *fkSet) Empty(ctx context.Context) (bool, error) {
	b, err := applyConditions(f.base("1"), f.conds)
	if err != nil {
		return false, err
	}
	return runEmpty(ctx, f.s, b.Limit(1))
}

// FindFirst implements Set.
func (f *fkSet) FindFirst(ctx context.Context, q *query.Query) (*Record, error) {
	b, err := f.buildSelect(q)
	if err != nil {
		return nil, err
	}
	recs, err := f.s.selectRecords(ctx, b.Limit(1), f.target)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// FindAll implements Set.
func (f *fkSet) FindAll(ctx context.Context, q *query.Query) ([]*Record, error) {
	b, err := f.buildSelect(q)
	if err != nil {
		return nil, err
	}
	return f.s.selectRecords(ctx, b, f.target)
}

// FindID implements Set.
func (f *fkSet) FindID(ctx context.Context, id int64) (*Record, error) {
	b, err := f.buildSelect(nil)
	if err != nil {
		return nil, err
	}
	recs, err := f.s.selectRecords(ctx, b.Where(sq.Eq{f.target.KeyColumn(): id}).Limit(1), f.target)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &NotFoundError{Table: f.target.Name, IDs: []int64{id}}
	}
	return recs[0], nil
}

// Records implements Set.
func (f *fkSet) Records(ctx context.Context) ([]*Record, error) {
	return f.FindAll(ctx, nil)
}

// applyConditions appends a declared conditions predicate, if any.
func applyConditions(b sq.SelectBuilder, conds query.Predicate) (sq.SelectBuilder, error) {
	if conds == nil {
		return b, nil
	}
	z, err := query.Compile(conds)
	if err != nil {
		return b, fmt.Errorf("compile conditions: %w", err)
	}
	return b.Where(z), nil
}

// applyQuery layers declared conditions, the per-call filter, ordering, and
// limit onto a base select. Ordering always ends with the target primary
// key ascending so results are deterministic.
func applyQuery(b sq.SelectBuilder, conds query.Predicate, q *query.Query, pk string) (sq.SelectBuilder, error) {
	b, err := applyConditions(b, conds)
	if err != nil {
		return b, err
	}
	if q != nil && q.Where != nil {
		z, err := query.Compile(q.Where)
		if err != nil {
			return b, fmt.Errorf("compile filter: %w", err)
		}
		b = b.Where(z)
	}
	if q != nil && q.Order != "" {
		ord, err := query.ValidOrder(q.Order)
		if err != nil {
			return b, err
		}
		b = b.OrderBy(ord, pk+" ASC")
	} else {
		b = b.OrderBy(pk + " ASC")
	}
	if q != nil && q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return b, nil
}

// runEmpty executes an existence probe.
func runEmpty(ctx context.Context, s *Store, b sq.SelectBuilder) (bool, error) {
	stmt, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	var one int
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence probe: %w", err)
	}
	return false, nil
}
