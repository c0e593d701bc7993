package relation

import (
	"github.com/roach88/kinship/internal/naming"
	"github.com/roach88/kinship/query"
	"github.com/roach88/kinship/store"
)

// Config is the immutable configuration for a network relationship
// declaration. All fields are optional; zero values select the derived
// defaults described on DeclareNetwork.
type Config struct {
	// Through names the intermediate entity table mediating the
	// relationship. Mutually exclusive with JoinTable.
	Through string

	// JoinTable names the bare join table for a direct relationship.
	// Default: the owning table paired with itself ("people_people").
	JoinTable string

	// ForeignKey is the join column holding the owning record's id.
	// Default: singular owning table name + "_id".
	ForeignKey string

	// AssociationForeignKey is the join column holding the reached
	// record's id. Default: ForeignKey + "_target".
	AssociationForeignKey string

	// Conditions is an opaque filter passed through to the derived
	// associations. For through relationships it typically references the
	// intermediate table's descriptive columns.
	Conditions query.Predicate
}

// Registry holds the entity types declared against one store. Declaration
// is expected to run once at initialization time, before instances are
// queried concurrently; the registry itself takes no locks.
type Registry struct {
	store *store.Store
	types map[string]*Type
}

// NewRegistry creates an empty registry bound to a store.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{store: s, types: make(map[string]*Type)}
}

// Type returns the entity type for a table, creating it on first use.
func (r *Registry) Type(table store.Table) *Type {
	key := naming.Canonical(table.Name)
	if t, ok := r.types[key]; ok {
		return t
	}
	t := &Type{
		reg:    r,
		store:  r.store,
		table:  table,
		assocs: make(map[string]store.Assoc),
		unions: make(map[string][]string),
	}
	r.types[key] = t
	return t
}

// Lookup returns a previously created type by table name.
func (r *Registry) Lookup(table string) (*Type, bool) {
	t, ok := r.types[naming.Canonical(table)]
	return t, ok
}

// Type is process-wide (per-registry) configuration for one entity table:
// its declared associations and union accessors. Shared by all records of
// the table; immutable between declaration time and query time.
type Type struct {
	reg    *Registry
	store  *store.Store
	table  store.Table
	assocs map[string]store.Assoc
	unions map[string][]string
}

// Table returns the entity table this type describes.
func (t *Type) Table() store.Table {
	return t.table
}

// DeclareNetwork declares a reciprocal network relationship.
//
// Two directional associations are derived from a single stored row:
// "<name>_out" reaches records this one points at, "<name>_in" reaches
// records pointing at this one (the two key columns swap roles). A union
// accessor "<name>" combining [<name>_in, <name>_out] is installed.
//
// With cfg.Through set, the relationship traverses an intermediate entity:
// "<through>_out"/"<through>_in" expose the intermediate rows themselves
// (plus a "<through>" union accessor), and "<name>_out"/"<name>_in"
// traverse them to the reached entity, filtered by cfg.Conditions.
//
// Declaring an existing name again overwrites the prior declaration.
// No database I/O happens here; only metadata is registered.
func (t *Type) DeclareNetwork(name string, cfg Config) error {
	if name == "" {
		return configErrorf("", "relationship name required")
	}
	if cfg.Through != "" && cfg.JoinTable != "" {
		return configErrorf(name, "through and join_table are mutually exclusive")
	}

	fk := cfg.ForeignKey
	if fk == "" {
		fk = naming.ForeignKey(t.table.Name)
	}
	afk := cfg.AssociationForeignKey
	if afk == "" {
		afk = naming.TargetKey(fk)
	}
	for _, col := range []string{fk, afk} {
		if err := query.ValidColumn(col); err != nil {
			return configErrorf(name, "invalid key column: %v", err)
		}
	}

	if cfg.Through == "" {
		join := cfg.JoinTable
		if join == "" {
			join = naming.SelfJoinTable(t.table.Name)
		}
		if err := query.ValidColumn(join); err != nil {
			return configErrorf(name, "invalid join table: %v", err)
		}

		t.assocs[name+"_out"] = store.ManyToMany{
			Target:     t.table,
			Join:       join,
			OriginKey:  fk,
			TargetKey:  afk,
			Conditions: cfg.Conditions,
		}
		t.assocs[name+"_in"] = store.ManyToMany{
			Target:     t.table,
			Join:       join,
			OriginKey:  afk,
			TargetKey:  fk,
			Conditions: cfg.Conditions,
		}
	} else {
		mid, ok := t.reg.Lookup(cfg.Through)
		if !ok {
			return configErrorf(name, "intermediate entity type %q not declared", cfg.Through)
		}
		through := naming.Canonical(cfg.Through)

		t.assocs[through+"_out"] = store.HasMany{Target: mid.table, ForeignKey: fk}
		t.assocs[through+"_in"] = store.HasMany{Target: mid.table, ForeignKey: afk}
		t.assocs[name+"_out"] = store.Through{
			Target:     t.table,
			Join:       mid.table,
			JoinKey:    fk,
			SourceKey:  afk,
			Conditions: cfg.Conditions,
		}
		t.assocs[name+"_in"] = store.Through{
			Target:     t.table,
			Join:       mid.table,
			JoinKey:    afk,
			SourceKey:  fk,
			Conditions: cfg.Conditions,
		}
		t.unions[through] = []string{through + "_in", through + "_out"}
	}

	t.unions[name] = []string{name + "_in", name + "_out"}
	return nil
}

// DeclareUnion installs a union accessor over previously declared
// association names, in the given order. Member order is the Union's
// search-priority order. Redeclaring a name overwrites.
func (t *Type) DeclareUnion(name string, members ...string) error {
	if name == "" {
		return configErrorf("", "union accessor name required")
	}
	if len(members) == 0 {
		return configErrorf(name, "at least one member association required")
	}
	for _, m := range members {
		if _, ok := t.assocs[m]; !ok {
			return configErrorf(name, "unknown member association %q", m)
		}
	}
	t.unions[name] = append([]string(nil), members...)
	return nil
}

// Assoc binds a single declared association to a record.
func (t *Type) Assoc(rec *store.Record, name string) (store.Set, error) {
	if err := t.checkRecord(rec); err != nil {
		return nil, err
	}
	a, ok := t.assocs[name]
	if !ok {
		return nil, configErrorf(name, "no association declared")
	}
	return a.Bind(t.store, rec.ID), nil
}

// Union invokes a union accessor: each member association is bound to the
// record and wrapped in a fresh Union. Nothing is cached across calls -
// every invocation re-derives the member sets, which stay lazy until
// observed.
func (t *Type) Union(rec *store.Record, name string) (*Union, error) {
	if err := t.checkRecord(rec); err != nil {
		return nil, err
	}
	members, ok := t.unions[name]
	if !ok {
		return nil, configErrorf(name, "no union accessor declared")
	}
	sets := make([]store.Set, 0, len(members))
	for _, m := range members {
		a, ok := t.assocs[m]
		if !ok {
			return nil, configErrorf(name, "member association %q missing", m)
		}
		sets = append(sets, a.Bind(t.store, rec.ID))
	}
	return NewUnion(sets...), nil
}

func (t *Type) checkRecord(rec *store.Record) error {
	if rec == nil {
		return configErrorf("", "nil record")
	}
	if naming.Canonical(rec.Table) != naming.Canonical(t.table.Name) {
		return configErrorf("", "record belongs to table %q, not %q", rec.Table, t.table.Name)
	}
	return nil
}
