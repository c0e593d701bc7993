// Package store provides SQLite-backed persistence for relationship
// modeling: a configured database handle, dynamic records scanned from
// arbitrary tables, and association sets (many-to-many, has-many, and
// through-traversals) that satisfy the queryable-collection capability
// consumed by relation.Union.
//
// The store performs idempotent reads only; the single write path is the
// Insert helper used to populate fixture and join rows. All SQL is built
// with squirrel and parameterized - values never reach SQL by splicing.
package store
