// Package relation implements reciprocal relationship modeling: union
// collections over queryable member sets, and the declaration layer that
// derives paired outbound/inbound associations from a single stored row.
//
// A Union is a deferred view over N member sets. Construction is free - no
// member set is read until an observation forces it. Materialization runs
// at most once per Union and deduplicates by record identity. Find-like
// operations fan out across member sets in declared order; the caller
// controls priority by controlling set order.
//
// The declaration layer is a registry, not code generation: declaring a
// network relationship records association metadata and a named accessor
// group on the owning entity type. Invoking the accessor binds each member
// association to the record and wraps them in a fresh Union. Declarations
// run once at initialization time and perform no database I/O.
package relation
