// Package query defines the structured filter predicates and query options
// used by association sets and union collections.
//
// Predicate is a sealed interface: only types in this package implement it.
// The closed set of predicate shapes lets backends dispatch with an
// exhaustive type switch instead of inspecting operation names at runtime.
//
// Predicates are plain, cloneable values. A query's filter payload is deeply
// cloned before every per-set dispatch so that one set's execution can never
// mutate the arguments seen by the next. Embedding live resources (handles,
// channels, open statements) in predicate values is not supported.
//
// Two evaluation paths exist:
//
//   - Compile converts a predicate to a parameterized squirrel.Sqlizer for
//     execution against the store. Values are never interpolated into SQL.
//   - Match evaluates structured predicates in memory against an
//     already-loaded record's columns. Raw predicates cannot be evaluated in
//     memory and are rejected rather than guessed at.
package query
