package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Table identifies an entity table and its integer primary-key column.
type Table struct {
	Name string
	// Key is the primary-key column. Empty means "id".
	Key string
}

// KeyColumn returns the primary-key column name, defaulting to "id".
func (t Table) KeyColumn() string {
	if t.Key == "" {
		return "id"
	}
	return t.Key
}

// RecordKey is a record's identity: table plus primary key. Deduplication
// across member sets compares keys, never column contents.
type RecordKey struct {
	Table string
	ID    int64
}

// Record is a dynamically-typed row read from an entity table.
type Record struct {
	Table   string
	ID      int64
	Columns map[string]any
}

// Key returns the record's identity.
func (r *Record) Key() RecordKey {
	return RecordKey{Table: r.Table, ID: r.ID}
}

// Get returns a raw column value, nil if absent.
func (r *Record) Get(col string) any {
	return r.Columns[col]
}

// Int returns a column as int64. Non-numeric values yield zero.
func (r *Record) Int(col string) int64 {
	switch v := r.Columns[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// String returns a column as a string. Absent columns yield "".
func (r *Record) String(col string) string {
	switch v := r.Columns[col].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bool returns a column as a bool. SQLite stores booleans as integers.
func (r *Record) Bool(col string) bool {
	switch v := r.Columns[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// ScanRecords reads every row into a Record keyed by the table's primary
// key column. Returns an empty slice (not nil) when the result set is empty.
func ScanRecords(rows *sql.Rows, target Table) ([]*Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	keyCol := target.KeyColumn()
	recs := []*Record{}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", target.Name, err)
		}

		rec := &Record{Table: target.Name, Columns: make(map[string]any, len(cols))}
		for i, name := range cols {
			rec.Columns[name] = normalizeScan(vals[i])
		}

		id, ok := rec.Columns[keyCol]
		if !ok {
			return nil, fmt.Errorf("scan %s: key column %q not in result set", target.Name, keyCol)
		}
		n, ok := id.(int64)
		if !ok {
			return nil, fmt.Errorf("scan %s: key column %q is %T, want integer", target.Name, keyCol, id)
		}
		rec.ID = n

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", target.Name, err)
	}

	return recs, nil
}

// normalizeScan folds driver byte slices onto strings so column values
// compare consistently regardless of declared column affinity.
func normalizeScan(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
