package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrRawMatch reports an attempt to evaluate a Raw predicate in memory.
// Raw fragments are opaque SQL; evaluating them outside the database would
// require a SQL interpreter, so callers get an explicit failure instead of
// a silent wrong answer.
var ErrRawMatch = errors.New("raw predicate cannot be evaluated in memory")

// Match evaluates a structured predicate against a loaded record's columns.
// A nil predicate matches everything.
func Match(p Predicate, cols map[string]any) (bool, error) {
	switch pred := p.(type) {
	case nil:
		return true, nil
	case Eq:
		return valueEqual(lookupColumn(cols, pred.Column), pred.Value), nil
	case *Eq:
		return Match(*pred, cols)
	case In:
		got := lookupColumn(cols, pred.Column)
		for _, v := range pred.Values {
			if valueEqual(got, v) {
				return true, nil
			}
		}
		return false, nil
	case *In:
		return Match(*pred, cols)
	case And:
		for _, sub := range pred.Predicates {
			ok, err := Match(sub, cols)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case *And:
		return Match(*pred, cols)
	case Raw, *Raw:
		return false, ErrRawMatch
	default:
		return false, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// lookupColumn resolves a possibly table-qualified column name against a
// record's unqualified column map. "invitations.accepted" falls back to
// "accepted" when the qualified form is absent.
func lookupColumn(cols map[string]any, name string) any {
	if v, ok := cols[name]; ok {
		return v
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		if v, ok := cols[name[i+1:]]; ok {
			return v
		}
	}
	return nil
}

// valueEqual compares column values with numeric and byte/string
// normalization, since database drivers are loose about scan types.
func valueEqual(a, b any) bool {
	na, nb := normalize(a), normalize(b)
	if na == nil || nb == nil {
		return na == nb
	}
	if na == nb {
		return true
	}
	return reflect.DeepEqual(na, nb)
}

func normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case float64:
		// SQLite reports integral REALs for integer columns in some
		// paths; fold integral floats onto int64 for comparison.
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}
