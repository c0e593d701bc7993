package query

import (
	"fmt"
	"strings"
)

// ValidColumn checks that name is a safe SQL identifier, optionally
// qualified by a single table prefix ("accepted", "invitations.accepted").
//
// Column names reach SQL by splicing (squirrel Eq map keys, ORDER BY
// clauses), so they are validated here rather than parameterized. Values
// are always parameterized and never pass through this check.
func ValidColumn(name string) error {
	if name == "" {
		return fmt.Errorf("empty column name")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("invalid column name %q: at most one qualifier allowed", name)
	}
	for _, part := range parts {
		if !validIdent(part) {
			return fmt.Errorf("invalid column name %q", name)
		}
	}
	return nil
}

// ValidOrder checks an ordering hint of the form "column" or
// "column ASC|DESC" and returns it in a normalized form.
func ValidOrder(order string) (string, error) {
	fields := strings.Fields(order)
	switch len(fields) {
	case 1:
		if err := ValidColumn(fields[0]); err != nil {
			return "", err
		}
		return fields[0] + " ASC", nil
	case 2:
		if err := ValidColumn(fields[0]); err != nil {
			return "", err
		}
		dir := strings.ToUpper(fields[1])
		if dir != "ASC" && dir != "DESC" {
			return "", fmt.Errorf("invalid order direction %q", fields[1])
		}
		return fields[0] + " " + dir, nil
	default:
		return "", fmt.Errorf("invalid order clause %q", order)
	}
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
