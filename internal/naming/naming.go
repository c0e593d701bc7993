// Package naming derives default schema identifiers for relationship
// declarations: foreign-key column names, target-side key names, and
// self-referential join-table names.
//
// All inputs pass through NFC normalization so that identifiers with
// combining characters compare and derive consistently regardless of how
// the caller's source was encoded.
package naming

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// irregulars maps plural table names to their singular form where the
// suffix rules below would produce the wrong word.
var irregulars = map[string]string{
	"people":   "person",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"geese":    "goose",
	"mice":     "mouse",
}

// Canonical returns the NFC-normalized, lowercased form of a schema name.
func Canonical(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Singular converts a plural table name to its singular form.
// Handles common English suffixes plus a small irregular table.
func Singular(table string) string {
	t := Canonical(table)
	if s, ok := irregulars[t]; ok {
		return s
	}
	switch {
	case strings.HasSuffix(t, "ies") && len(t) > 3:
		return t[:len(t)-3] + "y"
	case strings.HasSuffix(t, "sses"), strings.HasSuffix(t, "shes"),
		strings.HasSuffix(t, "ches"), strings.HasSuffix(t, "xes"),
		strings.HasSuffix(t, "zes"):
		return t[:len(t)-2]
	case strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss"):
		return t[:len(t)-1]
	default:
		return t
	}
}

// ForeignKey returns the default owning-side foreign-key column for a
// table: the singular table name suffixed with "_id".
// "people" -> "person_id".
func ForeignKey(table string) string {
	return Singular(table) + "_id"
}

// TargetKey returns the default target-side key column derived from a
// foreign-key column. "person_id" -> "person_id_target".
func TargetKey(foreignKey string) string {
	return Canonical(foreignKey) + "_target"
}

// SelfJoinTable returns the default join-table name for a self-referential
// network relation: the table name paired with itself.
// "people" -> "people_people".
func SelfJoinTable(table string) string {
	t := Canonical(table)
	return t + "_" + t
}
