package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Compile converts a Predicate to a parameterized squirrel Sqlizer.
//
// CRITICAL: Values are NEVER interpolated - always bound as parameters.
// Column names are validated before use since they are spliced, not bound.
// Raw predicates pass through verbatim with their own args.
func Compile(p Predicate) (sq.Sqlizer, error) {
	switch pred := p.(type) {
	case nil:
		return nil, fmt.Errorf("cannot compile nil predicate")
	case Eq:
		if err := ValidColumn(pred.Column); err != nil {
			return nil, err
		}
		return sq.Eq{pred.Column: pred.Value}, nil
	case *Eq:
		return Compile(*pred)
	case In:
		if err := ValidColumn(pred.Column); err != nil {
			return nil, err
		}
		// squirrel renders a slice value as "col IN (?,...)".
		return sq.Eq{pred.Column: pred.Values}, nil
	case *In:
		return Compile(*pred)
	case And:
		conj := make(sq.And, 0, len(pred.Predicates))
		for _, sub := range pred.Predicates {
			z, err := Compile(sub)
			if err != nil {
				return nil, err
			}
			conj = append(conj, z)
		}
		return conj, nil
	case *And:
		return Compile(*pred)
	case Raw:
		return sq.Expr(pred.SQL, pred.Args...), nil
	case *Raw:
		return Compile(*pred)
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}
