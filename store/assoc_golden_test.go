package store

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kinship/query"
)

// Generated SQL is part of the package's contract with the schema; goldens
// pin the exact statement shapes.
func TestGeneratedSQL(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	outSet := friendsOut().Bind(nil, 7).(*joinSet)
	inSet := friendsIn().Bind(nil, 7).(*joinSet)

	t.Run("many_to_many_out", func(t *testing.T) {
		b, err := outSet.buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "many_to_many_out", []byte(stmt))
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("many_to_many_in", func(t *testing.T) {
		b, err := inSet.buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "many_to_many_in", []byte(stmt))
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("many_to_many_conditions", func(t *testing.T) {
		scoped := ManyToMany{
			Target:     people(),
			Join:       "people_people",
			OriginKey:  "person_id",
			TargetKey:  "person_id_target",
			Conditions: query.Eq{Column: "people.channel_id", Value: int64(1)},
		}
		b, err := scoped.Bind(nil, 7).(*joinSet).buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "many_to_many_conditions", []byte(stmt))
		assert.Equal(t, []any{int64(7), int64(1)}, args)
	})

	t.Run("through_conditions", func(t *testing.T) {
		friends := Through{
			Target:     people(),
			Join:       Table{Name: "invitations"},
			JoinKey:    "person_id",
			SourceKey:  "person_id_target",
			Conditions: query.Raw{SQL: "invitations.accepted = 1"},
		}
		b, err := friends.Bind(nil, 7).(*joinSet).buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "through_conditions", []byte(stmt))
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("has_many", func(t *testing.T) {
		sent := HasMany{Target: Table{Name: "invitations"}, ForeignKey: "person_id"}
		b, err := sent.Bind(nil, 7).(*fkSet).buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "has_many", []byte(stmt))
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("filtered_ordered_limited", func(t *testing.T) {
		b, err := outSet.buildSelect(&query.Query{
			Where: query.Eq{Column: "people.name", Value: "alice"},
			Order: "people.name DESC",
			Limit: 5,
		})
		require.NoError(t, err)
		stmt, args, err := b.ToSql()
		require.NoError(t, err)
		g.Assert(t, "filtered_ordered_limited", []byte(stmt))
		assert.Equal(t, []any{int64(7), "alice"}, args)
	})

	t.Run("existence_probe", func(t *testing.T) {
		b, err := applyConditions(outSet.base("1"), outSet.conds)
		require.NoError(t, err)
		stmt, args, err := b.Limit(1).ToSql()
		require.NoError(t, err)
		g.Assert(t, "existence_probe", []byte(stmt))
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("find_id", func(t *testing.T) {
		b, err := outSet.buildSelect(nil)
		require.NoError(t, err)
		stmt, args, err := b.Where(sq.Eq{outSet.pk(): int64(3)}).Limit(1).ToSql()
		require.NoError(t, err)
		g.Assert(t, "find_id", []byte(stmt))
		assert.Equal(t, []any{int64(7), int64(3)}, args)
	})
}
