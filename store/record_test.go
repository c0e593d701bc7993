package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	rec := &Record{
		Table: "people",
		ID:    3,
		Columns: map[string]any{
			"id":       int64(3),
			"name":     "carol",
			"accepted": int64(1),
			"note":     nil,
		},
	}

	assert.Equal(t, RecordKey{Table: "people", ID: 3}, rec.Key())
	assert.Equal(t, "carol", rec.String("name"))
	assert.Equal(t, "", rec.String("note"))
	assert.Equal(t, int64(3), rec.Int("id"))
	assert.Equal(t, int64(0), rec.Int("name"))
	assert.True(t, rec.Bool("accepted"))
	assert.False(t, rec.Bool("missing"))
	assert.Nil(t, rec.Get("missing"))
}

func TestScanRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ExecScript(ctx, `
		CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, channel_id INTEGER NOT NULL DEFAULT 0);
		INSERT INTO people (id, name, channel_id) VALUES (1, 'alice', 0), (2, 'bob', 1);
	`))

	rows, err := s.DB().QueryContext(ctx, "SELECT * FROM people ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	recs, err := ScanRecords(rows, Table{Name: "people"})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, int64(1), recs[0].ID)
	assert.Equal(t, "alice", recs[0].String("name"))
	assert.Equal(t, int64(2), recs[1].ID)
	assert.Equal(t, int64(1), recs[1].Int("channel_id"))
}

func TestScanRecordsEmptyResultIsNotNil(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ExecScript(ctx, `CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT)`))

	rows, err := s.DB().QueryContext(ctx, "SELECT * FROM people")
	require.NoError(t, err)
	defer rows.Close()

	recs, err := ScanRecords(rows, Table{Name: "people"})
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestScanRecordsRequiresKeyColumn(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ExecScript(ctx, `
		CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		INSERT INTO people (id, name) VALUES (1, 'alice');
	`))

	rows, err := s.DB().QueryContext(ctx, "SELECT name FROM people")
	require.NoError(t, err)
	defer rows.Close()

	_, err = ScanRecords(rows, Table{Name: "people"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key column")
}

func TestScanRecordsCustomKeyColumn(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ExecScript(ctx, `
		CREATE TABLE tokens (token_id INTEGER PRIMARY KEY, label TEXT);
		INSERT INTO tokens (token_id, label) VALUES (7, 'x');
	`))

	rows, err := s.DB().QueryContext(ctx, "SELECT * FROM tokens")
	require.NoError(t, err)
	defer rows.Close()

	recs, err := ScanRecords(rows, Table{Name: "tokens", Key: "token_id"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(7), recs[0].ID)
}
