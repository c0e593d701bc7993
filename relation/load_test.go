package relation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kinship/internal/testutil"
)

func TestLoadDeclarations(t *testing.T) {
	s := testutil.OpenStore(t)
	testutil.LoadFixtures(t, s, "testdata/network.yaml")
	reg := NewRegistry(s)

	require.NoError(t, Load("testdata/declarations.cue", reg))

	people, ok := reg.Lookup("people")
	require.True(t, ok)
	_, ok = reg.Lookup("invitations")
	require.True(t, ok)

	alice := fetchPerson(t, s, 1)

	u, err := people.Union(alice, "friends")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, unionIDs(t, u), "through network with raw conditions")

	// colleagues uses the default join table from the same file
	u, err = people.Union(alice, "colleagues")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, unionIDs(t, u))

	u, err = people.Union(alice, "circle")
	require.NoError(t, err)
	n, err := u.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "custom union spans both networks, deduplicated")
}

func TestLoadMissingFile(t *testing.T) {
	reg := NewRegistry(nil)
	err := Load("testdata/nope.cue", reg)
	require.Error(t, err)
	assert.True(t, IsConfig(err))
}

func TestLoadBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("entity: people: {"), 0o644))

	err := Load(path, NewRegistry(nil))
	require.Error(t, err)
	assert.True(t, IsConfig(err))
}

func TestLoadUnknownEntity(t *testing.T) {
	err := Load("testdata/bad_entity.cue", NewRegistry(nil))
	require.Error(t, err)
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), `"ghosts"`)
}

func TestLoadUnknownUnionMember(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decl.cue")
	src := `
entity: people: {}
union: circle: {entity: "people", members: ["missing_out"]}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	err := Load(path, NewRegistry(nil))
	require.Error(t, err)
	assert.True(t, IsConfig(err))

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "circle", ce.Name)
}
