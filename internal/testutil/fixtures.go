// Package testutil provides store and fixture helpers shared by package
// tests. Fixtures are YAML files listing tables in creation order, each
// with its DDL and seed rows.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kinship/store"
)

// Fixture is the root of a fixture file.
type Fixture struct {
	Tables []TableFixture `yaml:"tables"`
}

// TableFixture declares one table: its DDL and seed rows.
type TableFixture struct {
	Name   string           `yaml:"name"`
	Create string           `yaml:"create"`
	Rows   []map[string]any `yaml:"rows"`
}

// OpenStore creates a store in a per-test temp directory and closes it on
// cleanup.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// LoadFixtures reads a fixture file and applies it: DDL first, then rows,
// tables in file order.
func LoadFixtures(t *testing.T, s *store.Store, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}

	ctx := context.Background()
	for _, tbl := range fx.Tables {
		if tbl.Create != "" {
			if err := s.ExecScript(ctx, tbl.Create); err != nil {
				t.Fatalf("create table %s: %v", tbl.Name, err)
			}
		}
		for _, row := range tbl.Rows {
			if _, err := s.Insert(ctx, tbl.Name, row); err != nil {
				t.Fatalf("insert into %s (%v): %v", tbl.Name, row, err)
			}
		}
	}
}
