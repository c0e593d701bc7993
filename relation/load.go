package relation

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/kinship/query"
	"github.com/roach88/kinship/store"
)

// Declaration files describe entity types, network relationships, and
// union accessor groups in CUE:
//
//	entity: people: {}
//	entity: invitations: {}
//
//	network: friends: {
//	    entity:     "people"
//	    through:    "invitations"
//	    conditions: "invitations.accepted = 1"
//	}
//
//	union: circle: {entity: "people", members: ["friends_in", "friends_out"]}
//
// Load is declaration-time work: all failures surface as ConfigError here,
// never later at query time.

type entityDecl struct {
	Key string `json:"key"`
}

type networkDecl struct {
	Entity                string `json:"entity"`
	Through               string `json:"through"`
	JoinTable             string `json:"joinTable"`
	ForeignKey            string `json:"foreignKey"`
	AssociationForeignKey string `json:"associationForeignKey"`
	Conditions            string `json:"conditions"`
}

type unionDecl struct {
	Entity  string   `json:"entity"`
	Members []string `json:"members"`
}

// Load reads a CUE declaration file and applies it to the registry.
// Entities are declared first, then networks, then union groups, so a
// network may reference an intermediate entity from the same file.
func Load(path string, reg *Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Message: fmt.Sprintf("read declarations: %v", err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return &ConfigError{Message: fmt.Sprintf("%s: compile declarations: %v", path, err)}
	}

	if err := loadEntities(v, reg); err != nil {
		return err
	}
	if err := loadNetworks(v, reg); err != nil {
		return err
	}
	return loadUnions(v, reg)
}

func loadEntities(v cue.Value, reg *Registry) error {
	ents := v.LookupPath(cue.ParsePath("entity"))
	if !ents.Exists() {
		return nil
	}
	iter, err := ents.Fields()
	if err != nil {
		return &ConfigError{Message: fmt.Sprintf("iterating entities: %v", err)}
	}
	for iter.Next() {
		var d entityDecl
		if err := iter.Value().Decode(&d); err != nil {
			return configErrorf(iter.Label(), "decoding entity: %v", err)
		}
		reg.Type(store.Table{Name: iter.Label(), Key: d.Key})
	}
	return nil
}

func loadNetworks(v cue.Value, reg *Registry) error {
	nets := v.LookupPath(cue.ParsePath("network"))
	if !nets.Exists() {
		return nil
	}
	iter, err := nets.Fields()
	if err != nil {
		return &ConfigError{Message: fmt.Sprintf("iterating networks: %v", err)}
	}
	for iter.Next() {
		name := iter.Label()
		var d networkDecl
		if err := iter.Value().Decode(&d); err != nil {
			return configErrorf(name, "decoding network: %v", err)
		}
		t, ok := reg.Lookup(d.Entity)
		if !ok {
			return configErrorf(name, "entity %q not declared", d.Entity)
		}
		cfg := Config{
			Through:               d.Through,
			JoinTable:             d.JoinTable,
			ForeignKey:            d.ForeignKey,
			AssociationForeignKey: d.AssociationForeignKey,
		}
		if d.Conditions != "" {
			cfg.Conditions = query.Raw{SQL: d.Conditions}
		}
		if err := t.DeclareNetwork(name, cfg); err != nil {
			return err
		}
	}
	return nil
}

func loadUnions(v cue.Value, reg *Registry) error {
	unions := v.LookupPath(cue.ParsePath("union"))
	if !unions.Exists() {
		return nil
	}
	iter, err := unions.Fields()
	if err != nil {
		return &ConfigError{Message: fmt.Sprintf("iterating unions: %v", err)}
	}
	for iter.Next() {
		name := iter.Label()
		var d unionDecl
		if err := iter.Value().Decode(&d); err != nil {
			return configErrorf(name, "decoding union: %v", err)
		}
		t, ok := reg.Lookup(d.Entity)
		if !ok {
			return configErrorf(name, "entity %q not declared", d.Entity)
		}
		if err := t.DeclareUnion(name, d.Members...); err != nil {
			return err
		}
	}
	return nil
}
