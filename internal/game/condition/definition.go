// Package condition defines the status effects a combatant can carry and the
// set that tracks which of them are currently applied.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in status IDs used by the damage pipeline and turn automation.
const (
	Stunned     = "stunned"
	Unconscious = "unconscious"
	Dead        = "dead"
	Bleeding    = "bleeding"
)

// ConditionDef is the static definition of a status, loaded from YAML.
type ConditionDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// SkipsTurn causes the bearer's turn to be skipped automatically.
	SkipsTurn bool `yaml:"skips_turn"`
	// ClearsAfterSkip removes the status once it has cost one turn.
	ClearsAfterSkip bool `yaml:"clears_after_skip"`
	// TickDamage is aggregate HP lost at the start of each of the bearer's turns.
	TickDamage int `yaml:"tick_damage"`
}

// Validate reports an error if def is missing required fields or contains illegal values.
func (def *ConditionDef) Validate() error {
	var errs []error
	if def.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if def.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if def.TickDamage < 0 {
		errs = append(errs, errors.New("tick_damage must be >= 0"))
	}
	if def.ClearsAfterSkip && !def.SkipsTurn {
		errs = append(errs, errors.New("clears_after_skip requires skips_turn"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition validation failed: %v", errs)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Builtin returns a Registry holding the four statuses the engine applies itself.
//
// Postcondition: Get succeeds for Stunned, Unconscious, Dead and Bleeding.
func Builtin() *Registry {
	reg := NewRegistry()
	reg.Register(&ConditionDef{ID: Stunned, Name: "Stunned", Description: "Loses the next turn.", SkipsTurn: true, ClearsAfterSkip: true})
	reg.Register(&ConditionDef{ID: Unconscious, Name: "Unconscious", Description: "Cannot act until revived.", SkipsTurn: true})
	reg.Register(&ConditionDef{ID: Dead, Name: "Dead", Description: "Defeated.", SkipsTurn: true})
	reg.Register(&ConditionDef{ID: Bleeding, Name: "Bleeding", Description: "Loses 1 HP at the start of each turn until healed.", TickDamage: 1})
	return reg
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered ConditionDefs ordered by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir on top of the built-in statuses.
// A file with a built-in ID replaces that definition.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := Builtin()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid condition in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
