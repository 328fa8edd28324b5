package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
)

// ItemDef is a catalog template loaded from YAML.
type ItemDef struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Kind        Kind             `yaml:"kind"`
	Tags        []string         `yaml:"tags"`
	Effects     []effect.Effect  `yaml:"effects"`
	Weapon      *WeaponStats     `yaml:"weapon"`
	Armor       *ArmorStats      `yaml:"armor"`
	Cybernetic  *CyberneticStats `yaml:"cybernetic"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	if d.ID == "" {
		return errors.New("item validation failed: id must not be empty")
	}
	it := d.New()
	return it.Validate()
}

// New creates a fresh, unequipped item from the template. Weapons start fully loaded.
//
// Postcondition: result has a new random ID and shares no memory with d.
func (d *ItemDef) New() *Item {
	tmpl := &Item{
		DefID:      d.ID,
		Name:       d.Name,
		Kind:       d.Kind,
		Tags:       d.Tags,
		Bundles:    d.Effects,
		Weapon:     d.Weapon,
		Armor:      d.Armor,
		Cybernetic: d.Cybernetic,
	}
	it := tmpl.Clone()
	it.ID = uuid.New()
	if it.Weapon != nil {
		it.Weapon.Reload()
	}
	return it
}

// LoadItems reads every *.yaml and *.yml file in dir. A file may hold one
// ItemDef or several YAML documents.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		for {
			var d ItemDef
			if err := dec.Decode(&d); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
			}
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
			}
			items = append(items, &d)
		}
	}
	if items == nil {
		items = []*ItemDef{}
	}
	return items, nil
}
