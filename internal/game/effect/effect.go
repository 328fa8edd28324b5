// Package effect models conditional roll modifiers carried by items and folds
// them into per-bucket totals for a roll.
//
// Effects are plain data: a trigger predicate and a list of modifiers. Items own
// their effects; nothing here points back at an actor.
package effect

import (
	"errors"
	"fmt"
	"strings"
)

// Path names the bucket a modifier adjusts.
type Path string

const (
	DicePool   Path = "dicePool"
	Difficulty Path = "difficulty"
	Successes  Path = "successes"
	Initiative Path = "initiative"
)

// Valid reports whether p names a known bucket.
func (p Path) Valid() bool {
	switch p {
	case DicePool, Difficulty, Successes, Initiative:
		return true
	}
	return false
}

// Op is the arithmetic a modifier performs. Only OpAdd is aggregated.
type Op string

const OpAdd Op = "add"

// AnyRollType is the explicit wildcard roll type.
const AnyRollType = "(any)"

// Modifier adjusts one bucket.
type Modifier struct {
	Path  Path `json:"path" yaml:"path"`
	Op    Op   `json:"op,omitempty" yaml:"op"`
	Value int  `json:"value" yaml:"value"`
}

// adds reports whether m participates in aggregation. An empty op means add.
func (m Modifier) adds() bool {
	return m.Op == "" || m.Op == OpAdd
}

// Effect is a trigger predicate plus the modifiers it contributes.
type Effect struct {
	Label string `json:"label,omitempty" yaml:"label"`
	// RollType restricts the effect to one roll type; empty or "(any)" matches all.
	RollType string `json:"roll_type,omitempty" yaml:"roll_type"`
	// Tags must all be present on the roll for the effect to apply.
	Tags      []string   `json:"tags,omitempty" yaml:"tags"`
	Modifiers []Modifier `json:"modifiers" yaml:"modifiers"`
}

// Clone returns a copy of e that shares no slices with it.
func (e Effect) Clone() Effect {
	e.Tags = append([]string(nil), e.Tags...)
	e.Modifiers = append([]Modifier(nil), e.Modifiers...)
	return e
}

// Validate reports every malformed modifier.
func (e Effect) Validate() error {
	var errs []error
	for i, m := range e.Modifiers {
		if !m.Path.Valid() {
			errs = append(errs, fmt.Errorf("modifiers[%d]: unknown path %q", i, m.Path))
		}
		if !m.adds() {
			errs = append(errs, fmt.Errorf("modifiers[%d]: unsupported op %q", i, m.Op))
		}
	}
	if len(e.Modifiers) == 0 {
		errs = append(errs, errors.New("modifiers must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("effect %q: %v", e.Label, errs)
	}
	return nil
}

// Context describes the roll being made.
type Context struct {
	RollType string   `json:"roll_type"`
	Tags     []string `json:"tags,omitempty"`
}

// Matches reports whether e triggers for ctx. Roll types and tags compare
// case-insensitively.
func (e Effect) Matches(ctx Context) bool {
	rt := normalize(e.RollType)
	if rt != "" && rt != AnyRollType && rt != normalize(ctx.RollType) {
		return false
	}
	if len(e.Tags) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(ctx.Tags))
	for _, t := range ctx.Tags {
		have[normalize(t)] = struct{}{}
	}
	for _, t := range e.Tags {
		n := normalize(t)
		if n == "" {
			continue
		}
		if _, ok := have[n]; !ok {
			return false
		}
	}
	return true
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(csv string) []string {
	var out []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
