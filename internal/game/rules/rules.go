package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArmorPolicy selects what happens to armor overwhelmed by a hit.
type ArmorPolicy string

const (
	// ArmorAblative removes one point of soak from the struck armor.
	ArmorAblative ArmorPolicy = "ablative"
	// ArmorDestroy ruins the struck armor outright.
	ArmorDestroy ArmorPolicy = "destroy"
)

// XPCosts is the experience price list. Multipliers are applied to the current rating.
type XPCosts struct {
	NewSkill       int `yaml:"new_skill" json:"new_skill"`
	RaiseSkill     int `yaml:"raise_skill" json:"raise_skill"`
	RaiseAttribute int `yaml:"raise_attribute" json:"raise_attribute"`
	RaiseWillpower int `yaml:"raise_willpower" json:"raise_willpower"`
	Specialization int `yaml:"specialization" json:"specialization"`
}

// Rules bundles every rule table and named constant.
type Rules struct {
	Skills      []SkillDef
	XP          XPCosts
	ArmorPolicy ArmorPolicy
	// MassiveDamageThreshold: final damage strictly above this fills the whole track.
	MassiveDamageThreshold int
	// ArmorDegradeMultiplier: armor degrades when raw successes exceed this many times its value.
	ArmorDegradeMultiplier int
	DefaultTargetNumber    int
	MaxExplosionDepth      int
	// MaxPoolSize caps the dice in any one pool.
	MaxPoolSize int
	WalkSpeed   int

	skillIndex map[string]SkillDef
}

// Default returns the standard ruleset.
//
// Postcondition: Returns a fully populated Rules with the ablative armor policy.
func Default() *Rules {
	r := &Rules{
		Skills: defaultSkills(),
		XP: XPCosts{
			NewSkill:       3,
			RaiseSkill:     2,
			RaiseAttribute: 5,
			RaiseWillpower: 1,
			Specialization: 3,
		},
		ArmorPolicy:            ArmorAblative,
		MassiveDamageThreshold: 7,
		ArmorDegradeMultiplier: 2,
		DefaultTargetNumber:    7,
		MaxExplosionDepth:      100,
		MaxPoolSize:            50,
		WalkSpeed:              7,
	}
	r.index()
	return r
}

// ApplyOverlayFile reads path and merges it with ApplyOverlay.
//
// Postcondition: r is unchanged when an error is returned.
func (r *Rules) ApplyOverlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rule content %q: %w", path, err)
	}
	if err := r.ApplyOverlay(data); err != nil {
		return fmt.Errorf("rule content %q: %w", path, err)
	}
	return nil
}

// Overlay is the YAML shape of a rule-content file. Skills replace catalog
// entries with the same key or are appended; zero XP costs keep the default.
type Overlay struct {
	Skills    []SkillDef `yaml:"skills"`
	XPCosts   XPCosts    `yaml:"xp_costs"`
	WalkSpeed int        `yaml:"walk_speed"`
}

// Validate reports every malformed entry in the overlay.
func (o *Overlay) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, s := range o.Skills {
		if s.Key == "" {
			errs = append(errs, fmt.Errorf("skills[%d]: key must not be empty", i))
		}
		if seen[s.Key] {
			errs = append(errs, fmt.Errorf("skills[%d]: duplicate key %q", i, s.Key))
		}
		seen[s.Key] = true
		if !s.Attribute.Valid() {
			errs = append(errs, fmt.Errorf("skills[%d]: unknown attribute %q", i, s.Attribute))
		}
	}
	c := o.XPCosts
	if c.NewSkill < 0 || c.RaiseSkill < 0 || c.RaiseAttribute < 0 || c.RaiseWillpower < 0 || c.Specialization < 0 {
		errs = append(errs, errors.New("xp_costs must be >= 0"))
	}
	if o.WalkSpeed < 0 {
		errs = append(errs, errors.New("walk_speed must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("rule content validation failed: %v", errs)
	}
	return nil
}

// ApplyOverlay merges a YAML overlay into r. It is meant for start-up only.
//
// Postcondition: r is unchanged when an error is returned.
func (r *Rules) ApplyOverlay(data []byte) error {
	var o Overlay
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		return fmt.Errorf("parsing overlay: %w", err)
	}
	if err := o.Validate(); err != nil {
		return err
	}

	for _, s := range o.Skills {
		if s.Label == "" {
			s.Label = s.Key
		}
		replaced := false
		for i := range r.Skills {
			if r.Skills[i].Key == s.Key {
				r.Skills[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			r.Skills = append(r.Skills, s)
		}
	}
	mergeCost(&r.XP.NewSkill, o.XPCosts.NewSkill)
	mergeCost(&r.XP.RaiseSkill, o.XPCosts.RaiseSkill)
	mergeCost(&r.XP.RaiseAttribute, o.XPCosts.RaiseAttribute)
	mergeCost(&r.XP.RaiseWillpower, o.XPCosts.RaiseWillpower)
	mergeCost(&r.XP.Specialization, o.XPCosts.Specialization)
	if o.WalkSpeed > 0 {
		r.WalkSpeed = o.WalkSpeed
	}
	r.index()
	return nil
}

func mergeCost(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func (r *Rules) index() {
	r.skillIndex = make(map[string]SkillDef, len(r.Skills))
	for _, s := range r.Skills {
		r.skillIndex[s.Key] = s
	}
}

// Skill looks up a catalog entry by key.
func (r *Rules) Skill(key string) (SkillDef, bool) {
	s, ok := r.skillIndex[key]
	return s, ok
}
