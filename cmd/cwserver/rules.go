package main

import (
	"github.com/cory-johannsen/colonial-weather/internal/config"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

// loadRules builds the ruleset from the defaults, the configured constants and
// the optional content overlay.
//
// Precondition: cfg has passed config validation.
// Postcondition: Returns a non-nil Rules or a non-nil error.
func loadRules(cfg config.RulesConfig) (*rules.Rules, error) {
	r := rules.Default()
	r.ArmorPolicy = rules.ArmorPolicy(cfg.ArmorPolicy)
	r.MassiveDamageThreshold = cfg.MassiveDamageThreshold
	r.ArmorDegradeMultiplier = cfg.ArmorDegradeMultiplier
	r.DefaultTargetNumber = cfg.DefaultTargetNumber
	r.MaxExplosionDepth = cfg.MaxExplosionDepth
	r.MaxPoolSize = cfg.MaxPoolSize
	if cfg.ContentFile == "" {
		return r, nil
	}
	if err := r.ApplyOverlayFile(cfg.ContentFile); err != nil {
		return nil, err
	}
	return r, nil
}
