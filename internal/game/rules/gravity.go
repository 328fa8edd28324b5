package rules

import "strings"

// Gravity is one of the four gravity bands a world may have.
type Gravity string

const (
	GravityZero   Gravity = "zero"
	GravityLow    Gravity = "low"
	GravityNormal Gravity = "normal"
	GravityHigh   Gravity = "high"
)

// ParseGravity normalizes s case-insensitively.
//
// Postcondition: ok is false and g is empty when s names no gravity band.
func ParseGravity(s string) (g Gravity, ok bool) {
	g = Gravity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GravityZero, GravityLow, GravityNormal, GravityHigh:
		return g, true
	}
	return "", false
}

// GravityDelta is the physical attribute adjustment for living away from home gravity.
type GravityDelta struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Sta int `json:"sta"`
}

// For returns the delta applying to attr; non-physical attributes get zero.
func (d GravityDelta) For(attr Attribute) int {
	switch attr {
	case Strength:
		return d.Str
	case Dexterity:
		return d.Dex
	case Stamina:
		return d.Sta
	}
	return 0
}

// The deltas are not linear in gravity band, so this stays a lookup table.
var gravityMatrix = map[Gravity]map[Gravity]GravityDelta{
	GravityZero: {
		GravityZero:   {0, 0, 0},
		GravityLow:    {+1, -1, 0},
		GravityNormal: {+2, -1, 0},
		GravityHigh:   {+3, -2, +2},
	},
	GravityLow: {
		GravityZero:   {-1, 0, -1},
		GravityLow:    {0, 0, 0},
		GravityNormal: {+1, 0, 0},
		GravityHigh:   {+2, -1, +2},
	},
	GravityNormal: {
		GravityZero:   {-2, +1, -2},
		GravityLow:    {-1, 0, -1},
		GravityNormal: {0, 0, 0},
		GravityHigh:   {+1, 0, +1},
	},
	GravityHigh: {
		GravityZero:   {-3, +2, -3},
		GravityLow:    {-2, +1, -2},
		GravityNormal: {-1, 0, -1},
		GravityHigh:   {0, 0, 0},
	},
}

// GravityModifier looks up the delta for a native of home currently living in current.
// Keys are case-insensitive.
//
// Postcondition: Returns the zero delta if either key is empty or unrecognized.
func GravityModifier(home, current string) GravityDelta {
	h, ok := ParseGravity(home)
	if !ok {
		return GravityDelta{}
	}
	c, ok := ParseGravity(current)
	if !ok {
		return GravityDelta{}
	}
	return gravityMatrix[h][c]
}
