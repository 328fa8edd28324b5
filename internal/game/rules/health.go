package rules

const (
	// StandardBoxes is the length of a health track with no bonus boxes.
	StandardBoxes = 7
	// IncapacitatedPenalty is the sentinel penalty of a fully filled track.
	// It must be special-cased by callers, never added to a pool.
	IncapacitatedPenalty = 99
)

// HealthLevel is one rung of the standard health track.
type HealthLevel struct {
	Label   string `json:"label"`
	Penalty int    `json:"penalty"`
}

// Index 0 is the shallowest level.
var standardHealthLevels = [StandardBoxes]HealthLevel{
	{Label: "Bruised", Penalty: 0},
	{Label: "Injured", Penalty: -1},
	{Label: "Wounded", Penalty: -1},
	{Label: "Hurt", Penalty: -2},
	{Label: "Mauled", Penalty: -2},
	{Label: "Crippled", Penalty: -5},
	{Label: "Incapacitated", Penalty: IncapacitatedPenalty},
}

// StandardHealthLevels returns a copy of the standard health-level table.
//
// Postcondition: len(result) == StandardBoxes and the last entry carries IncapacitatedPenalty.
func StandardHealthLevels() []HealthLevel {
	out := make([]HealthLevel, StandardBoxes)
	copy(out, standardHealthLevels[:])
	return out
}

// HealthLevelAt returns the standard level for a zero-based index, clamped
// into the table.
func HealthLevelAt(i int) HealthLevel {
	if i < 0 {
		i = 0
	}
	if i >= StandardBoxes {
		i = StandardBoxes - 1
	}
	return standardHealthLevels[i]
}
