// Package wound implements the health track: an ordered run of damage boxes
// whose deepest filled box sets the action penalty.
package wound

import (
	"sort"
	"strings"

	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

// Severity is the damage code held by one box.
type Severity int

const (
	None Severity = iota
	Bashing
	Lethal
	Aggravated
)

var severityNames = [...]string{"none", "bashing", "lethal", "aggravated"}

// String returns the lower-case name of s.
func (s Severity) String() string {
	if s < None || s > Aggravated {
		return "unknown"
	}
	return severityNames[s]
}

// Valid reports whether s is one of the four codes.
func (s Severity) Valid() bool {
	return s >= None && s <= Aggravated
}

// ParseSeverity accepts a damage type name, case-insensitively.
func ParseSeverity(name string) (Severity, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range severityNames {
		if s == n {
			return Severity(i), true
		}
	}
	return None, false
}

// Track is the ordered box sequence. Index 0 is the shallowest box.
//
// After any automatic mutation boxes are sorted by descending severity, so the
// filled boxes form a prefix and empty boxes trail behind them.
type Track []Severity

// Penalty is the derived action penalty of a track.
type Penalty struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	// Incapacitated is set when Value is the sentinel; the actor cannot act.
	Incapacitated bool `json:"incapacitated"`
}

// HealthyLabel is reported for an empty track.
const HealthyLabel = "Healthy"

// BoxCount returns the track length for a number of bonus boxes.
//
// Postcondition: result == rules.StandardBoxes + max(0, bonus).
func BoxCount(bonus int) int {
	if bonus < 0 {
		bonus = 0
	}
	return rules.StandardBoxes + bonus
}

// New returns an empty track sized for bonus boxes.
func New(bonus int) Track {
	return make(Track, BoxCount(bonus))
}

// Resize grows t to fit bonus boxes. Tracks never shrink once boxes are granted.
//
// Postcondition: len(result) == max(len(t), BoxCount(bonus)); existing boxes are preserved.
func (t Track) Resize(bonus int) Track {
	n := BoxCount(bonus)
	if len(t) >= n {
		return t.clone()
	}
	out := make(Track, n)
	copy(out, t)
	return out
}

// Level returns the health level of box i. Bonus boxes sit at the shallow end
// and carry no penalty.
func (t Track) Level(i int) rules.HealthLevel {
	bonus := len(t) - rules.StandardBoxes
	if bonus < 0 {
		bonus = 0
	}
	return rules.HealthLevelAt(i - bonus)
}

// CurrentPenalty scans from the deepest box toward the shallowest; the first
// filled box found sets the penalty.
//
// Postcondition: an empty track returns {0, "Healthy"}; a track whose deepest
// box is filled returns the incapacitated sentinel.
func (t Track) CurrentPenalty() Penalty {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i] == None {
			continue
		}
		lvl := t.Level(i)
		return Penalty{
			Value:         lvl.Penalty,
			Label:         lvl.Label,
			Incapacitated: lvl.Penalty == rules.IncapacitatedPenalty,
		}
	}
	return Penalty{Label: HealthyLabel}
}

// DeepestFilled returns the index of the deepest non-empty box, or -1.
func (t Track) DeepestFilled() int {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i] != None {
			return i
		}
	}
	return -1
}

// Filled returns the number of non-empty boxes.
func (t Track) Filled() int {
	n := 0
	for _, s := range t {
		if s != None {
			n++
		}
	}
	return n
}

// Count returns the number of boxes holding exactly sev.
func (t Track) Count(sev Severity) int {
	n := 0
	for _, s := range t {
		if s == sev {
			n++
		}
	}
	return n
}

// Full reports whether no box is empty.
func (t Track) Full() bool {
	return len(t) > 0 && t.Filled() == len(t)
}

// ApplyBoxFill marks the first count boxes with max(existing, sev) and re-sorts.
//
// Postcondition: count is clamped to [0, len(t)]; t is not modified.
func (t Track) ApplyBoxFill(sev Severity, count int) Track {
	out := t.clone()
	if !sev.Valid() {
		return out
	}
	if count < 0 {
		count = 0
	}
	if count > len(out) {
		count = len(out)
	}
	for i := 0; i < count; i++ {
		if sev > out[i] {
			out[i] = sev
		}
	}
	out.sort()
	return out
}

// FillAll fills every box with max(existing, sev).
func (t Track) FillAll(sev Severity) Track {
	return t.ApplyBoxFill(sev, len(t))
}

// ToggleBox cycles box i through none, bashing, lethal, aggravated and back to none.
// Manual edits are not re-sorted.
//
// Postcondition: ok is false and the copy is unchanged when i is out of range.
func (t Track) ToggleBox(i int) (out Track, ok bool) {
	out = t.clone()
	if i < 0 || i >= len(out) {
		return out, false
	}
	out[i] = (out[i] + 1) % (Aggravated + 1)
	return out, true
}

// Heal clears up to amount boxes holding exactly sev, shallowest first, then re-sorts.
//
// Postcondition: healed <= amount and healed <= t.Count(sev); t is not modified.
func (t Track) Heal(sev Severity, amount int) (out Track, healed int) {
	out = t.clone()
	if sev == None || amount <= 0 {
		return out, 0
	}
	for i := range out {
		if healed == amount {
			break
		}
		if out[i] == sev {
			out[i] = None
			healed++
		}
	}
	out.sort()
	return out, healed
}

// Sorted returns a copy packed by descending severity.
func (t Track) Sorted() Track {
	out := t.clone()
	out.sort()
	return out
}

func (t Track) sort() {
	sort.SliceStable(t, func(i, j int) bool { return t[i] > t[j] })
}

func (t Track) clone() Track {
	out := make(Track, len(t))
	copy(out, t)
	return out
}
