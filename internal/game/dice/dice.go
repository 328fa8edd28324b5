// Package dice provides the randomness abstraction and the d10 success-counting
// pool resolver for the Colonial Weather rules engine.
package dice

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Sides is the only die size the ruleset uses.
	Sides = 10
	// MinTargetNumber and MaxTargetNumber bound every target number.
	MinTargetNumber = 2
	MaxTargetNumber = 10
	// DefaultTargetNumber is the target number used when none is supplied.
	DefaultTargetNumber = 7
	// DefaultMaxExplosionDepth caps a single explosion chain.
	DefaultMaxExplosionDepth = 100
	// MaxPoolSize is the hard ceiling on dice in one pool. Configured limits
	// may be lower, never higher.
	MaxPoolSize = 1000
)

// ErrPoolTooLarge is returned when notation asks for more dice than allowed.
var ErrPoolTooLarge = errors.New("dice: pool too large")

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Pool describes a dice pool before it is rolled.
type Pool struct {
	Size         int  `json:"size"`
	TargetNumber int  `json:"target_number"`
	Specialized  bool `json:"specialized"`
}

// Normalize clamps Size to [0, MaxPoolSize] and TargetNumber to
// [MinTargetNumber, MaxTargetNumber]. A zero TargetNumber is replaced with
// DefaultTargetNumber.
//
// Postcondition: 0 <= Size <= MaxPoolSize and MinTargetNumber <= TargetNumber <= MaxTargetNumber.
func (p Pool) Normalize() Pool {
	p.Size = ClampPoolSize(p.Size, MaxPoolSize)
	if p.TargetNumber == 0 {
		p.TargetNumber = DefaultTargetNumber
	}
	p.TargetNumber = ClampTargetNumber(p.TargetNumber)
	return p
}

// String renders the pool in dice notation, e.g. "5d10>=7!".
func (p Pool) String() string {
	s := fmt.Sprintf("%dd%d>=%d", p.Size, Sides, p.TargetNumber)
	if p.Specialized {
		s += "!"
	}
	return s
}

// ClampTargetNumber bounds tn to [MinTargetNumber, MaxTargetNumber].
func ClampTargetNumber(tn int) int {
	if tn < MinTargetNumber {
		return MinTargetNumber
	}
	if tn > MaxTargetNumber {
		return MaxTargetNumber
	}
	return tn
}

// ClampPoolSize bounds size to [0, limit]. A limit outside [1, MaxPoolSize]
// selects MaxPoolSize.
func ClampPoolSize(size, limit int) int {
	if limit < 1 || limit > MaxPoolSize {
		limit = MaxPoolSize
	}
	if size < 0 {
		return 0
	}
	if size > limit {
		return limit
	}
	return size
}

// PoolResult holds the full audit trail for one pool resolution.
//
// Invariant: Botch implies Successes == 0.
// Invariant: CannotAct implies len(Faces) == 0.
type PoolResult struct {
	Pool Pool `json:"pool"`
	// Faces are the original dice, in roll order.
	Faces []int `json:"faces"`
	// Explosions are the extra dice granted by specialization, in roll order.
	Explosions []int `json:"explosions,omitempty"`
	// AutoSuccesses were added after the roll (willpower, flat success modifiers).
	AutoSuccesses int  `json:"auto_successes"`
	Successes     int  `json:"successes"`
	Botch         bool `json:"botch"`
	// CannotAct is set when the pool resolved to zero dice and no roll was made.
	CannotAct bool `json:"cannot_act"`
}

// Ones returns the number of original faces showing 1.
func (r PoolResult) Ones() int {
	n := 0
	for _, f := range r.Faces {
		if f == 1 {
			n++
		}
	}
	return n
}

// WithAutoSuccesses returns r with n automatic successes folded into the total.
// The total is clamped at zero and the botch flag is recomputed against the
// original faces.
//
// Postcondition: Successes >= 0; Botch == (Successes == 0 && Ones() > 0).
// A CannotAct result is returned unchanged.
func (r PoolResult) WithAutoSuccesses(n int) PoolResult {
	if r.CannotAct || n == 0 {
		return r
	}
	r.AutoSuccesses += n
	r.Successes += n
	if r.Successes < 0 {
		r.Successes = 0
	}
	r.Botch = r.Successes == 0 && r.Ones() > 0
	return r
}

// String returns a human-readable audit string in the format:
//
//	"5d10>=7 → [7 3 10 1 9] = 3 successes"
func (r PoolResult) String() string {
	if r.CannotAct {
		return fmt.Sprintf("%s → cannot act", r.Pool)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %v", r.Pool, r.Faces)
	if len(r.Explosions) > 0 {
		fmt.Fprintf(&b, " !%v", r.Explosions)
	}
	if r.AutoSuccesses != 0 {
		fmt.Fprintf(&b, " %+d", r.AutoSuccesses)
	}
	fmt.Fprintf(&b, " = %d successes", r.Successes)
	if r.Botch {
		b.WriteString(" (botch)")
	}
	return b.String()
}
