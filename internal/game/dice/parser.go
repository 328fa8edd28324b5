package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses pool notation using DefaultTargetNumber when none is given and
// MaxPoolSize as the size limit.
// Supported forms: "5d10", "5d10>=6", "5d10!", "5d10>=8!".
//
// Postcondition: Returns a normalized Pool or a descriptive error.
func Parse(expr string) (Pool, error) {
	return ParseWithLimits(expr, DefaultTargetNumber, MaxPoolSize)
}

// ParseWithLimits parses pool notation "<N>d10[>=<TN>][!]". Target numbers
// outside [2,10] are clamped rather than rejected; only d10 is legal. A size
// above maxSize is rejected with ErrPoolTooLarge.
//
// Precondition: defaultTN is used when the expression omits ">="; maxSize
// outside [1, MaxPoolSize] selects MaxPoolSize.
// Postcondition: Returns a normalized Pool or a descriptive error.
func ParseWithLimits(expr string, defaultTN, maxSize int) (Pool, error) {
	if maxSize < 1 || maxSize > MaxPoolSize {
		maxSize = MaxPoolSize
	}
	raw := expr
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Pool{}, fmt.Errorf("dice: empty expression")
	}

	var p Pool
	if strings.HasSuffix(s, "!") {
		p.Specialized = true
		s = strings.TrimSuffix(s, "!")
	}

	p.TargetNumber = defaultTN
	if idx := strings.Index(s, ">="); idx >= 0 {
		tn, err := strconv.Atoi(s[idx+2:])
		if err != nil {
			return Pool{}, fmt.Errorf("dice: invalid target number in %q: %w", raw, err)
		}
		p.TargetNumber = tn
		s = s[:idx]
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Pool{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}
	if dIdx == 0 {
		p.Size = 1
	} else {
		n, err := strconv.Atoi(s[:dIdx])
		if err != nil {
			return Pool{}, fmt.Errorf("dice: invalid pool size in %q: %w", raw, err)
		}
		if n < 0 {
			return Pool{}, fmt.Errorf("dice: invalid pool size in %q: must be >= 0", raw)
		}
		if n > maxSize {
			return Pool{}, fmt.Errorf("%w: %q asks for %d dice, limit is %d", ErrPoolTooLarge, raw, n, maxSize)
		}
		p.Size = n
	}

	sides, err := strconv.Atoi(s[dIdx+1:])
	if err != nil {
		return Pool{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides != Sides {
		return Pool{}, fmt.Errorf("dice: only d10 pools are supported, got d%d in %q", sides, raw)
	}

	return p.Normalize(), nil
}
