package effect

// Owner is anything that carries effects, typically an item.
type Owner interface {
	// OwnerName is recorded as the source when an effect has no label.
	OwnerName() string
	// Active is false for owners that are explicitly unequipped or disabled.
	Active() bool
	Effects() []Effect
}

// Totals is the per-bucket sum of every applying modifier.
type Totals struct {
	DicePool   int      `json:"dice_pool"`
	Difficulty int      `json:"difficulty"`
	Successes  int      `json:"successes"`
	Initiative int      `json:"initiative"`
	Sources    []string `json:"sources,omitempty"`
}

// Get returns the total for one bucket.
func (t Totals) Get(p Path) int {
	switch p {
	case DicePool:
		return t.DicePool
	case Difficulty:
		return t.Difficulty
	case Successes:
		return t.Successes
	case Initiative:
		return t.Initiative
	}
	return 0
}

func (t *Totals) add(p Path, v int) bool {
	switch p {
	case DicePool:
		t.DicePool += v
	case Difficulty:
		t.Difficulty += v
	case Successes:
		t.Successes += v
	case Initiative:
		t.Initiative += v
	default:
		return false
	}
	return true
}

// Collect folds the effects of every active owner that match ctx.
// A contributing effect is listed once in Sources, by label or else by owner name.
//
// Postcondition: owners are not modified; the result depends only on the inputs.
func Collect[O Owner](owners []O, ctx Context) Totals {
	var out Totals
	for _, o := range owners {
		if !o.Active() {
			continue
		}
		for _, e := range o.Effects() {
			if !e.Matches(ctx) {
				continue
			}
			applied := false
			for _, m := range e.Modifiers {
				if !m.adds() {
					continue
				}
				if out.add(m.Path, m.Value) {
					applied = true
				}
			}
			if !applied {
				continue
			}
			src := e.Label
			if src == "" {
				src = o.OwnerName()
			}
			out.Sources = append(out.Sources, src)
		}
	}
	return out
}
