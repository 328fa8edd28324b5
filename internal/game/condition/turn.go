package condition

// TurnEffects summarises how the statuses in a set affect the start of a turn.
type TurnEffects struct {
	// TickDamage is the total aggregate HP lost before acting.
	TickDamage int
	// Skip names the status that forces the turn to be skipped, if any.
	// Persistent statuses are reported ahead of one-shot ones.
	Skip string
	// Clear lists the one-shot statuses consumed by the skipped turn.
	Clear []string
}

// TurnEffects evaluates s against the registry. Unknown IDs are ignored.
//
// Postcondition: Clear is empty unless Skip is set.
func (r *Registry) TurnEffects(s ActiveSet) TurnEffects {
	var (
		te        TurnEffects
		oneShot   string
		permanent string
	)
	for _, id := range s.IDs() {
		def, ok := r.Get(id)
		if !ok {
			continue
		}
		te.TickDamage += def.TickDamage
		if !def.SkipsTurn {
			continue
		}
		if def.ClearsAfterSkip {
			te.Clear = append(te.Clear, id)
			if oneShot == "" {
				oneShot = id
			}
		} else if permanent == "" {
			permanent = id
		}
	}
	switch {
	case permanent != "":
		te.Skip = permanent
	case oneShot != "":
		te.Skip = oneShot
	}
	return te
}
