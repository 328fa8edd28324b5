package combat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
)

// Participant is one combatant's place in an encounter.
type Participant struct {
	ActorID    uuid.UUID `json:"actor_id"`
	Name       string    `json:"name"`
	Initiative int       `json:"initiative"`
	Rolled     bool      `json:"rolled"`
}

// Encounter is the turn-order state of one fight.
type Encounter struct {
	ID string `json:"id"`
	// Participants is ordered by initiative, highest first.
	Participants []Participant `json:"participants"`
	// Round starts at 1.
	Round int `json:"round"`
	// Turn is the index of the participant whose turn it is.
	Turn int `json:"turn"`
}

// Current returns the participant whose turn it is.
//
// Postcondition: ok is false when the encounter has no participants.
func (e Encounter) Current() (p Participant, ok bool) {
	if len(e.Participants) == 0 {
		return Participant{}, false
	}
	return e.Participants[e.Turn], true
}

func (e *Encounter) index(id uuid.UUID) int {
	for i, p := range e.Participants {
		if p.ActorID == id {
			return i
		}
	}
	return -1
}

// next returns the turn index and round that follow the current turn.
func (e *Encounter) next() (turn, round int) {
	turn, round = e.Turn+1, e.Round
	if turn >= len(e.Participants) {
		turn, round = 0, round+1
	}
	return turn, round
}

func (e *Encounter) clone() Encounter {
	out := *e
	out.Participants = append([]Participant(nil), e.Participants...)
	return out
}

// Engine manages all active encounters, keyed by ID.
// All methods are safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{encounters: make(map[string]*Encounter)}
}

// StartEncounter begins encounter id with actors in the given order.
//
// Precondition: id must be non-empty; actors must be non-empty.
// Postcondition: Returns the new encounter, or ErrEncounterExists if id is active.
func (e *Engine) StartEncounter(id string, actors []*character.Actor) (Encounter, error) {
	if id == "" {
		return Encounter{}, fmt.Errorf("encounter id must not be empty")
	}
	if len(actors) == 0 {
		return Encounter{}, fmt.Errorf("encounter %q needs at least one actor", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.encounters[id]; exists {
		return Encounter{}, fmt.Errorf("%w: %q", ErrEncounterExists, id)
	}
	enc := &Encounter{ID: id, Round: 1}
	for _, a := range actors {
		if enc.index(a.ID) >= 0 {
			continue
		}
		enc.Participants = append(enc.Participants, Participant{ActorID: a.ID, Name: a.Name})
	}
	e.encounters[id] = enc
	return enc.clone(), nil
}

// Encounter returns a snapshot of encounter id.
func (e *Engine) Encounter(id string) (Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[id]
	if !ok {
		return Encounter{}, false
	}
	return enc.clone(), true
}

// EndEncounter removes encounter id and returns its final state.
//
// Postcondition: returns ErrNotInEncounter when id is not active.
func (e *Engine) EndEncounter(id string) (Encounter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[id]
	if !ok {
		return Encounter{}, fmt.Errorf("%w: no encounter %q", ErrNotInEncounter, id)
	}
	delete(e.encounters, id)
	return enc.clone(), nil
}

// RollInitiative rolls d10 plus derived initiative for a and re-sorts the turn order.
//
// Precondition: a has been prepared.
// Postcondition: returns ErrNotInEncounter, with no state change, when the
// encounter does not exist or a is not one of its participants.
func (e *Engine) RollInitiative(encounterID string, a *character.Actor, roller Roller) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[encounterID]
	if !ok {
		return 0, fmt.Errorf("%w: no encounter %q", ErrNotInEncounter, encounterID)
	}
	i := enc.index(a.ID)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s is not in %q", ErrNotInEncounter, a.Name, encounterID)
	}
	var current uuid.UUID
	if cur, ok := enc.Current(); ok {
		current = cur.ActorID
	}
	total := roller.RollD10("initiative") + a.Derived.Initiative
	enc.Participants[i].Initiative = total
	enc.Participants[i].Rolled = true
	sort.SliceStable(enc.Participants, func(x, y int) bool {
		return enc.Participants[x].Initiative > enc.Participants[y].Initiative
	})
	enc.Turn = enc.index(current)
	return total, nil
}

// NextTurn returns the participant AdvanceTurn would move to, without moving.
func (e *Engine) NextTurn(encounterID string) (Participant, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[encounterID]
	if !ok {
		return Participant{}, fmt.Errorf("%w: no encounter %q", ErrNotInEncounter, encounterID)
	}
	turn, _ := enc.next()
	return enc.Participants[turn], nil
}

// AdvanceTurn moves encounterID to the next participant, wrapping into a new round.
//
// Postcondition: returns the participant now acting.
func (e *Engine) AdvanceTurn(encounterID string) (Participant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[encounterID]
	if !ok {
		return Participant{}, fmt.Errorf("%w: no encounter %q", ErrNotInEncounter, encounterID)
	}
	enc.Turn, enc.Round = enc.next()
	p, _ := enc.Current()
	return p, nil
}
