package combat_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

func TestEngine_StartEncounter(t *testing.T) {
	r := rules.Default()
	a, b := makeActor(t, r), makeActor(t, r)
	eng := combat.NewEngine()

	enc, err := eng.StartEncounter("bay-12", []*character.Actor{a, b, a})
	require.NoError(t, err)
	assert.Len(t, enc.Participants, 2, "duplicates collapse")
	assert.Equal(t, 1, enc.Round)

	_, err = eng.StartEncounter("bay-12", []*character.Actor{a})
	assert.ErrorIs(t, err, combat.ErrEncounterExists)

	_, err = eng.StartEncounter("", []*character.Actor{a})
	assert.Error(t, err)
	_, err = eng.StartEncounter("empty", nil)
	assert.Error(t, err)
}

func TestEngine_RollInitiativeOrdersParticipants(t *testing.T) {
	r := rules.Default()
	a, b := makeActor(t, r), makeActor(t, r)
	a.Name, b.Name = "Hicks", "Bishop"
	eng := combat.NewEngine()
	_, err := eng.StartEncounter("bay-12", []*character.Actor{a, b})
	require.NoError(t, err)

	total, err := eng.RollInitiative("bay-12", a, scripted(4))
	require.NoError(t, err)
	assert.Equal(t, 9, total, "d10 4 + dex 3 + wits 2")
	total, err = eng.RollInitiative("bay-12", b, scripted(8))
	require.NoError(t, err)
	assert.Equal(t, 13, total)

	enc, ok := eng.Encounter("bay-12")
	require.True(t, ok)
	assert.Equal(t, b.ID, enc.Participants[0].ActorID)
	assert.Equal(t, a.ID, enc.Participants[1].ActorID)
	assert.True(t, enc.Participants[0].Rolled)
}

func TestEngine_RollInitiativeOutsideEncounter(t *testing.T) {
	r := rules.Default()
	a, outsider := makeActor(t, r), makeActor(t, r)
	eng := combat.NewEngine()
	_, err := eng.StartEncounter("bay-12", []*character.Actor{a})
	require.NoError(t, err)

	_, err = eng.RollInitiative("bay-12", outsider, scripted(5))
	assert.ErrorIs(t, err, combat.ErrNotInEncounter)
	_, err = eng.RollInitiative("nowhere", a, scripted(5))
	assert.ErrorIs(t, err, combat.ErrNotInEncounter)
}

func TestEngine_AdvanceTurnWrapsRounds(t *testing.T) {
	r := rules.Default()
	a, b := makeActor(t, r), makeActor(t, r)
	eng := combat.NewEngine()
	_, err := eng.StartEncounter("bay-12", []*character.Actor{a, b})
	require.NoError(t, err)

	next, err := eng.NextTurn("bay-12")
	require.NoError(t, err)
	assert.Equal(t, b.ID, next.ActorID)
	enc, _ := eng.Encounter("bay-12")
	assert.Equal(t, 0, enc.Turn, "peeking does not move the turn")

	p, err := eng.AdvanceTurn("bay-12")
	require.NoError(t, err)
	assert.Equal(t, b.ID, p.ActorID)
	next, err = eng.NextTurn("bay-12")
	require.NoError(t, err)
	assert.Equal(t, a.ID, next.ActorID)
	p, err = eng.AdvanceTurn("bay-12")
	require.NoError(t, err)
	assert.Equal(t, a.ID, p.ActorID)

	enc, _ = eng.Encounter("bay-12")
	assert.Equal(t, 2, enc.Round)

	_, err = eng.AdvanceTurn("nowhere")
	assert.ErrorIs(t, err, combat.ErrNotInEncounter)
	_, err = eng.NextTurn("nowhere")
	assert.ErrorIs(t, err, combat.ErrNotInEncounter)

	final, err := eng.EndEncounter("bay-12")
	require.NoError(t, err)
	assert.Equal(t, 2, final.Round)
	_, ok := eng.Encounter("bay-12")
	assert.False(t, ok)
	_, err = eng.EndEncounter("bay-12")
	assert.ErrorIs(t, err, combat.ErrNotInEncounter)

	_, err = eng.StartEncounter("bay-12", []*character.Actor{a})
	assert.NoError(t, err, "an ended encounter id can be reused")
}

func TestEngine_SnapshotsAreIndependent(t *testing.T) {
	r := rules.Default()
	a := makeActor(t, r)
	eng := combat.NewEngine()
	enc, err := eng.StartEncounter("bay-12", []*character.Actor{a})
	require.NoError(t, err)
	enc.Participants[0].Initiative = 99

	got, _ := eng.Encounter("bay-12")
	assert.Equal(t, 0, got.Participants[0].Initiative)
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	r := rules.Default()
	eng := combat.NewEngine()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		a := makeActor(t, r)
		id := a.ID.String()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eng.StartEncounter(id, []*character.Actor{a}); err != nil {
				t.Error(err)
				return
			}
			if _, err := eng.AdvanceTurn(id); err != nil {
				t.Error(err)
			}
			eng.Encounter(id)
		}()
	}
	wg.Wait()
}
