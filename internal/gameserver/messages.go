package gameserver

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// RollPoolRequest rolls a bare pool in dice notation, e.g. "5d10>=7!".
type RollPoolRequest struct {
	Expr string `json:"expr"`
}

type RollPoolResponse struct {
	Result dice.PoolResult `json:"result"`
}

// CheckRequest rolls an attribute+skill check for one actor.
type CheckRequest struct {
	ActorID uuid.UUID           `json:"actor_id"`
	Check   combat.CheckRequest `json:"check"`
}

type CheckResponse struct {
	Result combat.CheckResult `json:"result"`
}

// PreviewModifiersRequest assembles a pool without rolling it.
type PreviewModifiersRequest struct {
	ActorID uuid.UUID           `json:"actor_id"`
	Check   combat.CheckRequest `json:"check"`
}

type PreviewModifiersResponse struct {
	Build  combat.PoolBuild `json:"build"`
	Totals effect.Totals    `json:"totals"`
}

type AttackRequest struct {
	AttackerID uuid.UUID            `json:"attacker_id"`
	TargetID   uuid.UUID            `json:"target_id"`
	Attack     combat.AttackRequest `json:"attack"`
}

type AttackResponse struct {
	Result combat.AttackResult `json:"result"`
}

// HealRequest clears Amount boxes of Severity ("bashing", "lethal", "aggravated").
type HealRequest struct {
	ActorID  uuid.UUID `json:"actor_id"`
	Severity string    `json:"severity"`
	Amount   int       `json:"amount"`
}

type HealResponse struct {
	Result combat.HealResult `json:"result"`
	Track  wound.Track       `json:"track"`
	HP     int               `json:"hp"`
}

// ToggleBoxRequest cycles one wound box by hand.
type ToggleBoxRequest struct {
	ActorID uuid.UUID `json:"actor_id"`
	Index   int       `json:"index"`
}

type ToggleBoxResponse struct {
	// Changed is false when Index was outside the track; nothing was saved.
	Changed bool          `json:"changed"`
	Track   wound.Track   `json:"track"`
	Penalty wound.Penalty `json:"penalty"`
}

type StartTurnRequest struct {
	ActorID uuid.UUID `json:"actor_id"`
}

type StartTurnResponse struct {
	Report combat.TurnReport `json:"report"`
}

type SpendXPRequest struct {
	ActorID uuid.UUID         `json:"actor_id"`
	Advance character.Advance `json:"advance"`
}

type SpendXPResponse struct {
	Cost       int                  `json:"cost"`
	Experience character.Experience `json:"experience"`
}

type StartEncounterRequest struct {
	EncounterID string      `json:"encounter_id"`
	ActorIDs    []uuid.UUID `json:"actor_ids"`
}

type StartEncounterResponse struct {
	Encounter combat.Encounter `json:"encounter"`
}

type RollInitiativeRequest struct {
	EncounterID string    `json:"encounter_id"`
	ActorID     uuid.UUID `json:"actor_id"`
}

type RollInitiativeResponse struct {
	Initiative int              `json:"initiative"`
	Encounter  combat.Encounter `json:"encounter"`
}

// AdvanceTurnRequest moves an encounter to its next participant and runs
// that participant's turn-start automation.
type AdvanceTurnRequest struct {
	EncounterID string `json:"encounter_id"`
}

type AdvanceTurnResponse struct {
	Current   combat.Participant `json:"current"`
	Report    combat.TurnReport  `json:"report"`
	Encounter combat.Encounter   `json:"encounter"`
}

// GrantItemRequest adds a fresh instance of catalog item DefID to an actor.
type GrantItemRequest struct {
	ActorID uuid.UUID `json:"actor_id"`
	DefID   string    `json:"def_id"`
	Equip   bool      `json:"equip"`
}

type GrantItemResponse struct {
	Item *inventory.Item `json:"item"`
}

// EndEncounterRequest closes an encounter so its ID can be reused.
type EndEncounterRequest struct {
	EncounterID string `json:"encounter_id"`
}

type EndEncounterResponse struct {
	Encounter combat.Encounter `json:"encounter"`
}

// ReloadRequest fills the magazine of one of an actor's weapons.
type ReloadRequest struct {
	ActorID  uuid.UUID `json:"actor_id"`
	WeaponID uuid.UUID `json:"weapon_id"`
}

type ReloadResponse struct {
	Rounds int `json:"rounds"`
}
