// Package gameserver exposes the rules engine as the gRPC Engine service.
//
// Every mutating call follows the same shape: load the actors it touches,
// prepare them, compute a plan against those snapshots, apply the plan, then
// save every touched actor in one transaction. A failure before the save
// leaves storage unchanged.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
	"github.com/cory-johannsen/colonial-weather/internal/storage"
)

// EngineService implements EngineServer.
type EngineService struct {
	store      storage.ActorStore
	rules      *rules.Rules
	conditions *condition.Registry
	items      *inventory.Registry
	encounters *combat.Engine
	roller     combat.Roller
	logger     *zap.Logger

	// mu serializes actions so each runs to its commit before the next starts.
	mu sync.Mutex
}

var _ EngineServer = (*EngineService)(nil)

// Deps bundles the collaborators of an EngineService.
type Deps struct {
	Store      storage.ActorStore
	Rules      *rules.Rules
	Conditions *condition.Registry
	Items      *inventory.Registry
	Encounters *combat.Engine
	Roller     combat.Roller
	Logger     *zap.Logger
}

// NewEngineService creates an EngineService.
//
// Precondition: d.Store, d.Rules, d.Roller and d.Logger must be non-nil.
// Postcondition: nil Conditions, Items and Encounters are replaced with the
// built-in status registry, an empty catalog and a fresh encounter engine.
func NewEngineService(d Deps) *EngineService {
	if d.Conditions == nil {
		d.Conditions = condition.Builtin()
	}
	if d.Items == nil {
		d.Items = inventory.NewRegistry()
	}
	if d.Encounters == nil {
		d.Encounters = combat.NewEngine()
	}
	return &EngineService{
		store:      d.Store,
		rules:      d.Rules,
		conditions: d.Conditions,
		items:      d.Items,
		encounters: d.Encounters,
		roller:     d.Roller,
		logger:     d.Logger,
	}
}

// load fetches and prepares one actor.
func (s *EngineService) load(ctx context.Context, id uuid.UUID) (*character.Actor, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading actor %s: %w", id, err)
	}
	character.Prepare(a, s.rules)
	return a, nil
}

// commit saves every touched actor in one transaction.
func (s *EngineService) commit(ctx context.Context, action string, actors ...*character.Actor) error {
	if err := s.store.Save(ctx, actors...); err != nil {
		return fmt.Errorf("committing %s: %w", action, err)
	}
	for _, a := range actors {
		s.logger.Info("action committed",
			zap.String("action", action),
			zap.Stringer("actor_id", a.ID),
			zap.String("actor", a.Name),
			zap.Int("hp", a.Health.Total.Value),
			zap.String("health", a.Health.Track.CurrentPenalty().Label),
		)
	}
	return nil
}

// RollPool rolls a pool given in dice notation. Nothing is persisted.
func (s *EngineService) RollPool(_ context.Context, req *RollPoolRequest) (*RollPoolResponse, error) {
	p, err := dice.ParseWithLimits(req.Expr, s.rules.DefaultTargetNumber, s.rules.MaxPoolSize)
	if err != nil {
		return nil, toStatus(fmt.Errorf("%w: %v", errInvalidArgument, err))
	}
	return &RollPoolResponse{Result: s.roller.Roll(p)}, nil
}

// Check rolls a check. An empty pool is reported through Result.Build.CannotAct
// rather than as an error. Willpower, when spent, is the only thing committed.
func (s *EngineService) Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := combat.Check(a, req.Check, s.rules, s.roller)
	if errors.Is(err, combat.ErrCannotAct) {
		return &CheckResponse{Result: res}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	if res.WillpowerSpent {
		if err := res.Apply(a); err != nil {
			return nil, toStatus(err)
		}
		if err := s.commit(ctx, "check", a); err != nil {
			return nil, toStatus(err)
		}
	}
	return &CheckResponse{Result: res}, nil
}

// PreviewModifiers assembles the pool a check would roll. Nothing is persisted.
func (s *EngineService) PreviewModifiers(ctx context.Context, req *PreviewModifiersRequest) (*PreviewModifiersResponse, error) {
	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	b := combat.BuildPool(a, req.Check, s.rules)
	return &PreviewModifiersResponse{
		Build:  b,
		Totals: effect.Collect(a.Items, effect.Context{RollType: req.Check.RollType, Tags: req.Check.Tags}),
	}, nil
}

// Attack resolves and commits one attack. Attacker and target may be the same actor.
func (s *EngineService) Attack(ctx context.Context, req *AttackRequest) (*AttackResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, err := s.load(ctx, req.AttackerID)
	if err != nil {
		return nil, toStatus(err)
	}
	target := attacker
	if req.TargetID != req.AttackerID {
		if target, err = s.load(ctx, req.TargetID); err != nil {
			return nil, toStatus(err)
		}
	}

	res, err := combat.ResolveAttack(attacker, target, req.Attack, s.rules, s.roller)
	if errors.Is(err, combat.ErrCannotAct) {
		return &AttackResponse{Result: res}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	if err := combat.ApplyAttack(attacker, target, res); err != nil {
		return nil, toStatus(err)
	}

	touched := []*character.Actor{attacker}
	if target != attacker {
		touched = append(touched, target)
	}
	if err := s.commit(ctx, "attack", touched...); err != nil {
		return nil, toStatus(err)
	}
	if res.Damage != nil {
		s.logDamage(target, res.Damage)
	}
	return &AttackResponse{Result: res}, nil
}

func (s *EngineService) logDamage(target *character.Actor, p *combat.DamagePlan) {
	if c := p.ArmorChange; c != nil {
		s.logger.Info("armor degraded",
			zap.Stringer("actor_id", target.ID),
			zap.String("item", c.Name),
			zap.Int("soak_before", c.SoakBefore),
			zap.Int("soak_after", c.SoakAfter),
			zap.Bool("destroyed", c.Destroyed),
		)
	}
	for _, st := range p.Statuses {
		s.logger.Info("status applied",
			zap.Stringer("actor_id", target.ID),
			zap.String("status", st),
			zap.String("location", string(p.Hit.Location)),
			zap.Int("final_damage", p.Final),
		)
	}
}

// Heal clears wound boxes and restores the HP they represent.
func (s *EngineService) Heal(ctx context.Context, req *HealRequest) (*HealResponse, error) {
	sev, ok := wound.ParseSeverity(req.Severity)
	if !ok || sev == wound.None {
		return nil, toStatus(fmt.Errorf("%w: unknown severity %q", errInvalidArgument, req.Severity))
	}
	amount := max(req.Amount, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	res := combat.Heal(a, sev, amount)
	if err := s.commit(ctx, "heal", a); err != nil {
		return nil, toStatus(err)
	}
	if res.BleedingStopped {
		s.logger.Info("status removed", zap.Stringer("actor_id", a.ID), zap.String("status", condition.Bleeding))
	}
	return &HealResponse{Result: res, Track: a.Health.Track, HP: a.Health.Total.Value}, nil
}

// ToggleBox cycles one box by hand without re-sorting the track. An index
// outside the track changes nothing.
func (s *EngineService) ToggleBox(ctx context.Context, req *ToggleBoxRequest) (*ToggleBoxResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	track, ok := a.Health.Track.ToggleBox(req.Index)
	if !ok {
		return &ToggleBoxResponse{Track: a.Health.Track, Penalty: a.Health.Track.CurrentPenalty()}, nil
	}
	a.Health.Track = track
	if err := s.commit(ctx, "toggle_box", a); err != nil {
		return nil, toStatus(err)
	}
	return &ToggleBoxResponse{Changed: true, Track: track, Penalty: track.CurrentPenalty()}, nil
}

// StartTurn runs turn-start automation for one actor.
func (s *EngineService) StartTurn(ctx context.Context, req *StartTurnRequest) (*StartTurnResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep, err := s.startTurn(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &StartTurnResponse{Report: rep}, nil
}

func (s *EngineService) startTurn(ctx context.Context, id uuid.UUID) (combat.TurnReport, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return combat.TurnReport{}, err
	}
	rep := combat.StartTurn(a, s.conditions)
	if err := s.commit(ctx, "start_turn", a); err != nil {
		return combat.TurnReport{}, err
	}
	for _, st := range rep.Applied {
		s.logger.Info("status applied", zap.Stringer("actor_id", a.ID), zap.String("status", st))
	}
	if rep.Skipped {
		s.logger.Info("turn skipped",
			zap.Stringer("actor_id", a.ID),
			zap.String("actor", a.Name),
			zap.String("reason", rep.Reason),
			zap.Strings("cleared", rep.Cleared),
		)
	}
	return rep, nil
}

// SpendXP buys one advance.
func (s *EngineService) SpendXP(ctx context.Context, req *SpendXPRequest) (*SpendXPResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	cost, err := character.SpendXP(a, req.Advance, s.rules.XP)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.commit(ctx, "spend_xp", a); err != nil {
		return nil, toStatus(err)
	}
	return &SpendXPResponse{Cost: cost, Experience: a.Experience}, nil
}

// StartEncounter opens an encounter over existing actors.
func (s *EngineService) StartEncounter(ctx context.Context, req *StartEncounterRequest) (*StartEncounterResponse, error) {
	id := strings.TrimSpace(req.EncounterID)
	if id == "" || len(req.ActorIDs) == 0 {
		return nil, toStatus(fmt.Errorf("%w: encounter id and at least one actor are required", errInvalidArgument))
	}
	actors := make([]*character.Actor, 0, len(req.ActorIDs))
	for _, aid := range req.ActorIDs {
		a, err := s.load(ctx, aid)
		if err != nil {
			return nil, toStatus(err)
		}
		actors = append(actors, a)
	}
	enc, err := s.encounters.StartEncounter(id, actors)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("encounter started", zap.String("encounter", id), zap.Int("participants", len(enc.Participants)))
	return &StartEncounterResponse{Encounter: enc}, nil
}

// RollInitiative rolls one participant's initiative and re-sorts the turn order.
func (s *EngineService) RollInitiative(ctx context.Context, req *RollInitiativeRequest) (*RollInitiativeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	total, err := s.encounters.RollInitiative(req.EncounterID, a, s.roller)
	if err != nil {
		return nil, toStatus(err)
	}
	enc, _ := s.encounters.Encounter(req.EncounterID)
	return &RollInitiativeResponse{Initiative: total, Encounter: enc}, nil
}

// AdvanceTurn runs the next participant's turn-start automation and then moves
// the encounter to them. The turn only moves once that participant is committed.
func (s *EngineService) AdvanceTurn(ctx context.Context, req *AdvanceTurnRequest) (*AdvanceTurnResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.encounters.NextTurn(req.EncounterID)
	if err != nil {
		return nil, toStatus(err)
	}
	rep, err := s.startTurn(ctx, next.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.encounters.AdvanceTurn(req.EncounterID)
	if err != nil {
		return nil, toStatus(err)
	}
	enc, _ := s.encounters.Encounter(req.EncounterID)
	return &AdvanceTurnResponse{Current: p, Report: rep, Encounter: enc}, nil
}

// GrantItem instantiates a catalog item into an actor's inventory.
func (s *EngineService) GrantItem(ctx context.Context, req *GrantItemRequest) (*GrantItemResponse, error) {
	def, ok := s.items.Item(req.DefID)
	if !ok {
		return nil, toStatus(fmt.Errorf("%w: unknown item %q", errInvalidArgument, req.DefID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	it := def.New()
	it.Equipped = req.Equip && it.Kind.Equippable()
	a.Items = append(a.Items, it)
	if err := s.commit(ctx, "grant_item", a); err != nil {
		return nil, toStatus(err)
	}
	return &GrantItemResponse{Item: it}, nil
}

// EndEncounter closes an encounter. Actors are untouched.
func (s *EngineService) EndEncounter(_ context.Context, req *EndEncounterRequest) (*EndEncounterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc, err := s.encounters.EndEncounter(req.EncounterID)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("encounter ended", zap.String("encounter", enc.ID), zap.Int("rounds", enc.Round))
	return &EndEncounterResponse{Encounter: enc}, nil
}

// Reload fills a weapon's magazine.
func (s *EngineService) Reload(ctx context.Context, req *ReloadRequest) (*ReloadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	rounds, err := combat.Reload(a, req.WeaponID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.commit(ctx, "reload", a); err != nil {
		return nil, toStatus(err)
	}
	return &ReloadResponse{Rounds: rounds}, nil
}
