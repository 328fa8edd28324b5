package gameserver_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
	"github.com/cory-johannsen/colonial-weather/internal/gameserver"
	"github.com/cory-johannsen/colonial-weather/internal/storage/sqlite"
)

type testEnv struct {
	client *gameserver.EngineClient
	store  *sqlite.Store
	logs   *observer.ObservedLogs
}

// newTestEnv serves an EngineService over bufconn, backed by a temporary
// sqlite store and a roller that replays faces.
func newTestEnv(t *testing.T, faces ...int) *testEnv {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	items := inventory.NewRegistry()
	require.NoError(t, items.Register(&inventory.ItemDef{
		ID:    "flak-vest",
		Name:  "Flak Vest",
		Kind:  inventory.KindArmor,
		Armor: &inventory.ArmorStats{Coverage: []rules.Location{rules.Chest, rules.Stomach}, Soak: 2},
	}))

	svc := gameserver.NewEngineService(gameserver.Deps{
		Store:  store,
		Rules:  rules.Default(),
		Items:  items,
		Roller: dice.NewLoggedRoller(dice.NewScriptedSource(faces...), logger, 0),
		Logger: logger,
	})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(gameserver.LoggingInterceptor(logger)))
	gameserver.RegisterEngineServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{client: gameserver.NewEngineClient(conn), store: store, logs: logs}
}

func (e *testEnv) save(t *testing.T, actors ...*character.Actor) {
	t.Helper()
	require.NoError(t, e.store.Save(context.Background(), actors...))
}

func (e *testEnv) get(t *testing.T, id uuid.UUID) *character.Actor {
	t.Helper()
	a, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

func ctxT(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, status.Code(err), err.Error())
}

// shooter has dexterity 3, firearms 2 and a loaded rifle dealing +4.
func shooter() (*character.Actor, uuid.UUID) {
	a := character.New("Hicks")
	a.Attributes[rules.Dexterity] = 3
	a.Attributes[rules.Stamina] = 2
	a.Attributes[rules.Wits] = 2
	a.Health.Total = character.Aggregate{Value: 21, Max: 21}
	a.Willpower = character.Willpower{Current: 2, Max: 2}
	rifle := &inventory.Item{
		ID:       uuid.New(),
		Name:     "Pulse Rifle",
		Kind:     inventory.KindWeapon,
		Equipped: true,
		Weapon: &inventory.WeaponStats{
			Skill:      "firearms",
			Attribute:  rules.Dexterity,
			Damage:     4,
			DamageType: "lethal",
			Magazine:   10,
		},
	}
	rifle.Weapon.Reload()
	a.Items = []*inventory.Item{rifle}
	character.Prepare(a, rules.Default())
	a.Skills["firearms"].Rating = 2
	return a, rifle.ID
}

// soldier has stamina 3, 8 HP in every location and a 2-point chest plate.
func soldier() *character.Actor {
	a := character.New("Bishop")
	a.Attributes[rules.Dexterity] = 2
	a.Attributes[rules.Stamina] = 3
	a.Attributes[rules.Wits] = 1
	a.Health.Total = character.Aggregate{Value: 21, Max: 21}
	for _, loc := range rules.Locations() {
		a.Health.Locations[loc] = &character.LocationHP{Value: 8, Max: 8}
	}
	a.Items = []*inventory.Item{{
		ID:       uuid.New(),
		Name:     "Chest Plate",
		Kind:     inventory.KindArmor,
		Equipped: true,
		Armor:    &inventory.ArmorStats{Coverage: []rules.Location{rules.Chest}, Soak: 2},
	}}
	character.Prepare(a, rules.Default())
	return a
}

func TestEngine_RollPool(t *testing.T) {
	env := newTestEnv(t, 6, 5, 10)
	resp, err := env.client.RollPool(ctxT(t), &gameserver.RollPoolRequest{Expr: "3d10>=6"})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 5, 10}, resp.Result.Faces)
	assert.Equal(t, 2, resp.Result.Successes)

	_, err = env.client.RollPool(ctxT(t), &gameserver.RollPoolRequest{Expr: "3d6"})
	requireCode(t, err, codes.InvalidArgument)

	for _, expr := range []string{"51d10", "5000000000d10"} {
		_, err = env.client.RollPool(ctxT(t), &gameserver.RollPoolRequest{Expr: expr})
		requireCode(t, err, codes.InvalidArgument)
	}
}

func TestEngine_AttackCommitsBothActors(t *testing.T) {
	env := newTestEnv(t, 8, 8, 8, 2, 3)
	attacker, rifleID := shooter()
	target := soldier()
	env.save(t, attacker, target)

	resp, err := env.client.Attack(ctxT(t), &gameserver.AttackRequest{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Attack:     combat.AttackRequest{WeaponID: rifleID, Location: rules.Chest},
	})
	require.NoError(t, err)

	res := resp.Result
	require.True(t, res.Hit)
	assert.Equal(t, 7, res.Raw)
	require.NotNil(t, res.Damage)
	assert.Equal(t, 5, res.Damage.Soak)
	assert.Equal(t, 2, res.Damage.Final)
	require.NotNil(t, res.Damage.ArmorChange)
	assert.Equal(t, 1, res.Damage.ArmorChange.SoakAfter)

	gotTarget := env.get(t, target.ID)
	assert.Equal(t, 19, gotTarget.Health.Total.Value)
	assert.Equal(t, 6, gotTarget.Health.Locations[rules.Chest].Value)
	assert.Equal(t, wound.Lethal, gotTarget.Health.Track[0])
	assert.Equal(t, 1, gotTarget.Items[0].Armor.Soak)

	gotAttacker := env.get(t, attacker.ID)
	assert.Equal(t, 9, gotAttacker.Items[0].Weapon.Rounds)

	assert.NotZero(t, env.logs.FilterMessage("armor degraded").Len())
	assert.Equal(t, 2, env.logs.FilterMessage("action committed").Len())
}

func TestEngine_AttackWithEmptyMagazineChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	attacker, rifleID := shooter()
	attacker.Items[0].Weapon.Rounds = 0
	target := soldier()
	env.save(t, attacker, target)

	_, err := env.client.Attack(ctxT(t), &gameserver.AttackRequest{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Attack:     combat.AttackRequest{WeaponID: rifleID},
	})
	requireCode(t, err, codes.FailedPrecondition)
	assert.Equal(t, 21, env.get(t, target.ID).Health.Total.Value)
}

func TestEngine_CheckSpendsWillpower(t *testing.T) {
	env := newTestEnv(t, 3, 4)
	a, _ := shooter()
	env.save(t, a)

	resp, err := env.client.Check(ctxT(t), &gameserver.CheckRequest{
		ActorID: a.ID,
		Check:   combat.CheckRequest{Attribute: rules.Wits, Willpower: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Result.Successes)
	assert.True(t, resp.Result.WillpowerSpent)
	assert.Equal(t, 1, env.get(t, a.ID).Willpower.Current)
}

func TestEngine_CheckWithEmptyPoolCannotAct(t *testing.T) {
	env := newTestEnv(t)
	a := character.New("Newt")
	env.save(t, a)

	resp, err := env.client.Check(ctxT(t), &gameserver.CheckRequest{
		ActorID: a.ID,
		Check:   combat.CheckRequest{Attribute: rules.Wits},
	})
	require.NoError(t, err)
	assert.True(t, resp.Result.Build.CannotAct)
	assert.True(t, resp.Result.Result.CannotAct)
	assert.Empty(t, resp.Result.Result.Faces)
}

func TestEngine_UnknownActorIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.client.Check(ctxT(t), &gameserver.CheckRequest{ActorID: uuid.New()})
	requireCode(t, err, codes.NotFound)
}

func TestEngine_PreviewModifiersDoesNotRoll(t *testing.T) {
	env := newTestEnv(t)
	a, _ := shooter()
	a.Items = append(a.Items, &inventory.Item{
		ID:   uuid.New(),
		Name: "Targeting Eye",
		Kind: inventory.KindCybernetic,
		Bundles: []effect.Effect{{Label: "Targeting", RollType: combat.AttackRollType, Modifiers: []effect.Modifier{{Path: effect.DicePool, Op: effect.OpAdd, Value: 2}}}},
	})
	env.save(t, a)

	resp, err := env.client.PreviewModifiers(ctxT(t), &gameserver.PreviewModifiersRequest{
		ActorID: a.ID,
		Check:   combat.CheckRequest{Skill: "firearms", RollType: combat.AttackRollType},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Totals.DicePool)
	assert.Equal(t, 3+2+2, resp.Build.Pool.Size)
	assert.Equal(t, 7, resp.Build.Pool.TargetNumber)
}

func TestEngine_HealStopsBleeding(t *testing.T) {
	env := newTestEnv(t)
	a := soldier()
	a.Health.Total.Value = 18
	a.Health.Track = wound.Track{wound.Lethal, 0, 0, 0, 0, 0, 0}
	a.Statuses.Apply(condition.Bleeding)
	env.save(t, a)

	resp, err := env.client.Heal(ctxT(t), &gameserver.HealRequest{ActorID: a.ID, Severity: "lethal", Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Healed)
	assert.Equal(t, 3, resp.Result.Restored)
	assert.True(t, resp.Result.BleedingStopped)
	assert.Equal(t, 21, resp.HP)

	got := env.get(t, a.ID)
	assert.False(t, got.Statuses.Has(condition.Bleeding))
	assert.Equal(t, 0, got.Health.Track.Filled())

	_, err = env.client.Heal(ctxT(t), &gameserver.HealRequest{ActorID: a.ID, Severity: "psychic", Amount: 1})
	requireCode(t, err, codes.InvalidArgument)
}

func TestEngine_ToggleBox(t *testing.T) {
	env := newTestEnv(t)
	a := soldier()
	env.save(t, a)

	resp, err := env.client.ToggleBox(ctxT(t), &gameserver.ToggleBoxRequest{ActorID: a.ID, Index: 2})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, wound.Bashing, resp.Track[2])
	assert.Equal(t, wound.Bashing, env.get(t, a.ID).Health.Track[2])

	resp, err = env.client.ToggleBox(ctxT(t), &gameserver.ToggleBoxRequest{ActorID: a.ID, Index: 99})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
}

func TestEngine_StartTurnSkipsStunned(t *testing.T) {
	env := newTestEnv(t)
	a := soldier()
	a.Statuses.Apply(condition.Stunned)
	env.save(t, a)

	resp, err := env.client.StartTurn(ctxT(t), &gameserver.StartTurnRequest{ActorID: a.ID})
	require.NoError(t, err)
	assert.True(t, resp.Report.Skipped)
	assert.Equal(t, condition.Stunned, resp.Report.Reason)
	assert.False(t, env.get(t, a.ID).Statuses.Has(condition.Stunned))
	assert.Equal(t, 1, env.logs.FilterMessage("turn skipped").Len())
}

func TestEngine_SpendXP(t *testing.T) {
	env := newTestEnv(t)
	a, _ := shooter()
	a.Experience = character.Experience{Total: 10}
	env.save(t, a)

	resp, err := env.client.SpendXP(ctxT(t), &gameserver.SpendXPRequest{
		ActorID: a.ID,
		Advance: character.Advance{Kind: character.AdvanceRaiseSkill, Key: "firearms"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Cost)
	assert.Equal(t, 4, resp.Experience.Spent)
	assert.Equal(t, 3, env.get(t, a.ID).Skills["firearms"].Rating)

	_, err = env.client.SpendXP(ctxT(t), &gameserver.SpendXPRequest{
		ActorID: a.ID,
		Advance: character.Advance{Kind: character.AdvanceRaiseAttribute, Key: string(rules.Dexterity)},
	})
	requireCode(t, err, codes.FailedPrecondition)
	assert.Equal(t, 3, env.get(t, a.ID).Attributes[rules.Dexterity])
}

func TestEngine_EncounterFlow(t *testing.T) {
	env := newTestEnv(t, 9)
	a, _ := shooter()
	b := soldier()
	b.Statuses.Apply(condition.Bleeding)
	env.save(t, a, b)

	start, err := env.client.StartEncounter(ctxT(t), &gameserver.StartEncounterRequest{
		EncounterID: "hadleys-hope",
		ActorIDs:    []uuid.UUID{a.ID, b.ID},
	})
	require.NoError(t, err)
	require.Len(t, start.Encounter.Participants, 2)

	_, err = env.client.StartEncounter(ctxT(t), &gameserver.StartEncounterRequest{
		EncounterID: "hadleys-hope",
		ActorIDs:    []uuid.UUID{a.ID},
	})
	requireCode(t, err, codes.FailedPrecondition)

	ini, err := env.client.RollInitiative(ctxT(t), &gameserver.RollInitiativeRequest{EncounterID: "hadleys-hope", ActorID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, 9+2+1, ini.Initiative)
	assert.Equal(t, b.ID, ini.Encounter.Participants[0].ActorID)
	cur, ok := ini.Encounter.Current()
	require.True(t, ok)
	assert.Equal(t, a.ID, cur.ActorID, "re-sorting keeps the acting participant")

	adv, err := env.client.AdvanceTurn(ctxT(t), &gameserver.AdvanceTurnRequest{EncounterID: "hadleys-hope"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, adv.Current.ActorID)
	assert.Equal(t, 2, adv.Encounter.Round)
	assert.Equal(t, 1, adv.Report.BleedDamage)
	assert.Equal(t, 20, env.get(t, b.ID).Health.Total.Value)

	_, err = env.client.RollInitiative(ctxT(t), &gameserver.RollInitiativeRequest{EncounterID: "nostromo", ActorID: a.ID})
	requireCode(t, err, codes.FailedPrecondition)
}

func TestEngine_GrantItem(t *testing.T) {
	env := newTestEnv(t)
	a := soldier()
	env.save(t, a)

	resp, err := env.client.GrantItem(ctxT(t), &gameserver.GrantItemRequest{ActorID: a.ID, DefID: "flak-vest", Equip: true})
	require.NoError(t, err)
	assert.True(t, resp.Item.Equipped)
	assert.Equal(t, "flak-vest", resp.Item.DefID)

	got := env.get(t, a.ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, inventory.LocationArmor(got.Items, rules.Stomach))

	_, err = env.client.GrantItem(ctxT(t), &gameserver.GrantItemRequest{ActorID: a.ID, DefID: "smartgun"})
	requireCode(t, err, codes.InvalidArgument)
}

func TestEngine_AdvanceTurnFailureKeepsTurn(t *testing.T) {
	env := newTestEnv(t)
	a, _ := shooter()
	b := soldier()
	env.save(t, a, b)

	_, err := env.client.StartEncounter(ctxT(t), &gameserver.StartEncounterRequest{
		EncounterID: "sulaco",
		ActorIDs:    []uuid.UUID{a.ID, b.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.store.Delete(context.Background(), b.ID))
	for i := 0; i < 2; i++ {
		_, err = env.client.AdvanceTurn(ctxT(t), &gameserver.AdvanceTurnRequest{EncounterID: "sulaco"})
		requireCode(t, err, codes.NotFound)
	}

	env.save(t, b)
	adv, err := env.client.AdvanceTurn(ctxT(t), &gameserver.AdvanceTurnRequest{EncounterID: "sulaco"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, adv.Current.ActorID)
	assert.Equal(t, 1, adv.Encounter.Round)
	assert.Equal(t, 1, adv.Encounter.Turn)
}

func TestEngine_EndEncounter(t *testing.T) {
	env := newTestEnv(t)
	a, _ := shooter()
	env.save(t, a)

	start := &gameserver.StartEncounterRequest{EncounterID: "lv-426", ActorIDs: []uuid.UUID{a.ID}}
	_, err := env.client.StartEncounter(ctxT(t), start)
	require.NoError(t, err)
	_, err = env.client.AdvanceTurn(ctxT(t), &gameserver.AdvanceTurnRequest{EncounterID: "lv-426"})
	require.NoError(t, err)

	end, err := env.client.EndEncounter(ctxT(t), &gameserver.EndEncounterRequest{EncounterID: "lv-426"})
	require.NoError(t, err)
	assert.Equal(t, "lv-426", end.Encounter.ID)
	assert.Equal(t, 2, end.Encounter.Round)
	assert.NotEmpty(t, env.logs.FilterMessage("encounter ended").All())

	_, err = env.client.AdvanceTurn(ctxT(t), &gameserver.AdvanceTurnRequest{EncounterID: "lv-426"})
	requireCode(t, err, codes.FailedPrecondition)
	_, err = env.client.EndEncounter(ctxT(t), &gameserver.EndEncounterRequest{EncounterID: "lv-426"})
	requireCode(t, err, codes.FailedPrecondition)

	_, err = env.client.StartEncounter(ctxT(t), start)
	assert.NoError(t, err)
}

func TestEngine_ReloadRestoresAttacks(t *testing.T) {
	env := newTestEnv(t, 2, 2, 2, 2, 2)
	attacker, rifleID := shooter()
	attacker.Items[0].Weapon.Rounds = 0
	target := soldier()
	env.save(t, attacker, target)

	attack := &gameserver.AttackRequest{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Attack:     combat.AttackRequest{WeaponID: rifleID},
	}
	_, err := env.client.Attack(ctxT(t), attack)
	requireCode(t, err, codes.FailedPrecondition)

	resp, err := env.client.Reload(ctxT(t), &gameserver.ReloadRequest{ActorID: attacker.ID, WeaponID: rifleID})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Rounds)
	assert.Equal(t, 10, env.get(t, attacker.ID).Items[0].Weapon.Rounds)

	hit, err := env.client.Attack(ctxT(t), attack)
	require.NoError(t, err)
	assert.False(t, hit.Result.Hit)
	assert.Equal(t, 9, env.get(t, attacker.ID).Items[0].Weapon.Rounds)

	_, err = env.client.Reload(ctxT(t), &gameserver.ReloadRequest{ActorID: target.ID, WeaponID: target.Items[0].ID})
	requireCode(t, err, codes.InvalidArgument)
	_, err = env.client.Reload(ctxT(t), &gameserver.ReloadRequest{ActorID: uuid.New(), WeaponID: rifleID})
	requireCode(t, err, codes.NotFound)
}

func TestEngine_AttackRejectsUnknownLocation(t *testing.T) {
	env := newTestEnv(t)
	attacker, rifleID := shooter()
	target := soldier()
	env.save(t, attacker, target)

	_, err := env.client.Attack(ctxT(t), &gameserver.AttackRequest{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Attack:     combat.AttackRequest{WeaponID: rifleID, Location: "tail"},
	})
	requireCode(t, err, codes.InvalidArgument)
	assert.Equal(t, 10, env.get(t, attacker.ID).Items[0].Weapon.Rounds)
}
