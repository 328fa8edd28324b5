package combat_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

func TestResolveAttack_HitRollsLocation(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 10)
	attacker := makeActor(t, r, gun)
	attacker.Skills["firearms"].Rating = 1
	target := makeActor(t, r)

	// four dice: two successes, then a 2 on the location die.
	res, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID}, r, scripted(8, 9, 3, 2, 2))
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, 4, res.Raw)
	assert.True(t, res.LocationRolled)
	assert.Equal(t, rules.Chest, res.Location)
	require.NotNil(t, res.Damage)
	assert.Equal(t, 1, res.Damage.Final)
	assert.Equal(t, 10, gun.Weapon.Rounds, "resolving does not commit")
	assert.Equal(t, 21, target.Health.Total.Value)

	require.NoError(t, combat.ApplyAttack(attacker, target, res))
	assert.Equal(t, 9, gun.Weapon.Rounds)
	assert.Equal(t, 20, target.Health.Total.Value)
	assert.Equal(t, 7, target.Health.Location(rules.Chest).Value)
}

func TestResolveAttack_NamedLocationSkipsLocationRoll(t *testing.T) {
	r := rules.Default()
	gun := rifle(4, 0)
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	res, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID, Location: rules.Head}, r, scripted(7, 1, 1))
	require.NoError(t, err)
	assert.False(t, res.LocationRolled)
	assert.Equal(t, rules.Head, res.Location)
	assert.Equal(t, 5, res.Raw)
	assert.Equal(t, 2, res.Damage.Final)
}

func TestResolveAttack_LocationMatchesIgnoringCase(t *testing.T) {
	r := rules.Default()
	cases := map[rules.Location]rules.Location{
		"Head":      rules.Head,
		" CHEST ":   rules.Chest,
		"rarm":      rules.RightArm,
		"Right Arm": rules.RightArm,
	}
	for named, want := range cases {
		gun := rifle(4, 0)
		attacker := makeActor(t, r, gun)
		target := makeActor(t, r)

		res, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID, Location: named}, r, scripted(7, 1, 1))
		require.NoError(t, err, named)
		assert.False(t, res.LocationRolled, named)
		assert.Equal(t, want, res.Location, named)
	}
}

func TestResolveAttack_UnknownLocationIsRejected(t *testing.T) {
	r := rules.Default()
	gun := rifle(4, 0)
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	_, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID, Location: "tail"}, r, scripted())
	assert.ErrorIs(t, err, combat.ErrUnknownLocation)
}

func TestResolveAttack_MissStillSpendsRound(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 3)
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	res, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID}, r, scripted(2, 3, 4))
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Nil(t, res.Damage)

	require.NoError(t, combat.ApplyAttack(attacker, target, res))
	assert.Equal(t, 2, gun.Weapon.Rounds)
	assert.Equal(t, 21, target.Health.Total.Value)
}

func TestResolveAttack_EmptyMagazine(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 3)
	gun.Weapon.Rounds = 0
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	_, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID}, r, scripted())
	assert.ErrorIs(t, err, combat.ErrNoAmmunition)
}

func TestResolveAttack_RequiresActiveWeapon(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 3)
	gun.Equipped = false
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	_, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID}, r, scripted())
	assert.ErrorIs(t, err, combat.ErrNoWeapon)
	_, err = combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: uuid.New()}, r, scripted())
	assert.ErrorIs(t, err, combat.ErrNoWeapon)
}

func TestApplyAttack_RechecksAmmunition(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 1)
	attacker := makeActor(t, r, gun)
	target := makeActor(t, r)

	res, err := combat.ResolveAttack(attacker, target, combat.AttackRequest{WeaponID: gun.ID}, r, scripted(1, 1, 1))
	require.NoError(t, err)
	gun.Weapon.Rounds = 0
	assert.ErrorIs(t, combat.ApplyAttack(attacker, target, res), combat.ErrNoAmmunition)
}

func TestRollHitLocation(t *testing.T) {
	assert.Equal(t, rules.Head, combat.RollHitLocation(scripted(1)))
	assert.Equal(t, rules.LeftArm, combat.RollHitLocation(scripted(10)))
}

func TestReload(t *testing.T) {
	r := rules.Default()
	gun := rifle(2, 6)
	gun.Weapon.Rounds = 1
	blade := rifle(1, 0)
	armorPlate := armor(2, rules.Chest)
	a := makeActor(t, r, gun, blade, armorPlate)

	n, err := combat.Reload(a, gun.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 6, gun.Weapon.Rounds)

	_, err = combat.Reload(a, blade.ID)
	assert.ErrorIs(t, err, combat.ErrNoMagazine)
	_, err = combat.Reload(a, armorPlate.ID)
	assert.ErrorIs(t, err, combat.ErrNoWeapon)
	_, err = combat.Reload(a, uuid.New())
	assert.ErrorIs(t, err, combat.ErrNoWeapon)
}
