package rules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

func TestGravityModifier_Table(t *testing.T) {
	cases := []struct {
		home, current string
		want          rules.GravityDelta
	}{
		{"zero", "high", rules.GravityDelta{Str: 3, Dex: -2, Sta: 2}},
		{"Low", "Normal", rules.GravityDelta{Str: 1}},
		{"NORMAL", "zero", rules.GravityDelta{Str: -2, Dex: 1, Sta: -2}},
		{"high", "low", rules.GravityDelta{Str: -2, Dex: 1, Sta: -2}},
		{"high", "high", rules.GravityDelta{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rules.GravityModifier(tc.home, tc.current), "%s -> %s", tc.home, tc.current)
	}
}

func TestGravityModifier_UnknownKeysDefaultToZero(t *testing.T) {
	assert.Equal(t, rules.GravityDelta{}, rules.GravityModifier("", "high"))
	assert.Equal(t, rules.GravityDelta{}, rules.GravityModifier("heavy", "zero"))
	assert.Equal(t, rules.GravityDelta{}, rules.GravityModifier("zero", "jupiter"))
}

func TestGravityDelta_ForIgnoresMentalAttributes(t *testing.T) {
	d := rules.GravityModifier("zero", "high")
	assert.Equal(t, 3, d.For(rules.Strength))
	assert.Equal(t, 0, d.For(rules.Wits))
}

func TestStandardHealthLevels(t *testing.T) {
	levels := rules.StandardHealthLevels()
	require.Len(t, levels, rules.StandardBoxes)
	want := []int{0, -1, -1, -2, -2, -5, 99}
	for i, l := range levels {
		assert.Equal(t, want[i], l.Penalty, "level %d", i)
	}
	assert.Equal(t, "Mauled", levels[4].Label)
	levels[0].Penalty = -40
	assert.Equal(t, 0, rules.HealthLevelAt(0).Penalty, "returned table is a copy")
	assert.Equal(t, "Incapacitated", rules.HealthLevelAt(42).Label)
}

func TestHitLocationFor(t *testing.T) {
	want := map[int]rules.Location{
		1: rules.Head, 2: rules.Chest, 3: rules.Stomach, 4: rules.Stomach,
		5: rules.RightLeg, 6: rules.LeftLeg, 7: rules.RightLeg, 8: rules.LeftLeg,
		9: rules.RightArm, 10: rules.LeftArm,
	}
	for face, loc := range want {
		assert.Equal(t, loc, rules.HitLocationFor(face), "face %d", face)
	}
	assert.Equal(t, rules.Head, rules.HitLocationFor(-2))
	assert.Equal(t, rules.LeftArm, rules.HitLocationFor(11))
}

func TestLocation_VitalAndLimbPartition(t *testing.T) {
	for _, l := range rules.Locations() {
		assert.True(t, l.Valid())
		assert.NotEqual(t, l.Vital(), l.Limb(), "%s must be exactly one of vital or limb", l)
	}
	assert.False(t, rules.Location("tail").Valid())
}

func TestDefault_SkillCatalog(t *testing.T) {
	r := rules.Default()
	assert.Len(t, r.Skills, 33)
	s, ok := r.Skill("survival")
	require.True(t, ok)
	assert.Equal(t, rules.Stamina, s.Attribute)
	for _, s := range r.Skills {
		assert.True(t, s.Attribute.Valid(), s.Key)
	}
}

func TestApplyOverlay(t *testing.T) {
	r := rules.Default()
	err := r.ApplyOverlay([]byte(`
skills:
  - key: pilot
    label: Piloting
    attribute: wit
  - key: zeroG
    attribute: dex
xp_costs:
  new_skill: 4
walk_speed: 8
`))
	require.NoError(t, err)

	pilot, ok := r.Skill("pilot")
	require.True(t, ok)
	assert.Equal(t, rules.Wits, pilot.Attribute)
	zg, ok := r.Skill("zeroG")
	require.True(t, ok)
	assert.Equal(t, "zeroG", zg.Label)
	assert.Equal(t, 4, r.XP.NewSkill)
	assert.Equal(t, 2, r.XP.RaiseSkill, "unset costs keep defaults")
	assert.Equal(t, 8, r.WalkSpeed)
}

func TestApplyOverlay_RejectsInvalidContent(t *testing.T) {
	r := rules.Default()
	err := r.ApplyOverlay([]byte("skills:\n  - key: tarot\n    attribute: luck\n"))
	require.Error(t, err)
	_, ok := r.Skill("tarot")
	assert.False(t, ok, "rules unchanged on error")

	err = r.ApplyOverlay([]byte("gravity: heavy\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestApplyOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walk_speed: 9\n"), 0644))

	r := rules.Default()
	require.NoError(t, r.ApplyOverlayFile(path))
	assert.Equal(t, 9, r.WalkSpeed)

	err := r.ApplyOverlayFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.Equal(t, 9, r.WalkSpeed)
}

func TestProperty_GravityIsCaseInsensitive(t *testing.T) {
	bands := []string{"zero", "low", "normal", "high"}
	rapid.Check(t, func(rt *rapid.T) {
		home := rapid.SampledFrom(bands).Draw(rt, "home")
		cur := rapid.SampledFrom(bands).Draw(rt, "current")
		upper := rapid.Bool().Draw(rt, "upper")
		h, c := home, cur
		if upper {
			h, c = "  "+strings.ToUpper(home), strings.ToUpper(cur)+" "
		}
		assert.Equal(rt, rules.GravityModifier(home, cur), rules.GravityModifier(h, c))
		if home == cur {
			assert.Equal(rt, rules.GravityDelta{}, rules.GravityModifier(home, cur))
		}
	})
}

func TestParseLocation(t *testing.T) {
	for in, want := range map[string]rules.Location{
		"head":      rules.Head,
		"Head":      rules.Head,
		" stomach ": rules.Stomach,
		"LARM":      rules.LeftArm,
		"right leg": rules.RightLeg,
		"Left Leg":  rules.LeftLeg,
	} {
		got, ok := rules.ParseLocation(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "tail", "arm"} {
		_, ok := rules.ParseLocation(in)
		assert.False(t, ok, in)
	}
}
