package character

import (
	"testing"

	"git.lost.host/meutraa/badlands/internal/game"
	"github.com/stretchr/testify/assert"
)

func always() float64 { return 0 }
func never() float64  { return 0.99 }

type damageTest struct {
	ID       ID
	Base     float64
	Grade    game.Grade
	Combo    int
	Roll     Roll
	Expected int
}

var damageTests = []damageTest{
	{ID: Rogue, Base: 10, Grade: game.GradePerfect, Combo: 0, Roll: always, Expected: 50},
	{ID: Rogue, Base: 10, Grade: game.GradePerfect, Combo: 0, Roll: never, Expected: 25},
	{ID: Rogue, Base: 10, Grade: game.GradePerfect, Combo: 0, Roll: nil, Expected: 25},
	{ID: Rogue, Base: 10, Grade: game.GradeGood, Combo: 0, Roll: always, Expected: 15},
	{ID: Rogue, Base: 10, Grade: game.GradeOk, Combo: 0, Roll: always, Expected: 10},
	{ID: Rogue, Base: 10, Grade: game.GradeMiss, Combo: 0, Roll: always, Expected: 10},
	{ID: Warrior, Base: 10, Grade: game.GradePerfect, Combo: 0, Roll: always, Expected: 18},
	{ID: Warrior, Base: 10, Grade: game.GradeGood, Combo: 20, Roll: always, Expected: 26}, // 13 * 2
	{ID: Mage, Base: 10, Grade: game.GradePerfect, Combo: 4, Roll: always, Expected: 26},  // 22 * 1.2 = 26.4
	{ID: Mage, Base: 12, Grade: game.GradeOk, Combo: 100, Roll: always, Expected: 72},     // 12 * 6
	{ID: "paladin", Base: 10, Grade: game.GradePerfect, Combo: 0, Roll: always, Expected: 18},
}

func TestCalculateDamage(t *testing.T) {
	r := Default()
	for _, test := range damageTests {
		got := r.CalculateDamage(test.ID, test.Base, test.Grade, test.Combo, test.Roll)
		if got != test.Expected {
			t.Log("class   ", test.ID, test.Grade, "combo", test.Combo)
			t.Log("got     ", got)
			t.Log("expected", test.Expected)
			t.Fail()
		}
	}
}

// The judge's generic timing multiplier is not applied a second time
func TestCalculateDamageIgnoresJudgeMultiplier(t *testing.T) {
	r := Default()
	perfect := game.DefaultJudgements()[game.GradePerfect]
	assert.Equal(t, 2.0, perfect.Multiplier)
	assert.Equal(t, 25, r.CalculateDamage(Rogue, 10, perfect.Grade, 0, never))
}

func TestCritOnlyOnPerfect(t *testing.T) {
	r := Default()
	rolls := 0
	counting := func() float64 { rolls++; return 0 }
	r.CalculateDamage(Rogue, 10, game.GradeGood, 0, counting)
	r.CalculateDamage(Warrior, 10, game.GradePerfect, 0, counting)
	assert.Equal(t, 0, rolls)
	r.CalculateDamage(Rogue, 10, game.GradePerfect, 0, counting)
	assert.Equal(t, 1, rolls)
}

func TestSeededRollIsReproducible(t *testing.T) {
	r := Default()
	a, b := NewRoll(7), NewRoll(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t,
			r.CalculateDamage(Rogue, 10, game.GradePerfect, i, a),
			r.CalculateDamage(Rogue, 10, game.GradePerfect, i, b),
		)
	}
}

func TestCalculateMomentum(t *testing.T) {
	r := Default()
	assert.Equal(t, 20.0, r.CalculateMomentum(Rogue, 10, game.GradePerfect))
	assert.InDelta(t, 14.0, r.CalculateMomentum(Rogue, 10, game.GradeGood), 1e-9)
	assert.Equal(t, 10.0, r.CalculateMomentum(Rogue, 10, game.GradeOk))
	assert.Equal(t, 10.0, r.CalculateMomentum(Rogue, 10, game.GradeMiss))
	assert.Equal(t, 15.0, r.CalculateMomentum("unknown", 10, game.GradePerfect))
}
