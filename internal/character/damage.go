package character

import (
	"math"
	"math/rand"

	"git.lost.host/meutraa/badlands/internal/game"
)

const (
	comboBonus     = 0.05 // Per combo stack, unbounded
	critMultiplier = 2.0
)

// Roll draws a probability in [0, 1)
type Roll func() float64

// NewRoll returns a seeded roll for reproducible runs
func NewRoll(seed int64) Roll {
	return rand.New(rand.NewSource(seed)).Float64
}

// CalculateDamage applies the class rhythm bonus for the grade, a possible
// critical hit on perfect timing, and the combo bonus. The generic timing
// multiplier of the judge is not part of this formula; callers pass the raw
// base damage.
func (r *Registry) CalculateDamage(id ID, base float64, grade game.Grade, combo int, roll Roll) int {
	c := r.Get(id)
	damage := base

	switch grade {
	case game.GradePerfect:
		damage *= c.Rhythm.PerfectDamage
		if c.Rhythm.PerfectCritChance > 0 && roll != nil && roll() < c.Rhythm.PerfectCritChance {
			damage *= critMultiplier
		}
	case game.GradeGood:
		damage *= c.Rhythm.GoodDamage
	}

	damage *= 1 + float64(combo)*comboBonus
	return int(math.Round(damage))
}

// CalculateMomentum scales a momentum gain by the class rhythm bonus
func (r *Registry) CalculateMomentum(id ID, base float64, grade game.Grade) float64 {
	c := r.Get(id)
	switch grade {
	case game.GradePerfect:
		return base * c.Rhythm.PerfectMomentum
	case game.GradeGood:
		return base * c.Rhythm.GoodMomentum
	}
	return base
}
