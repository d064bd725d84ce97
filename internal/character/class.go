// Package character holds the static archetype tables and the damage
// formulas that combine them with timing grades.
package character

import "time"

type ID string

const (
	Warrior ID = "warrior"
	Mage    ID = "mage"
	Rogue   ID = "rogue"
)

type Movement struct {
	Speed        float64 `yaml:"speed"`
	Acceleration float64 `yaml:"acceleration"`
	JumpForce    float64 `yaml:"jump_force"`
	AirControl   float64 `yaml:"air_control"`
}

type Combat struct {
	BaseDamage     float64       `yaml:"base_damage"`
	AttackRange    float64       `yaml:"attack_range"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	MaxHealth      int           `yaml:"max_health"`
}

type Ability struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Cooldown    time.Duration `yaml:"cooldown"`
	Multiplier  float64       `yaml:"multiplier"`
}

// RhythmBonus maps timing grades onto class specific multipliers
type RhythmBonus struct {
	PerfectDamage     float64 `yaml:"perfect_damage"`
	GoodDamage        float64 `yaml:"good_damage"`
	PerfectMomentum   float64 `yaml:"perfect_momentum"`
	GoodMomentum      float64 `yaml:"good_momentum"`
	PerfectCritChance float64 `yaml:"perfect_crit_chance"`
}

type Class struct {
	ID       ID          `yaml:"-"`
	Name     string      `yaml:"name"`
	Movement Movement    `yaml:"movement"`
	Combat   Combat      `yaml:"combat"`
	Special  Ability     `yaml:"special"`
	Rhythm   RhythmBonus `yaml:"rhythm"`
}

func defaults() map[ID]Class {
	return map[ID]Class{
		Warrior: {
			ID:   Warrior,
			Name: "Warrior",
			Movement: Movement{
				Speed:        4.0,
				Acceleration: 0.5,
				JumpForce:    11.0,
				AirControl:   0.6,
			},
			Combat: Combat{
				BaseDamage:     15,
				AttackRange:    48,
				AttackCooldown: 450 * time.Millisecond,
				MaxHealth:      150,
			},
			Special: Ability{
				Name:        "Ground Slam",
				Description: "Shockwave that hits every enemy on the ground nearby",
				Cooldown:    8 * time.Second,
				Multiplier:  2.5,
			},
			Rhythm: RhythmBonus{
				PerfectDamage:   1.8,
				GoodDamage:      1.3,
				PerfectMomentum: 1.5,
				GoodMomentum:    1.2,
			},
		},
		Mage: {
			ID:   Mage,
			Name: "Mage",
			Movement: Movement{
				Speed:        3.5,
				Acceleration: 0.4,
				JumpForce:    10.0,
				AirControl:   0.9,
			},
			Combat: Combat{
				BaseDamage:     12,
				AttackRange:    160,
				AttackCooldown: 600 * time.Millisecond,
				MaxHealth:      90,
			},
			Special: Ability{
				Name:        "Arcane Burst",
				Description: "Ranged blast that grows with the current combo",
				Cooldown:    10 * time.Second,
				Multiplier:  3.0,
			},
			Rhythm: RhythmBonus{
				PerfectDamage:   2.2,
				GoodDamage:      1.4,
				PerfectMomentum: 1.3,
				GoodMomentum:    1.1,
			},
		},
		Rogue: {
			ID:   Rogue,
			Name: "Rogue",
			Movement: Movement{
				Speed:        5.5,
				Acceleration: 0.8,
				JumpForce:    12.0,
				AirControl:   0.8,
			},
			Combat: Combat{
				BaseDamage:     10,
				AttackRange:    36,
				AttackCooldown: 300 * time.Millisecond,
				MaxHealth:      100,
			},
			Special: Ability{
				Name:        "Shadow Step",
				Description: "Dash through enemies, striking each one passed",
				Cooldown:    6 * time.Second,
				Multiplier:  1.8,
			},
			Rhythm: RhythmBonus{
				PerfectDamage:     2.5,
				GoodDamage:        1.5,
				PerfectMomentum:   2.0,
				GoodMomentum:      1.4,
				PerfectCritChance: 0.5,
			},
		},
	}
}
