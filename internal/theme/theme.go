package theme

import "git.lost.host/meutraa/badlands/internal/game"

type Theme interface {
	RenderGrade(grade game.Grade) string
	RenderPulse(intensity float64, width int) string
	RenderBar(beat, beatsPerBar int) string
}
