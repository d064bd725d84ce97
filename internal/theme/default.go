package theme

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"git.lost.host/meutraa/badlands/internal/game"
)

type DefaultTheme struct{}

func (t *DefaultTheme) RenderGrade(grade game.Grade) string {
	return Paint(GradeColor(grade), fmt.Sprintf("%-7v", grade))
}

// RenderPulse draws a bar that fills up as the beat approaches
func (t *DefaultTheme) RenderPulse(intensity float64, width int) string {
	if width <= 0 {
		return ""
	}
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	filled := int(math.Round(intensity * float64(width)))
	return Paint(pulseColor, strings.Repeat(pulseSym, filled)) + strings.Repeat(" ", width-filled)
}

// RenderBar marks the position of beat within its bar
func (t *DefaultTheme) RenderBar(beat, beatsPerBar int) string {
	if beatsPerBar <= 0 || beat < 0 {
		return ""
	}
	pos := beat % beatsPerBar
	var b strings.Builder
	for i := 0; i < beatsPerBar; i++ {
		switch {
		case i == pos && i == 0:
			b.WriteString(Paint(downbeatColor, beatSym))
		case i == pos:
			b.WriteString(beatSym)
		default:
			b.WriteString(restSym)
		}
	}
	return b.String()
}

const (
	pulseSym = "█"
	beatSym  = "⬤"
	restSym  = "·"
)

var (
	pulseColor    = color.RGBA{0, 118, 236, 255}
	downbeatColor = color.RGBA{236, 30, 0, 255}
	gradeColors   = map[game.Grade]color.RGBA{
		game.GradePerfect: {173, 236, 236, 255}, // light blue
		game.GradeGood:    {0, 236, 128, 255},   // green
		game.GradeOk:      {236, 195, 0, 255},   // yellow
		game.GradeMiss:    {236, 30, 0, 255},    // red
	}
	fallback = color.RGBA{255, 255, 255, 255}
)

func GradeColor(g game.Grade) color.RGBA {
	col, ok := gradeColors[g]
	if !ok {
		return fallback
	}
	return col
}

// Paint wraps s in a 24 bit foreground colour escape
func Paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}
