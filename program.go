package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"git.lost.host/meutraa/badlands/internal/audio"
	"git.lost.host/meutraa/badlands/internal/character"
	"git.lost.host/meutraa/badlands/internal/game"
	"git.lost.host/meutraa/badlands/internal/render"
	"git.lost.host/meutraa/badlands/internal/rhythm"
	"git.lost.host/meutraa/badlands/internal/theme"
	"go.uber.org/zap"
)

const (
	pulseWidth      = 32
	valueCol        = 14 // Width of the HUD labels
	gradeFrames     = 45
	momentumPerStep = 10.0
	breakVolume     = 0.7
	clickVolume     = 0.25
	downbeatVolume  = 0.4
)

type command int

const (
	cmdAct command = iota
	cmdHit
	cmdQuit
)

type press struct {
	cmd command
	at  time.Time
}

// Program ties the rhythm engine to the archetype tables and the screen
type Program struct {
	Engine   *rhythm.Engine
	Classes  *character.Registry
	Class    character.ID
	Roll     character.Roll
	Theme    theme.Theme
	Renderer render.Renderer
	Sfx      rhythm.SfxPlayer
	Song     *game.Song
	Offset   time.Duration // Global input offset
	Log      *zap.Logger

	beatsPerBar int
	sideCol     int

	last        *game.Action
	lastDamage  int
	totalDamage int
	momentum    float64
	hitsTaken   int
}

func (p *Program) Init(beatsPerBar int) {
	p.beatsPerBar = beatsPerBar
	columns, _ := p.Renderer.Size()
	p.sideCol = columns/2 - 24
	if p.sideCol < 2 {
		p.sideCol = 2
	}

	p.Engine.OnBeat(func(int) {
		p.Sfx.PlaySfx(audio.CueClick, clickVolume)
	})
	p.Engine.OnDownbeat(func(int) {
		p.Sfx.PlaySfx(audio.CueDownbeat, downbeatVolume)
	})
}

// Handle applies one input, returning false to quit
func (p *Program) Handle(in press) bool {
	switch in.cmd {
	case cmdQuit:
		return false
	case cmdHit:
		p.Hit()
	case cmdAct:
		p.Act(in.at)
	}
	return true
}

// Act judges an attack and works out its damage for the chosen class
func (p *Program) Act(at time.Time) game.Action {
	a := p.Engine.RegisterAction(at.Add(p.Offset))
	c := p.Classes.Get(p.Class)

	p.lastDamage = p.Classes.CalculateDamage(p.Class, c.Combat.BaseDamage, a.Grade, a.Combo, p.Roll)
	p.totalDamage += p.lastDamage
	p.momentum += p.Classes.CalculateMomentum(p.Class, momentumPerStep, a.Grade)
	p.last = &a

	p.Renderer.AddDecoration(p.sideCol+40, 6, p.Theme.RenderGrade(a.Grade), gradeFrames)
	p.Log.Debug("attack",
		zap.Stringer("grade", a.Grade),
		zap.Int("damage", p.lastDamage),
		zap.Float64("multiplier", a.TotalMultiplier),
	)
	return a
}

// Hit is the player taking damage, which breaks the combo
func (p *Program) Hit() {
	p.hitsTaken++
	p.Engine.BreakCombo()
	p.Sfx.PlaySfx(audio.CueBreak, breakVolume)
	p.Renderer.AddDecoration(p.sideCol+40, 6, theme.Paint(theme.GradeColor(game.GradeMiss), "BROKEN "), gradeFrames)
}

func (p *Program) Render(now time.Time) {
	info := p.Engine.DebugInfo(now)
	row := 2
	line := func(format string, args ...interface{}) {
		p.Renderer.Fill(row, p.sideCol, fmt.Sprintf(format, args...)+"\033[K")
		row++
	}

	c := p.Classes.Get(p.Class)
	line("%v  [%v]", p.Song.Title, c.Name)
	row++
	line("%v", p.Theme.RenderPulse(info.Intensity, pulseWidth))
	line("%v", p.Theme.RenderBar(info.BeatIndex, p.beatsPerBar))
	row++
	line("       Beat:  %6v", info.BeatIndex)
	line("   Interval:  %6.0f ms", ms(info.Interval))
	line("      Phase:  %6.2f", info.Phase)
	line("  Next beat:  %6.0f ms", ms(info.ToNextBeat))
	row++
	line("      Combo:  %6v  x%.1f", info.Combo, info.ComboMultiplier)
	line("  Max combo:  %6v", info.MaxCombo)
	line("   Accuracy:  %6.1f%%", info.Accuracy)
	line("   Perfects:  %6v / %v", info.PerfectHits, info.TotalHits)
	row++
	if p.last != nil {
		line("       Last:  %-7v %5.1f ms %v", "", p.last.OffsetMs(), earlyLate(p.last.Delta))
		p.Renderer.FillColor(row-1, p.sideCol+valueCol, theme.GradeColor(p.last.Grade), p.last.Grade.String())
		line("     Damage:  %6v  (total %v)", p.lastDamage, p.totalDamage)
	}
	line("   Momentum:  %6.1f", p.momentum)
	line(" Hits taken:  %6v", "")
	p.Renderer.FillColor(row-1, p.sideCol+valueCol, hitsColor(p.hitsTaken), fmt.Sprintf("%6v", p.hitsTaken))
	row++
	line("space/j/k attack   b take a hit   esc quit")
}

// Summary describes the finished run
func (p *Program) Summary(stats game.Stats, best *game.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v as %v\n", p.Song.Title, p.Classes.Get(p.Class).Name)
	fmt.Fprintf(&b, "  actions   %v\n", stats.TotalHits)
	for g := game.GradePerfect; g < game.GradeCount; g++ {
		fmt.Fprintf(&b, "  %-8v  %v\n", strings.ToLower(g.String()), stats.Counts[g])
	}
	fmt.Fprintf(&b, "  accuracy  %.1f%%\n", stats.Accuracy)
	fmt.Fprintf(&b, "  max combo %v\n", stats.MaxCombo)
	fmt.Fprintf(&b, "  mean      %+.1f ms\n", ms(stats.Mean))
	fmt.Fprintf(&b, "  stdev     %.1f ms\n", ms(stats.StdDev))
	fmt.Fprintf(&b, "  damage    %v\n", p.totalDamage)
	if best != nil {
		fmt.Fprintf(&b, "  best      %v combo, %.1f%%\n", best.MaxCombo, best.Accuracy)
	}
	return b.String()
}

func earlyLate(delta time.Duration) string {
	switch {
	case delta < 0:
		return "early"
	case delta > 0:
		return "late"
	}
	return ""
}

func hitsColor(hits int) color.RGBA {
	if hits == 0 {
		return theme.GradeColor(game.GradeGood)
	}
	return theme.GradeColor(game.GradeMiss)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
