// Package rhythm tracks beats from a beat source, grades player actions
// against them and accumulates combos.
package rhythm

import (
	"sync"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
	"go.uber.org/zap"
)

// BeatSource emits beat events at a tempo derived interval
type BeatSource interface {
	OnBeat(fn func(beat int, downbeat bool)) (unsubscribe func())
	Interval() time.Duration
}

// SfxPlayer plays a named cue. Calls must not block.
type SfxPlayer interface {
	PlaySfx(cue string, volume float64)
}

const (
	CueHit       = "hit"
	CueMilestone = "milestone"

	hitVolume       = 0.6
	milestoneVolume = 0.8
)

type Listener func(beat int)

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithSfx(sfx SfxPlayer) Option {
	return func(e *Engine) {
		e.sfx = sfx
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func WithJudgements(js []game.Judgement) Option {
	return func(e *Engine) {
		e.judgements = js
	}
}

// Engine owns the beat clock and combo state of one player
type Engine struct {
	mu         sync.Mutex
	source     BeatSource
	sfx        SfxPlayer
	now        func() time.Time
	log        *zap.Logger
	judgements []game.Judgement

	active      bool
	beatIndex   int
	lastBeat    time.Time
	unsubscribe func()
	combo       Combo

	beatListeners     []Listener
	downbeatListeners []Listener
}

func New(source BeatSource, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		now:        time.Now,
		log:        zap.NewNop(),
		judgements: game.DefaultJudgements(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.lastBeat = e.now()
	return e
}

// OnBeat registers a listener for every beat
func (e *Engine) OnBeat(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beatListeners = append(e.beatListeners, l)
}

// OnDownbeat registers a listener for the first beat of each bar
func (e *Engine) OnDownbeat(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downbeatListeners = append(e.downbeatListeners, l)
}

// Start resets the beat count and combo statistics and subscribes to the
// beat source. Starting a running engine restarts it.
func (e *Engine) Start() {
	e.Stop()

	e.mu.Lock()
	e.beatIndex = 0
	e.lastBeat = e.now()
	e.combo.Reset()
	e.active = true
	e.mu.Unlock()

	unsubscribe := e.source.OnBeat(e.handleBeat)

	e.mu.Lock()
	e.unsubscribe = unsubscribe
	e.mu.Unlock()

	e.log.Debug("rhythm engine started", zap.Duration("interval", e.source.Interval()))
}

// Stop freezes the beat clock. Beats already in flight are ignored.
func (e *Engine) Stop() {
	e.mu.Lock()
	wasActive := e.active
	e.active = false
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if wasActive {
		e.log.Debug("rhythm engine stopped")
	}
}

func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) handleBeat(beat int, downbeat bool) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.lastBeat = e.now()
	e.beatIndex = beat
	beats := append([]Listener(nil), e.beatListeners...)
	var downbeats []Listener
	if downbeat {
		downbeats = append(downbeats, e.downbeatListeners...)
	}
	e.mu.Unlock()

	e.notify("beat", beats, beat)
	e.notify("downbeat", downbeats, beat)
}

func (e *Engine) notify(kind string, listeners []Listener, beat int) {
	for i, l := range listeners {
		e.safely(func() { l(beat) }, zap.String("listener", kind), zap.Int("index", i))
	}
}

// safely isolates a collaborator callback so it cannot take the engine down
func (e *Engine) safely(fn func(), fields ...zap.Field) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("callback panicked", append(fields, zap.Any("panic", r))...)
		}
	}()
	fn()
}

func (e *Engine) elapsed(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastBeat)
}

// Judge grades now against the beat grid without touching any state
func (e *Engine) Judge(now time.Time) game.TimingResult {
	interval := e.source.Interval()
	return Judge(e.elapsed(now), interval, e.judgements)
}

// RegisterAction judges a player action and feeds the combo
func (e *Engine) RegisterAction(now time.Time) game.Action {
	interval := e.source.Interval()

	e.mu.Lock()
	r := Judge(now.Sub(e.lastBeat), interval, e.judgements)
	milestone := e.combo.Register(r)
	combo := e.combo.Current()
	e.mu.Unlock()

	if r.Grade == game.GradePerfect {
		e.cue(CueHit, hitVolume)
	}
	if milestone {
		e.cue(CueMilestone, milestoneVolume)
	}

	multiplier := ComboMultiplier(combo)
	e.log.Debug("action",
		zap.Stringer("grade", r.Grade),
		zap.Duration("delta", r.Delta),
		zap.Int("combo", combo),
	)
	return game.Action{
		TimingResult:    r,
		ComboMultiplier: multiplier,
		TotalMultiplier: r.Multiplier * multiplier,
		Combo:           combo,
	}
}

func (e *Engine) cue(name string, volume float64) {
	if e.sfx == nil {
		return
	}
	e.safely(func() { e.sfx.PlaySfx(name, volume) }, zap.String("cue", name))
}

// BreakCombo resets the current combo, e.g. when the player takes a hit
func (e *Engine) BreakCombo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.combo.Break()
}

func (e *Engine) Combo() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.combo.Current()
}

func (e *Engine) Stats() game.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.combo.Stats()
}

func (e *Engine) BeatIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.beatIndex
}

func (e *Engine) TimeSincePriorBeat(now time.Time) time.Duration {
	d := e.elapsed(now)
	if d < 0 {
		return 0
	}
	return d
}

func (e *Engine) TimeToNextBeat(now time.Time) time.Duration {
	d := e.source.Interval() - e.elapsed(now)
	if d < 0 {
		return 0
	}
	return d
}

func (e *Engine) Phase(now time.Time) float64 {
	return PhaseOf(e.elapsed(now), e.source.Interval())
}

func (e *Engine) Intensity(now time.Time) float64 {
	return Intensity(e.Phase(now))
}

// InPowerWindow reports whether an action now would be perfect
func (e *Engine) InPowerWindow(now time.Time) bool {
	return e.Judge(now).Grade == game.GradePerfect
}

func (e *Engine) DebugInfo(now time.Time) game.DebugInfo {
	interval := e.source.Interval()

	e.mu.Lock()
	elapsed := now.Sub(e.lastBeat)
	stats := e.combo.Stats()
	info := game.DebugInfo{
		Active:      e.active,
		BeatIndex:   e.beatIndex,
		Interval:    interval,
		Combo:       e.combo.Current(),
		MaxCombo:    stats.MaxCombo,
		PerfectHits: stats.PerfectHits,
		TotalHits:   stats.TotalHits,
		Accuracy:    stats.Accuracy,
	}
	e.mu.Unlock()

	if elapsed > 0 {
		info.SinceBeat = elapsed
	}
	if toNext := interval - elapsed; toNext > 0 {
		info.ToNextBeat = toNext
	}
	info.Phase = PhaseOf(elapsed, interval)
	info.Intensity = Intensity(info.Phase)
	info.ComboMultiplier = ComboMultiplier(info.Combo)
	return info
}
