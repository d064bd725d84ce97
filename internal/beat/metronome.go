// Package beat provides a beat source that follows a tempo map.
package beat

import (
	"context"
	"sync"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
	"go.uber.org/zap"
)

const DefaultBeatsPerBar = 4

type Option func(*Metronome)

func WithClock(now func() time.Time) Option {
	return func(m *Metronome) {
		m.now = now
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Metronome) {
		m.log = log
	}
}

type subscriber struct {
	id int
	fn func(beat int, downbeat bool)
}

// Metronome emits a beat event whenever the clock passes the next beat of
// its tempo map. It is driven either by calling Tick from a frame loop or
// by Run on its own goroutine.
type Metronome struct {
	mu          sync.Mutex
	tempo       game.TempoMap
	beatsPerBar int
	now         func() time.Time
	log         *zap.Logger

	running bool
	next    int       // Index of the next beat to fire
	nextAt  time.Time // When it fires
	current int       // Index of the last fired beat, -1 before the first

	subs   []subscriber
	nextID int
}

func New(tempo game.TempoMap, beatsPerBar int, opts ...Option) *Metronome {
	if beatsPerBar <= 0 {
		beatsPerBar = DefaultBeatsPerBar
	}
	m := &Metronome{
		tempo:       tempo,
		beatsPerBar: beatsPerBar,
		now:         time.Now,
		log:         zap.NewNop(),
		current:     -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnBeat subscribes fn to every beat
func (m *Metronome) OnBeat(fn func(beat int, downbeat bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Interval is the length of the current beat
func (m *Metronome) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	beat := m.current
	if beat < 0 {
		beat = 0
	}
	return m.tempo.IntervalAt(beat)
}

// Start anchors beat 0 at now plus the tempo map offset
func (m *Metronome) Start() {
	m.mu.Lock()
	m.running = true
	m.next = 0
	m.current = -1
	m.nextAt = m.now().Add(m.tempo.Offset)
	m.mu.Unlock()

	m.log.Info("metronome started",
		zap.Float64("bpm", m.tempo.BPMAt(0)),
		zap.Int("beats_per_bar", m.beatsPerBar),
	)
	m.Tick()
}

func (m *Metronome) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

func (m *Metronome) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Beat returns the index of the last fired beat, -1 before the first
func (m *Metronome) Beat() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

type firing struct {
	beat     int
	downbeat bool
}

// Tick fires every beat that is due. Subscribers are called in
// subscription order outside the metronome lock.
func (m *Metronome) Tick() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	now := m.now()
	due := []firing{}
	for !m.nextAt.After(now) {
		interval := m.tempo.IntervalAt(m.next)
		if interval <= 0 {
			m.running = false
			m.log.Warn("no tempo at beat, stopping", zap.Int("beat", m.next))
			break
		}
		due = append(due, firing{beat: m.next, downbeat: m.next%m.beatsPerBar == 0})
		m.current = m.next
		m.next++
		m.nextAt = m.nextAt.Add(interval)
	}
	subs := append([]subscriber(nil), m.subs...)
	m.mu.Unlock()

	if len(due) > 1 {
		m.log.Debug("late tick, firing several beats", zap.Int("count", len(due)))
	}
	for _, f := range due {
		for _, s := range subs {
			s.fn(f.beat, f.downbeat)
		}
	}
}

// Run ticks at the given resolution until ctx is done
func (m *Metronome) Run(ctx context.Context, resolution time.Duration) {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}
