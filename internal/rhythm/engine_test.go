package rhythm

import (
	"testing"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	interval time.Duration
	subs     map[int]func(int, bool)
	nextID   int
	last     func(int, bool) // kept after unsubscribe to replay in-flight beats
}

func newFakeSource(interval time.Duration) *fakeSource {
	return &fakeSource{interval: interval, subs: map[int]func(int, bool){}}
}

func (s *fakeSource) OnBeat(fn func(int, bool)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.last = fn
	return func() { delete(s.subs, id) }
}

func (s *fakeSource) Interval() time.Duration {
	return s.interval
}

func (s *fakeSource) fire(beat int, downbeat bool) {
	for _, fn := range s.subs {
		fn(beat, downbeat)
	}
}

type recordingSfx struct {
	cues []string
}

func (r *recordingSfx) PlaySfx(cue string, volume float64) {
	r.cues = append(r.cues, cue)
}

type panickingSfx struct{}

func (panickingSfx) PlaySfx(string, float64) {
	panic("speaker on fire")
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestEngine(opts ...Option) (*Engine, *fakeSource, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	src := newFakeSource(500 * time.Millisecond)
	e := New(src, append([]Option{WithClock(clock.Now)}, opts...)...)
	e.Start()
	return e, src, clock
}

func TestEngineJudgeScenario(t *testing.T) {
	e, src, clock := newTestEngine()
	t0 := clock.Now()
	src.fire(1, false)

	r := e.Judge(t0.Add(40 * ms))
	assert.Equal(t, game.GradePerfect, r.Grade)
	assert.Equal(t, 2.0, r.Multiplier)
	assert.Equal(t, 40.0, r.OffsetMs())

	r = e.Judge(t0.Add(475 * ms))
	assert.Equal(t, game.GradePerfect, r.Grade)
	assert.Equal(t, 25*ms, r.Offset)

	r = e.Judge(t0.Add(250 * ms))
	assert.Equal(t, game.GradeMiss, r.Grade)
	assert.Equal(t, 250*ms, r.Offset)

	assert.Equal(t, 0, e.Stats().TotalHits, "judging must not register actions")
}

func TestEngineMissResetsCombo(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(1, false)

	a := e.RegisterAction(clock.Advance(10 * ms))
	assert.Equal(t, 1, a.Combo)

	a = e.RegisterAction(clock.Advance(240 * ms))
	assert.Equal(t, game.GradeMiss, a.Grade)
	assert.Equal(t, 0, a.Combo)
	assert.Equal(t, 1.0, a.ComboMultiplier)
}

func TestEngineAccuracy(t *testing.T) {
	e, src, clock := newTestEngine()

	grades := []time.Duration{10 * ms, 70 * ms, 20 * ms, 250 * ms}
	for i, offset := range grades {
		src.fire(i+1, false)
		e.RegisterAction(clock.Now().Add(offset))
		clock.Advance(500 * ms)
	}

	s := e.Stats()
	assert.Equal(t, 4, s.TotalHits)
	assert.Equal(t, 2, s.PerfectHits)
	assert.Equal(t, 50.0, s.Accuracy)
	assert.Equal(t, 3, s.MaxCombo)
}

func TestEngineBreakComboThenPerfect(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(1, false)
	for i := 0; i < 3; i++ {
		e.RegisterAction(clock.Now())
	}
	require.Equal(t, 3, e.Combo())

	e.BreakCombo()
	a := e.RegisterAction(clock.Now())
	assert.Equal(t, game.GradePerfect, a.Grade)
	assert.Equal(t, 1, a.Combo)
	assert.Equal(t, 3, e.Stats().MaxCombo)
}

func TestEngineTotalMultiplier(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(1, false)

	var a game.Action
	for i := 0; i < 5; i++ {
		a = e.RegisterAction(clock.Now())
	}
	assert.Equal(t, 5, a.Combo)
	assert.Equal(t, 1.2, a.ComboMultiplier)
	assert.InDelta(t, 2.4, a.TotalMultiplier, 1e-9)

	a = e.RegisterAction(clock.Now().Add(90 * ms))
	assert.Equal(t, game.GradeGood, a.Grade)
	assert.InDelta(t, 1.8, a.TotalMultiplier, 1e-9)
}

func TestEngineListeners(t *testing.T) {
	e, src, _ := newTestEngine()

	order := []string{}
	e.OnBeat(func(beat int) { order = append(order, "a") })
	e.OnBeat(func(beat int) { order = append(order, "b") })
	e.OnDownbeat(func(beat int) { order = append(order, "down") })

	src.fire(1, false)
	assert.Equal(t, []string{"a", "b"}, order)

	order = order[:0]
	src.fire(4, true)
	assert.Equal(t, []string{"a", "b", "down"}, order)
	assert.Equal(t, 4, e.BeatIndex())
}

func TestEngineListenerPanicIsolated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e, src, _ := newTestEngine(WithLogger(zap.New(core)))

	called := []int{}
	e.OnBeat(func(beat int) { panic("broken listener") })
	e.OnBeat(func(beat int) { called = append(called, beat) })
	e.OnDownbeat(func(beat int) { called = append(called, -beat) })

	src.fire(8, true)
	assert.Equal(t, []int{8, -8}, called)
	assert.Equal(t, 1, logs.FilterMessage("callback panicked").Len())
}

func TestEngineSfxCues(t *testing.T) {
	sfx := &recordingSfx{}
	e, src, clock := newTestEngine(WithSfx(sfx))
	src.fire(1, false)

	e.RegisterAction(clock.Now().Add(80 * ms))
	assert.Empty(t, sfx.cues)

	for i := 0; i < 9; i++ {
		e.RegisterAction(clock.Now())
	}
	assert.Equal(t, 10, e.Combo())
	assert.Equal(t, 10, len(sfx.cues))
	assert.Equal(t, CueHit, sfx.cues[0])
	assert.Equal(t, CueMilestone, sfx.cues[len(sfx.cues)-1])
}

func TestEngineSfxFailureKeepsCombo(t *testing.T) {
	e, src, clock := newTestEngine(WithSfx(panickingSfx{}))
	src.fire(1, false)

	a := e.RegisterAction(clock.Now())
	assert.Equal(t, game.GradePerfect, a.Grade)
	assert.Equal(t, 1, a.Combo)
	assert.Equal(t, 1, e.Stats().PerfectHits)
}

func TestEngineStopIgnoresInflightBeats(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(3, false)
	beatAt := clock.Now()

	e.Stop()
	assert.False(t, e.Active())
	assert.Empty(t, src.subs)

	clock.Advance(200 * ms)
	src.last(4, true)
	assert.Equal(t, 3, e.BeatIndex())
	assert.Equal(t, 200*ms, e.TimeSincePriorBeat(beatAt.Add(200*ms)))
}

func TestEngineStartResets(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(6, false)
	e.RegisterAction(clock.Now())
	e.RegisterAction(clock.Now().Add(300 * ms))

	e.Start()
	assert.True(t, e.Active())
	assert.Equal(t, 0, e.BeatIndex())
	assert.Equal(t, game.Stats{}, e.Stats())
	assert.Len(t, src.subs, 1)
}

func TestEngineBeatQueries(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(1, false)
	t0 := clock.Now()

	assert.Equal(t, 100*ms, e.TimeSincePriorBeat(t0.Add(100*ms)))
	assert.Equal(t, 400*ms, e.TimeToNextBeat(t0.Add(100*ms)))
	assert.Equal(t, time.Duration(0), e.TimeToNextBeat(t0.Add(700*ms)))
	assert.Equal(t, time.Duration(0), e.TimeSincePriorBeat(t0.Add(-5*ms)))
	assert.Equal(t, 0.5, e.Phase(t0.Add(250*ms)))
	assert.Equal(t, 0.0, e.Intensity(t0.Add(250*ms)))
	assert.Equal(t, 1.0, e.Intensity(t0))
	assert.True(t, e.InPowerWindow(t0.Add(30*ms)))
	assert.False(t, e.InPowerWindow(t0.Add(130*ms)))
}

func TestEngineDebugInfo(t *testing.T) {
	e, src, clock := newTestEngine()
	src.fire(2, false)
	e.RegisterAction(clock.Now())

	info := e.DebugInfo(clock.Now().Add(125 * ms))
	assert.True(t, info.Active)
	assert.Equal(t, 2, info.BeatIndex)
	assert.Equal(t, 500*ms, info.Interval)
	assert.Equal(t, 125*ms, info.SinceBeat)
	assert.Equal(t, 375*ms, info.ToNextBeat)
	assert.Equal(t, 0.25, info.Phase)
	assert.Equal(t, 0.5, info.Intensity)
	assert.Equal(t, 1, info.Combo)
	assert.Equal(t, 1.0, info.ComboMultiplier)
	assert.Equal(t, 100.0, info.Accuracy)
}

func TestEnginesAreIndependent(t *testing.T) {
	a, srcA, clock := newTestEngine()
	b, srcB, _ := newTestEngine()
	srcA.fire(1, false)
	srcB.fire(1, false)

	a.RegisterAction(clock.Now())
	a.RegisterAction(clock.Now())
	assert.Equal(t, 2, a.Combo())
	assert.Equal(t, 0, b.Combo())
	assert.Equal(t, 0, b.Stats().TotalHits)
}

func TestEngineCustomJudgements(t *testing.T) {
	js := game.WithWindows(10*ms, 20*ms, 30*ms)
	e, src, clock := newTestEngine(WithJudgements(js))
	src.fire(1, false)
	assert.Equal(t, game.GradeMiss, e.Judge(clock.Now().Add(40*ms)).Grade)
	assert.Equal(t, game.GradeGood, e.Judge(clock.Now().Add(15*ms)).Grade)
}
