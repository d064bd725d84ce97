package game

import "time"

// TimingResult is the judgement of a single moment against the beat grid
type TimingResult struct {
	Grade      Grade
	Multiplier float64
	Offset     time.Duration // Distance to the nearer beat edge, never negative
	Delta      time.Duration // Signed, negative when ahead of the beat
}

func (r TimingResult) OffsetMs() float64 {
	return float64(r.Offset) / float64(time.Millisecond)
}

// Action is the outcome of a registered player action
type Action struct {
	TimingResult
	ComboMultiplier float64
	TotalMultiplier float64
	Combo           int
}

type Stats struct {
	PerfectHits int
	TotalHits   int
	Accuracy    float64 // Percentage of perfect hits
	MaxCombo    int
	Counts      [GradeCount]int

	// Signed timing error of non-miss hits
	Mean, StdDev time.Duration
}

// DebugInfo is a snapshot for on-screen diagnostics
type DebugInfo struct {
	Active          bool
	BeatIndex       int
	Interval        time.Duration
	SinceBeat       time.Duration
	ToNextBeat      time.Duration
	Phase           float64
	Intensity       float64
	Combo           int
	MaxCombo        int
	ComboMultiplier float64
	PerfectHits     int
	TotalHits       int
	Accuracy        float64
}
