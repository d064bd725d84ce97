package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Grade is a discrete timing-accuracy bucket, best first
type Grade int

const (
	GradePerfect Grade = iota
	GradeGood
	GradeOk
	GradeMiss
	GradeCount
)

func (g Grade) String() string {
	names := [...]string{"PERFECT", "GOOD", "OK", "MISS"}
	if g >= 0 && int(g) < len(names) {
		return names[g]
	}
	return "UNKNOWN"
}

// ParseGrade accepts the names produced by String, case insensitive
func ParseGrade(s string) (Grade, error) {
	for g := GradePerfect; g < GradeCount; g++ {
		if strings.EqualFold(s, g.String()) {
			return g, nil
		}
	}
	return GradeMiss, fmt.Errorf("unknown grade %q", s)
}

type Judgement struct {
	Grade      Grade
	Time       time.Duration // Radius of the window around a beat edge
	Multiplier float64
	Name       string
}

func DefaultJudgements() []Judgement {
	return []Judgement{
		{Grade: GradePerfect, Time: 50 * time.Millisecond, Multiplier: 2.0, Name: "Perfect"},
		{Grade: GradeGood, Time: 100 * time.Millisecond, Multiplier: 1.5, Name: "Good"},
		{Grade: GradeOk, Time: 150 * time.Millisecond, Multiplier: 1.2, Name: "Ok"},
		{Grade: GradeMiss, Time: -1, Multiplier: 1.0, Name: "Miss"},
	}
}

// WithWindows copies the default table with the three window radii replaced
func WithWindows(perfect, good, ok time.Duration) []Judgement {
	js := DefaultJudgements()
	js[GradePerfect].Time = perfect
	js[GradeGood].Time = good
	js[GradeOk].Time = ok
	return js
}

// ValidateJudgements checks the table is ordered best first, ends with a
// miss entry and that every window is wider than the one before it.
func ValidateJudgements(js []Judgement) error {
	if len(js) < 2 {
		return errors.New("judgement table needs at least one window and a miss entry")
	}
	if js[len(js)-1].Grade != GradeMiss {
		return errors.New("last judgement must be a miss")
	}
	prev := time.Duration(0)
	for _, j := range js[:len(js)-1] {
		if j.Time <= prev {
			return fmt.Errorf("%v window %v must be wider than %v", j.Grade, j.Time, prev)
		}
		prev = j.Time
	}
	return nil
}

// Lookup returns the tightest window containing offset. Boundaries belong to
// the tighter window. Anything outside every window is the trailing miss.
func Lookup(js []Judgement, offset time.Duration) Judgement {
	if offset < 0 {
		offset = -offset
	}
	for i := 0; i < len(js)-1; i++ {
		if offset <= js[i].Time {
			return js[i]
		}
	}
	return js[len(js)-1]
}
