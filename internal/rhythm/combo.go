package rhythm

import (
	"math"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
)

const (
	comboStep      = 5  // Combo hits per multiplier tier
	milestoneEvery = 10 // Combo hits between milestone cues
)

var comboTable = [...]float64{1, 1.2, 1.5, 2.0, 2.5, 3.0}

// ComboMultiplier steps up every five hits and saturates at the last tier
func ComboMultiplier(combo int) float64 {
	if combo < 0 {
		combo = 0
	}
	i := combo / comboStep
	if i > len(comboTable)-1 {
		i = len(comboTable) - 1
	}
	return comboTable[i]
}

// Combo accumulates consecutive non-miss judgements and run statistics.
// The zero value is ready to use. It is not safe for concurrent use.
type Combo struct {
	current int
	max     int
	perfect int
	total   int
	counts  [game.GradeCount]int

	// Running sums of the signed error of non-miss hits, in nanoseconds
	hits       int
	sum, sumSq float64
}

// Register records a judgement and reports whether it reached a milestone
func (c *Combo) Register(r game.TimingResult) bool {
	c.total++
	if r.Grade >= 0 && r.Grade < game.GradeCount {
		c.counts[r.Grade]++
	}

	if r.Grade == game.GradeMiss {
		c.current = 0
		return false
	}

	c.current++
	if c.current > c.max {
		c.max = c.current
	}
	if r.Grade == game.GradePerfect {
		c.perfect++
	}

	d := float64(r.Delta)
	c.hits++
	c.sum += d
	c.sumSq += d * d

	return c.current%milestoneEvery == 0
}

func (c *Combo) Break() {
	c.current = 0
}

func (c *Combo) Reset() {
	*c = Combo{}
}

func (c *Combo) Current() int {
	return c.current
}

func (c *Combo) Stats() game.Stats {
	s := game.Stats{
		PerfectHits: c.perfect,
		TotalHits:   c.total,
		MaxCombo:    c.max,
		Counts:      c.counts,
	}
	if c.total > 0 {
		s.Accuracy = float64(c.perfect) / float64(c.total) * 100
	}
	if c.hits > 0 {
		n := float64(c.hits)
		mean := c.sum / n
		s.Mean = time.Duration(math.Round(mean))
		if c.hits > 1 {
			variance := (c.sumSq - n*mean*mean) / (n - 1)
			if variance > 0 {
				s.StdDev = time.Duration(math.Round(math.Sqrt(variance)))
			}
		}
	}
	return s
}
