package rhythm

import (
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
)

// Judge grades a moment that lies elapsed after the last beat. The offset is
// the distance to whichever beat edge is nearer, the last one or the next.
func Judge(elapsed, interval time.Duration, judgements []game.Judgement) game.TimingResult {
	delta := signedOffset(elapsed, interval)
	offset := delta
	if offset < 0 {
		offset = -offset
	}
	j := game.Lookup(judgements, offset)
	return game.TimingResult{
		Grade:      j.Grade,
		Multiplier: j.Multiplier,
		Offset:     offset,
		Delta:      delta,
	}
}

// Positive when late for the last beat, negative when early for the next.
// Elapsed is placed on the running grid in both directions, so an overdue
// beat or an input stamped before its beat still lands between two edges.
func signedOffset(elapsed, interval time.Duration) time.Duration {
	if interval <= 0 {
		return elapsed
	}
	elapsed %= interval
	if elapsed < 0 {
		elapsed += interval
	}
	if toNext := interval - elapsed; toNext < elapsed {
		return -toNext
	}
	return elapsed
}

// PhaseOf returns the position within the current beat in [0, 1)
func PhaseOf(elapsed, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	e := elapsed % interval
	if e < 0 {
		e += interval
	}
	return float64(e) / float64(interval)
}

// Intensity is a triangle wave, 1 on the beat and 0 half way between beats
func Intensity(phase float64) float64 {
	if phase < 0.5 {
		return 1 - 2*phase
	}
	return 2 * (phase - 0.5)
}
