package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

const toneAmplitude = 0.3

// tone is a decaying sine, optionally sweeping in pitch
type tone struct {
	sr      beep.SampleRate
	freq    float64 // Start frequency in Hz
	sweep   float64 // Hz per second
	decay   float64 // Envelope time constant in seconds
	pos     int
	samples int
}

func newTone(sr beep.SampleRate, freq, sweep float64, length time.Duration, decay time.Duration) *tone {
	return &tone{
		sr:      sr,
		freq:    freq,
		sweep:   sweep,
		decay:   decay.Seconds(),
		samples: sr.N(length),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.samples {
			return i, i > 0
		}
		sec := float64(t.pos) / float64(t.sr)
		phase := 2 * math.Pi * (t.freq*sec + 0.5*t.sweep*sec*sec)
		v := toneAmplitude * math.Sin(phase) * math.Exp(-sec/t.decay)
		samples[i][0], samples[i][1] = v, v
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error {
	return nil
}
