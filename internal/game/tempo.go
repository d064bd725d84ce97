package game

import "time"

type BPM struct {
	StartingBeat float64
	Value        float64
}

// TempoMap describes where beats fall for a song
type TempoMap struct {
	Offset time.Duration // Time of beat 0
	BPMs   []BPM         // Sorted by StartingBeat
}

// ConstantTempo is a tempo map with a single BPM from beat 0
func ConstantTempo(bpm float64) TempoMap {
	return TempoMap{BPMs: []BPM{{StartingBeat: 0, Value: bpm}}}
}

// BPMAt returns the tempo in effect at the given beat, 0 if none
func (t TempoMap) BPMAt(beat float64) float64 {
	sel := 0.0
	for _, bpm := range t.BPMs {
		if beat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	return sel
}

// IntervalAt returns the length of the beat starting at the given beat index
func (t TempoMap) IntervalAt(beat int) time.Duration {
	bpm := t.BPMAt(float64(beat))
	if bpm <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / bpm)
}

type Song struct {
	Title     string
	Artist    string
	Music     string // Audio file name relative to the simfile
	Tempo     TempoMap
	Signature string // Raw tempo section, used to key stored runs
}
