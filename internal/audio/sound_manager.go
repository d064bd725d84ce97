// Package audio plays the feedback cues of the rhythm engine and an
// optional backing track.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.lost.host/meutraa/badlands/internal/rhythm"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"go.uber.org/zap"
)

const (
	SampleRate = beep.SampleRate(44100)

	CueClick    = "click"
	CueDownbeat = "downbeat"
	CueBreak    = "break"
)

type cue struct {
	freq   float64
	sweep  float64
	length time.Duration
	decay  time.Duration
}

var cues = map[string]cue{
	rhythm.CueHit:       {freq: 880, length: 120 * time.Millisecond, decay: 40 * time.Millisecond},
	rhythm.CueMilestone: {freq: 660, sweep: 1800, length: 350 * time.Millisecond, decay: 150 * time.Millisecond},
	CueClick:            {freq: 1000, length: 30 * time.Millisecond, decay: 8 * time.Millisecond},
	CueDownbeat:         {freq: 1500, length: 45 * time.Millisecond, decay: 12 * time.Millisecond},
	CueBreak:            {freq: 140, sweep: -160, length: 250 * time.Millisecond, decay: 120 * time.Millisecond},
}

// SoundManager mixes cues and the backing track into the speaker
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	track       beep.StreamSeekCloser
	initialized bool
	log         *zap.Logger
}

func NewSoundManager(log *zap.Logger) *SoundManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SoundManager{
		mixer: &beep.Mixer{},
		log:   log,
	}
}

// Init opens the speaker and starts the mixer
func (sm *SoundManager) Init() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// PlaySfx queues a cue. Unknown cues and an uninitialized speaker are ignored.
func (sm *SoundManager) PlaySfx(name string, volume float64) {
	s := streamer(name, volume)
	if s == nil {
		sm.log.Debug("unknown cue", zap.String("cue", name))
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func streamer(name string, volume float64) beep.Streamer {
	c, ok := cues[name]
	if !ok {
		return nil
	}
	return withVolume(newTone(SampleRate, c.freq, c.sweep, c.length, c.decay), volume)
}

func withVolume(s beep.Streamer, volume float64) *effects.Volume {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	if volume > 1 {
		volume = 1
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}
}

// PlayTrack decodes an mp3 or ogg file and mixes it in
func (sm *SoundManager) PlayTrack(path string, volume float64) error {
	f, err := os.Open(path)
	if nil != err {
		return err
	}
	s, format, err := decodeTrack(f, filepath.Ext(path))
	if nil != err {
		return fmt.Errorf("unable to decode %v: %w", path, err)
	}

	var out beep.Streamer = s
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, s)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		s.Close()
		return nil
	}
	if sm.track != nil {
		sm.track.Close()
	}
	sm.track = s
	speaker.Lock()
	sm.mixer.Add(withVolume(out, volume))
	speaker.Unlock()

	sm.log.Info("playing track", zap.String("path", path), zap.Int("sample_rate", int(format.SampleRate)))
	return nil
}

// decodeTrack closes rc when it cannot be decoded
func decodeTrack(rc io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	var s beep.StreamSeekCloser
	var format beep.Format
	var err error
	switch strings.ToLower(ext) {
	case ".ogg":
		s, format, err = vorbis.Decode(rc)
	case ".mp3":
		s, format, err = mp3.Decode(rc)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if nil != err {
		rc.Close()
		return nil, beep.Format{}, err
	}
	return s, format, nil
}

// Close silences everything
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	if sm.track != nil {
		sm.track.Close()
		sm.track = nil
	}
	sm.initialized = false
}

// Silent is used when audio is muted
type Silent struct{}

func (Silent) PlaySfx(string, float64) {}
