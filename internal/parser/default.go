package parser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
)

// DefaultParser reads the header of StepMania .sm simfiles. Only the tempo
// related tags are used; note data is ignored.
type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Song, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	song, err := p.ParseBytes(data)
	if nil != err {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return song, nil
}

func (p *DefaultParser) ParseBytes(data []byte) (*game.Song, error) {
	str := strings.ReplaceAll(string(data), "\r", "")
	meta := strings.SplitN(str, "#NOTES:", 2)[0]

	song := &game.Song{}
	haveBPMs := false

	for _, mdl := range strings.Split("\n"+meta, "\n#") {
		mdl = strings.TrimSpace(mdl)
		tag, value, ok := strings.Cut(mdl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";"))

		switch strings.ToUpper(tag) {
		case "TITLE":
			song.Title = value
		case "ARTIST":
			song.Artist = value
		case "MUSIC":
			song.Music = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, fmt.Errorf("invalid offset %q: %w", value, err)
			}
			// A positive simfile offset means the first beat comes before the music
			song.Tempo.Offset = time.Duration(-offs * float64(time.Second))
			song.Signature += "OFFSET:" + value + ";"
		case "BPMS":
			bpms, err := parseBPMs(value)
			if nil != err {
				return nil, err
			}
			song.Tempo.BPMs = bpms
			song.Signature += "BPMS:" + value + ";"
			haveBPMs = true
		}
	}

	if !haveBPMs {
		return nil, errors.New("simfile has no #BPMS tag")
	}
	return song, nil
}

func parseBPMs(value string) ([]game.BPM, error) {
	value = strings.ReplaceAll(value, "\n", "")
	bpms := []game.BPM{}
	for _, bpm := range strings.Split(value, ",") {
		bpm = strings.TrimSpace(bpm)
		if bpm == "" {
			continue
		}
		as := strings.Split(bpm, "=")
		if len(as) != 2 {
			return nil, fmt.Errorf("invalid bpm entry %q", bpm)
		}
		sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, fmt.Errorf("invalid bpm beat %q: %w", as[0], err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, fmt.Errorf("invalid bpm value %q: %w", as[1], err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("bpm must be positive, got %v at beat %v", v, sb)
		}
		bpms = append(bpms, game.BPM{StartingBeat: sb, Value: v})
	}
	if len(bpms) == 0 {
		return nil, errors.New("empty #BPMS tag")
	}
	sort.SliceStable(bpms, func(i, j int) bool { return bpms[i].StartingBeat < bpms[j].StartingBeat })
	return bpms, nil
}
