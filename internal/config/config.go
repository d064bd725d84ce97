// Package config parses the command line of the badlands binary.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"git.lost.host/meutraa/badlands/internal/character"
	"git.lost.host/meutraa/badlands/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	Directory   string // Optional song directory with a .sm simfile and audio
	BPM         float64
	BeatsPerBar int
	Offset      time.Duration // Global input offset, added to every key press
	Delay       time.Duration
	Class       string
	ClassFile   string
	Database    string
	FramePeriod time.Duration
	Resolution  time.Duration // Metronome tick resolution
	Seed        int64
	Mute        bool
	Device      string
	LogLevel    string
	LogFile     string

	Perfect, Good, Ok time.Duration
	Judgements        []game.Judgement
}

type Application struct {
	*kingpin.Application
	Config *Config
}

func New() *Application {
	c := &Config{}
	app := kingpin.New("badlands", "Rhythm combat practice range")
	app.Version(Version)
	app.HelpFlag.Short('h')

	app.Arg("directory", "Song directory containing a .sm simfile").ExistingDirVar(&c.Directory)
	app.Flag("bpm", "Metronome tempo when no song is given").Default("120").Short('b').Float64Var(&c.BPM)
	app.Flag("beats-per-bar", "Beats per bar, the first is the downbeat").Default("4").IntVar(&c.BeatsPerBar)
	app.Flag("offset", "Global input offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	classes := classNames()
	app.Flag("class", "Character archetype, one of "+strings.Join(classes, ", ")+" or one added by --classes").
		Default(string(character.Warrior)).Short('c').HintOptions(classes...).StringVar(&c.Class)
	app.Flag("classes", "YAML file overriding archetype tables").ExistingFileVar(&c.ClassFile)
	app.Flag("db", "Score database").Default("./scores.db").StringVar(&c.Database)
	app.Flag("frame-period", "Render frame period").Default("8ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("resolution", "Metronome tick resolution").Default("1ms").DurationVar(&c.Resolution)
	app.Flag("seed", "Seed for critical hits, 0 picks one from the clock").Default("0").Int64Var(&c.Seed)
	app.Flag("mute", "Disable audio").Short('m').BoolVar(&c.Mute)
	app.Flag("device", "Read keys from this evdev device for kernel timestamps").StringVar(&c.Device)
	app.Flag("perfect", "Perfect window radius").Default("50ms").DurationVar(&c.Perfect)
	app.Flag("good", "Good window radius").Default("100ms").DurationVar(&c.Good)
	app.Flag("ok", "Ok window radius").Default("150ms").DurationVar(&c.Ok)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&c.LogLevel, "debug", "info", "warn", "error")
	app.Flag("log-file", "Log file, the terminal is used for rendering").Default("./badlands.log").StringVar(&c.LogFile)

	return &Application{Application: app, Config: c}
}

func classNames() []string {
	ids := character.Default().IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}

// Parse reads args and validates the result
func (a *Application) Parse(args []string) (*Config, error) {
	if _, err := a.Application.Parse(args); nil != err {
		return nil, err
	}
	if err := a.Config.validate(); nil != err {
		return nil, err
	}
	return a.Config, nil
}

func (c *Config) validate() error {
	if c.BPM <= 0 {
		return fmt.Errorf("bpm must be positive, got %v", c.BPM)
	}
	if c.BeatsPerBar <= 0 {
		return fmt.Errorf("beats per bar must be positive, got %v", c.BeatsPerBar)
	}
	if c.FramePeriod <= 0 || c.Resolution <= 0 {
		return errors.New("frame period and resolution must be positive")
	}
	c.Judgements = game.WithWindows(c.Perfect, c.Good, c.Ok)
	if err := game.ValidateJudgements(c.Judgements); nil != err {
		return fmt.Errorf("invalid timing windows: %w", err)
	}
	return nil
}
