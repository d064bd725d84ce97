package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/badlands/internal/audio"
	"git.lost.host/meutraa/badlands/internal/beat"
	"git.lost.host/meutraa/badlands/internal/character"
	"git.lost.host/meutraa/badlands/internal/config"
	"git.lost.host/meutraa/badlands/internal/game"
	"git.lost.host/meutraa/badlands/internal/logging"
	"git.lost.host/meutraa/badlands/internal/parser"
	"git.lost.host/meutraa/badlands/internal/render"
	"git.lost.host/meutraa/badlands/internal/rhythm"
	"git.lost.host/meutraa/badlands/internal/score"
	"git.lost.host/meutraa/badlands/internal/theme"
	"github.com/eiannone/keyboard"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

// findSong walks dir for a simfile and an audio file
func findSong(dir string, psr parser.Parser) (*game.Song, string, error) {
	var audioFile, chartFile string
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".mp3", ".ogg":
			audioFile = p
		case ".sm":
			chartFile = p
		}
		return nil
	}); nil != err {
		return nil, "", fmt.Errorf("unable to walk song directory: %w", err)
	}

	if chartFile == "" {
		return nil, "", errors.New("unable to find .sm file in given directory")
	}
	song, err := psr.Parse(chartFile)
	if nil != err {
		return nil, "", err
	}
	if song.Music != "" {
		if p := filepath.Join(filepath.Dir(chartFile), song.Music); fileExists(p) {
			audioFile = p
		}
	}
	return song, audioFile, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return nil == err && !info.IsDir()
}

func metronomeSong(bpm float64) *game.Song {
	return &game.Song{
		Title:     fmt.Sprintf("Metronome %v BPM", bpm),
		Tempo:     game.ConstantTempo(bpm),
		Signature: fmt.Sprintf("BPMS:0=%v;", bpm),
	}
}

// keyboardPresses stamps terminal key presses as they arrive
func keyboardPresses(ctx context.Context) (<-chan press, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	presses := make(chan press, 128)
	go func() {
		defer close(presses)
		for {
			select {
			case <-ctx.Done():
				return
			case key, ok := <-keys:
				if !ok {
					return
				}
				at := time.Now()
				if nil != key.Err {
					continue
				}
				cmd, ok := keyCommand(key)
				if !ok {
					continue
				}
				select {
				case presses <- press{cmd: cmd, at: at}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return presses, nil
}

func keyCommand(key keyboard.KeyEvent) (command, bool) {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return cmdQuit, true
	case keyboard.KeySpace:
		return cmdAct, true
	}
	switch key.Rune {
	case 'j', 'k', 'f', 'd':
		return cmdAct, true
	case 'b':
		return cmdHit, true
	case 'q':
		return cmdQuit, true
	}
	return 0, false
}

func run(args []string) error {
	c, err := config.New().Parse(args)
	if nil != err {
		return err
	}

	logger, err := logging.New(c.LogLevel, c.LogFile)
	if nil != err {
		return err
	}
	defer logger.Sync()

	classes := character.Default()
	if c.ClassFile != "" {
		if classes, err = character.Load(c.ClassFile); nil != err {
			return err
		}
	}
	class := character.ID(c.Class)
	if !classes.Has(class) {
		logger.Warn("unknown class, playing as warrior",
			zap.String("class", c.Class),
			zap.Any("classes", classes.IDs()),
		)
	}

	song, audioFile := metronomeSong(c.BPM), ""
	if c.Directory != "" {
		if song, audioFile, err = findSong(c.Directory, &parser.DefaultParser{}); nil != err {
			return err
		}
	}
	logger.Info("song", zap.String("title", song.Title), zap.Float64("bpm", song.Tempo.BPMAt(0)))

	var sfx rhythm.SfxPlayer = audio.Silent{}
	var sound *audio.SoundManager
	if !c.Mute {
		sound = audio.NewSoundManager(logger)
		if err := sound.Init(); nil != err {
			logger.Warn("audio disabled", zap.Error(err))
			sound = nil
		} else {
			sfx = sound
			defer sound.Close()
		}
	}

	scorer := &score.DefaultScorer{Log: logger}
	if err := scorer.Init(c.Database); nil != err {
		return err
	}
	defer scorer.Deinit()

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presses, err := openInput(ctx, c.Device, logger)
	if nil != err {
		return err
	}
	defer keyboard.Close()

	metronome := beat.New(song.Tempo, c.BeatsPerBar, beat.WithLogger(logger))
	engine := rhythm.New(metronome,
		rhythm.WithSfx(sfx),
		rhythm.WithLogger(logger),
		rhythm.WithJudgements(c.Judgements),
	)

	r := render.NewDefaultRenderer()
	p := &Program{
		Engine:   engine,
		Classes:  classes,
		Class:    class,
		Roll:     character.NewRoll(seed),
		Theme:    &theme.DefaultTheme{},
		Renderer: r,
		Sfx:      sfx,
		Song:     song,
		Offset:   c.Offset,
		Log:      logger,
	}
	p.Init(c.BeatsPerBar)

	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to prepare terminal: %w", err)
	}

	started := false
	r.RenderLoop(c.Delay, c.FramePeriod, func(now time.Time, duration time.Duration) bool {
		if !started && duration >= 0 {
			started = true
			engine.Start()
			metronome.Start()
			go metronome.Run(ctx, c.Resolution)
			if nil != sound && audioFile != "" {
				if err := sound.PlayTrack(audioFile, 1); nil != err {
					logger.Warn("unable to play track", zap.Error(err))
				}
			}
		}

		for i := len(presses); i > 0; i-- {
			in, ok := <-presses
			if !ok {
				return false
			}
			if in.cmd != cmdQuit && !started {
				continue
			}
			if !p.Handle(in) {
				return false
			}
		}

		p.Render(now)
		return true
	})

	engine.Stop()
	metronome.Stop()
	cancel()
	if err := r.Deinit(); nil != err {
		logger.Warn("unable to restore terminal", zap.Error(err))
	}

	stats := engine.Stats()
	sum := score.HashTempo(song.Signature)
	var best *game.Stats
	if prev, err := scorer.Best(context.Background(), sum); nil != err {
		logger.Warn("unable to load best run", zap.Error(err))
	} else if nil != prev {
		best = &prev.Stats
	}
	if stats.TotalHits > 0 {
		if err := scorer.Save(context.Background(), &score.Run{
			Sum:   sum,
			Class: string(class),
			BPM:   song.Tempo.BPMAt(0),
			Stats: stats,
		}); nil != err {
			logger.Error("unable to save run", zap.Error(err))
		}
	}

	fmt.Print(p.Summary(stats, best))
	return nil
}
