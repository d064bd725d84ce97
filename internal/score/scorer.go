package score

import (
	"context"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save a finished run
	Save(ctx context.Context, run *Run) error

	// Load previous runs for a tempo signature, newest first
	Load(ctx context.Context, sum string) ([]Run, error)

	// Best run for a tempo signature by max combo then accuracy, nil if none
	Best(ctx context.Context, sum string) (*Run, error)
}

type Run struct {
	ID        string
	Sum       string // Hash of the tempo the run was played against
	Class     string
	BPM       float64
	Stats     game.Stats
	CreatedAt time.Time
}
