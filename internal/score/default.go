package score

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type DefaultScorer struct {
	db  *sql.DB
	Log *zap.Logger
}

// CountsCompact stores grade counts by name so the table survives a
// reordering of grades
type CountsCompact map[string]int

func compactCounts(counts [game.GradeCount]int) CountsCompact {
	cc := CountsCompact{}
	for g, n := range counts {
		if n > 0 {
			cc[game.Grade(g).String()] = n
		}
	}
	return cc
}

func uncompactCounts(cc CountsCompact) [game.GradeCount]int {
	var counts [game.GradeCount]int
	for name, n := range cc {
		g, err := game.ParseGrade(name)
		if nil != err {
			continue
		}
		counts[g] = n
	}
	return counts
}

// HashTempo keys runs by the tempo section of a song
func HashTempo(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultScorer) Init(path string) error {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists runs
	  (
		  id text not null primary key,
		  sum text not null,
		  class text,
		  bpm real,
		  perfect integer,
		  total integer,
		  max_combo integer,
		  accuracy real,
		  mean_ns integer,
		  stdev_ns integer,
		  counts blob,
		  created_at integer
	  );
	create index if not exists runs_sum on runs(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func (s *DefaultScorer) Save(ctx context.Context, run *Run) error {
	if nil == s.db {
		return errors.New("score database not initialized")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	data, err := json.Marshal(compactCounts(run.Stats.Counts))
	if nil != err {
		return fmt.Errorf("unable to marshal grade counts: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`insert into runs(id, sum, class, bpm, perfect, total, max_combo, accuracy, mean_ns, stdev_ns, counts, created_at)
		 values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Sum, run.Class, run.BPM,
		run.Stats.PerfectHits, run.Stats.TotalHits, run.Stats.MaxCombo, run.Stats.Accuracy,
		int64(run.Stats.Mean), int64(run.Stats.StdDev),
		data, run.CreatedAt.UnixNano(),
	)
	if nil != err {
		return fmt.Errorf("unable to save run: %w", err)
	}
	s.Log.Info("run saved", zap.String("id", run.ID), zap.Int("max_combo", run.Stats.MaxCombo))
	return nil
}

const selectRuns = `select id, sum, class, bpm, perfect, total, max_combo, accuracy, mean_ns, stdev_ns, counts, created_at from runs where sum = ?`

func (s *DefaultScorer) Load(ctx context.Context, sum string) ([]Run, error) {
	if nil == s.db {
		return nil, errors.New("score database not initialized")
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" order by created_at desc", sum)
	if nil != err {
		return nil, fmt.Errorf("unable to load runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := s.scan(rows)
		if nil != err {
			s.Log.Warn("skipping unreadable run", zap.Error(err))
			continue
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *DefaultScorer) Best(ctx context.Context, sum string) (*Run, error) {
	if nil == s.db {
		return nil, errors.New("score database not initialized")
	}
	row := s.db.QueryRowContext(ctx, selectRuns+" order by max_combo desc, accuracy desc limit 1", sum)
	run, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *DefaultScorer) scan(row scanner) (*Run, error) {
	var run Run
	var counts []byte
	var mean, stdev, created int64
	err := row.Scan(
		&run.ID, &run.Sum, &run.Class, &run.BPM,
		&run.Stats.PerfectHits, &run.Stats.TotalHits, &run.Stats.MaxCombo, &run.Stats.Accuracy,
		&mean, &stdev, &counts, &created,
	)
	if nil != err {
		return nil, err
	}
	var cc CountsCompact
	if err := json.Unmarshal(counts, &cc); nil != err {
		return nil, fmt.Errorf("unable to unmarshal grade counts: %w", err)
	}
	run.Stats.Counts = uncompactCounts(cc)
	run.Stats.Mean = time.Duration(mean)
	run.Stats.StdDev = time.Duration(stdev)
	run.CreatedAt = time.Unix(0, created)
	return &run, nil
}
