package config

import (
	"testing"
	"time"

	"git.lost.host/meutraa/badlands/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := New().Parse([]string{})
	require.NoError(t, err)

	assert.Equal(t, 120.0, c.BPM)
	assert.Equal(t, 4, c.BeatsPerBar)
	assert.Equal(t, "warrior", c.Class)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 1500*time.Millisecond, c.Delay)
	assert.Equal(t, game.DefaultJudgements(), c.Judgements)
	assert.Empty(t, c.Directory)
}

func TestFlags(t *testing.T) {
	dir := t.TempDir()
	c, err := New().Parse([]string{
		dir, "--bpm", "90", "-c", "rogue", "--perfect", "30ms", "--good", "60ms", "--ok", "90ms",
		"--mute", "--seed", "42", "--log-level", "debug", "--offset=-15ms",
	})
	require.NoError(t, err)

	assert.Equal(t, dir, c.Directory)
	assert.Equal(t, 90.0, c.BPM)
	assert.Equal(t, "rogue", c.Class)
	assert.True(t, c.Mute)
	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, -15*time.Millisecond, c.Offset)
	assert.Equal(t, 30*time.Millisecond, c.Judgements[game.GradePerfect].Time)
	assert.Equal(t, 90*time.Millisecond, c.Judgements[game.GradeOk].Time)
}

var invalidArgs = [][]string{
	{"--bpm", "0"},
	{"--bpm", "-60"},
	{"--beats-per-bar", "0"},
	{"--perfect", "120ms"},
	{"--good", "150ms"},
	{"--perfect", "0s"},
	{"--frame-period", "0s"},
	{"--log-level", "loud"},
	{"/definitely/not/a/dir"},
}

func TestInvalid(t *testing.T) {
	for _, args := range invalidArgs {
		if _, err := New().Parse(args); err == nil {
			t.Log("args", args)
			t.Fail()
		}
	}
}

func TestClassHelpListsArchetypes(t *testing.T) {
	assert.Equal(t, []string{"mage", "rogue", "warrior"}, classNames())

	var help string
	for _, f := range New().Model().Flags {
		if f.Name == "class" {
			help = f.Help
		}
	}
	assert.Contains(t, help, "mage, rogue, warrior")
}
