//go:build linux

package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, evs ...keyEvent) *bytes.Buffer {
	buf := &bytes.Buffer{}
	for _, ev := range evs {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, ev))
	}
	return buf
}

func TestDecode(t *testing.T) {
	buf := encode(t,
		keyEvent{Time: syscall.Timeval{Sec: 10, Usec: 500}, Type: evKey, Code: KeySpace, Value: 1},
		keyEvent{Time: syscall.Timeval{Sec: 10, Usec: 600}, Type: 0x04, Code: 4, Value: 57}, // scan code, skipped
		keyEvent{Time: syscall.Timeval{Sec: 10, Usec: 900}, Type: evKey, Code: KeySpace, Value: 0},
		keyEvent{Time: syscall.Timeval{Sec: 11}, Type: evKey, Code: KeyB, Value: 2}, // autorepeat
	)

	events := make(chan *Event, 8)
	require.NoError(t, decode(context.Background(), buf, events))
	close(events)

	got := []*Event{}
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	assert.True(t, got[0].Pressed)
	assert.Equal(t, uint16(KeySpace), got[0].Code)
	assert.Equal(t, time.Unix(10, 500000), got[0].Time)
	assert.True(t, got[1].Released)
	assert.False(t, got[2].Pressed)
	assert.False(t, got[2].Released)
}

func TestDecodeTruncated(t *testing.T) {
	buf := encode(t, keyEvent{Type: evKey, Code: KeyJ, Value: 1})
	buf.Truncate(buf.Len() - 3)
	assert.Error(t, decode(context.Background(), buf, make(chan *Event, 1)))
}

func TestDecodeStopsWhenCancelled(t *testing.T) {
	buf := encode(t,
		keyEvent{Type: evKey, Code: KeyJ, Value: 1},
		keyEvent{Type: evKey, Code: KeyK, Value: 1},
	)
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan *Event) // nobody reads

	done := make(chan error, 1)
	go func() { done <- decode(ctx, buf, events) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("decode blocked after cancel")
	}
}
