//go:build linux

// Package input reads raw keyboard events from a Linux evdev device, which
// carry the kernel timestamp of each key press.
package input

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// From linux/input-event-codes.h
const (
	evKey = 0x01

	KeyEsc   = 1
	KeyB     = 48
	KeyJ     = 36
	KeyK     = 37
	KeySpace = 57
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type Event struct {
	Pressed  bool
	Released bool
	//https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
	Code uint16
	Time time.Time
}

// ReadInput streams key events from the device until ctx is done or the
// device fails. The events channel is closed when reading stops.
func ReadInput(ctx context.Context, kbd string, events chan<- *Event, log *zap.Logger) error {
	file, err := os.Open(kbd)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		file.Close()
	}()
	go func() {
		defer close(events)
		if err := decode(ctx, file, events); nil != err && ctx.Err() == nil {
			log.Warn("unable to read keyboard input", zap.String("device", kbd), zap.Error(err))
		}
	}()
	return nil
}

// decode stops when r ends or ctx is done
func decode(ctx context.Context, r io.Reader, events chan<- *Event) error {
	var ev keyEvent
	for {
		err := binary.Read(r, binary.LittleEndian, &ev)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if nil != err {
			return err
		}
		if ev.Type != evKey {
			continue
		}
		select {
		case events <- &Event{
			Pressed:  ev.Value == 1,
			Released: ev.Value == 0,
			Code:     ev.Code,
			Time:     time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000),
		}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
