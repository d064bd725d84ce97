package main

import (
	"context"

	"git.lost.host/meutraa/badlands/internal/input"
	"github.com/eiannone/keyboard"
	"go.uber.org/zap"
)

// openInput reads the evdev device when one is given, the terminal otherwise.
// The terminal is still opened so key presses do not echo.
func openInput(ctx context.Context, device string, log *zap.Logger) (<-chan press, error) {
	presses, err := keyboardPresses(ctx)
	if nil != err || device == "" {
		return presses, err
	}

	events := make(chan *input.Event, 128)
	if err := input.ReadInput(ctx, device, events, log); nil != err {
		keyboard.Close()
		return nil, err
	}
	log.Info("reading keys from device", zap.String("device", device))
	return devicePresses(ctx, events, presses), nil
}

// devicePresses forwards device keys. Only quit is taken from the terminal,
// so a wrong device can still be left.
func devicePresses(ctx context.Context, events <-chan *input.Event, terminal <-chan press) <-chan press {
	out := make(chan press, 128)
	send := func(p press) bool {
		select {
		case out <- p:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(out)
		for nil != events || nil != terminal {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if cmd, ok := deviceCommand(ev); ok && !send(press{cmd: cmd, at: ev.Time}) {
					return
				}
			case p, ok := <-terminal:
				if !ok {
					terminal = nil
					continue
				}
				if p.cmd == cmdQuit && !send(p) {
					return
				}
			}
		}
	}()
	return out
}

func deviceCommand(ev *input.Event) (command, bool) {
	if !ev.Pressed {
		return 0, false
	}
	switch ev.Code {
	case input.KeyEsc:
		return cmdQuit, true
	case input.KeySpace, input.KeyJ, input.KeyK:
		return cmdAct, true
	case input.KeyB:
		return cmdHit, true
	}
	return 0, false
}

