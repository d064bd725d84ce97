//go:build !linux

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

func openInput(ctx context.Context, device string, log *zap.Logger) (<-chan press, error) {
	if device != "" {
		return nil, errors.New("evdev input is only available on linux")
	}
	return keyboardPresses(ctx)
}
