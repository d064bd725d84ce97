package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(delay, framePeriod time.Duration, render func(now time.Time, duration time.Duration) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
}
