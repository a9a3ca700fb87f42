package ui

import (
	"fmt"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorMuted   = 245 // medium gray
	colorQueued  = 250 // light gray
	colorRunning = 214 // orange
	colorDone    = 114 // green
	colorError   = 203 // red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderStatus returns a submission status colored by lifecycle state.
func RenderStatus(s model.Status) string {
	if noColor {
		return s.String()
	}
	var color int
	switch s {
	case model.StatusQueued:
		color = colorQueued
	case model.StatusRunning:
		color = colorRunning
	case model.StatusDone:
		color = colorDone
	case model.StatusError:
		color = colorError
	default:
		return s.String()
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
