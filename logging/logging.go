/*
package logging controls how much diagnostic output formation writes and
installs the process-wide slog handler.
*/
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// Set once at start-up so that the logging mode doesn't need to be passed
// through every function in the project.
var (
	Mode Flag = Nil
)

func (f Flag) String() string {
	switch f {
	case Nil:
		return "nil"
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag converts a logging mode name into a Flag. The empty string is
// the Nil mode.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance", "perf":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("I don't recognize the logging mode '%s'.", s)
}

func (f Flag) level() slog.Level {
	switch f {
	case Performance:
		return slog.LevelInfo
	case Debug:
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Setup sets Mode and installs a text handler writing to w as the default
// slog logger.
func Setup(mode Flag, w io.Writer) *slog.Logger {
	Mode = mode
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: mode.level(),
	}))
	slog.SetDefault(logger)
	return logger
}

// Timer returns a function which logs the time elapsed since Timer was
// called, along with memory statistics. It only logs in Performance and
// Debug modes.
func Timer(name string) func() {
	if Mode == Nil {
		return func() {}
	}
	t0 := time.Now()
	return func() {
		slog.Info("finished", "step", name,
			"elapsed", time.Since(t0).Round(time.Millisecond),
			"mem", MemString())
	}
}

// MemString returns a string containing various statistics on the current
// memory usage of formation.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
