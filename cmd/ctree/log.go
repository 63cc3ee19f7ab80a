package main

import (
	"io"
	"log/slog"
	"os"
)

// theLog reports batch progress on stderr, keeping stdout for the trees.
var theLog = newLog(os.Stderr, slog.LevelInfo)

func newLog(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: dropTimeAndInfo,
	}))
}

func dropTimeAndInfo(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		return slog.Attr{}
	case a.Key == slog.LevelKey && a.Value.String() == "INFO":
		return slog.Attr{}
	}
	return a
}
