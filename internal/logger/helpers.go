package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent/-s
	FlagJSON         bool // --json, for running under a process supervisor
)

func ConfigureLoggerFromFlags() {
	var w io.Writer = os.Stdout
	level := "info"
	switch {
	case FlagSilent:
		level = "error"
		w = io.Discard
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	}

	if env := os.Getenv("HASSGLUE_LOG_LEVEL"); env != "" && !FlagQuiet && !FlagSilent {
		level = env
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   w,
	})
}
