package printer

import (
	"github.com/fatih/color"
)

type ColorPrinter struct {
	Success func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Info    func(format string, a ...interface{}) string
	Debug   func(format string, a ...interface{}) string
	Muted   func(format string, a ...interface{}) string
	Bold    func(format string, a ...interface{}) string
}

func NewColorPrinter() *ColorPrinter {
	return &ColorPrinter{
		Success: color.New(color.FgGreen).SprintfFunc(),
		Error:   color.New(color.FgRed).SprintfFunc(),
		Warning: color.New(color.FgYellow).SprintfFunc(),
		Info:    color.New(color.FgBlue).SprintfFunc(),
		Debug:   color.New(color.FgCyan).SprintfFunc(),
		Muted:   color.New(color.FgHiBlack).SprintfFunc(),
		Bold:    color.New(color.Bold).SprintfFunc(),
	}
}

// Plain returns a printer that never emits ANSI sequences (JSON logs, tests).
func Plain() *ColorPrinter {
	plain := func(format string, a ...interface{}) string {
		c := color.New()
		c.DisableColor()
		return c.Sprintf(format, a...)
	}
	return &ColorPrinter{
		Success: plain,
		Error:   plain,
		Warning: plain,
		Info:    plain,
		Debug:   plain,
		Muted:   plain,
		Bold:    plain,
	}
}
