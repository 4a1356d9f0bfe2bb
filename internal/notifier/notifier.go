package notifier

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MrSnakeDoc/hassglue/internal/printer"
	"github.com/MrSnakeDoc/hassglue/internal/update"
	"github.com/MrSnakeDoc/hassglue/internal/utils"
)

const (
	borderColor = "\033[38;5;39m"
	resetColor  = "\033[0m"
	padding     = 2
)

// DisplayUpdateNotification prints a boxed summary of pending updates to
// stdout. Nothing is printed when everything is up to date.
func DisplayUpdateNotification(facades []update.Facade) {
	Render(os.Stdout, facades)
}

// Render writes the notification box to w and reports whether it wrote one.
func Render(w io.Writer, facades []update.Facade) bool {
	var pending []update.Facade
	for _, f := range facades {
		if f.UpdateAvailable() {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		return false
	}

	p := printer.NewColorPrinter()

	lines := []string{p.Success("%d update(s) available", len(pending)), ""}
	for _, f := range pending {
		lines = append(lines, fmt.Sprintf("%s %s -> %s",
			p.Info("%s:", f.Title()), p.Error("%s", f.CurrentVersion()), p.Success("%s", f.LatestVersion())))
	}
	lines = append(lines, "", fmt.Sprintf("%s%s%s",
		p.Warning("Run "), p.Success("hassglue install <id>"), p.Warning(" or --all to update.")))

	maxWidth := utils.GetMaxWidth(lines) + padding*2
	sideBorder := borderColor + "│" + resetColor

	_, _ = fmt.Fprintln(w, borderColor+"╭"+strings.Repeat("─", maxWidth)+"╮"+resetColor)
	for _, line := range lines {
		width := len([]rune(utils.StripANSI(line)))
		paddingLeft := (maxWidth - width) / 2
		paddingRight := maxWidth - width - paddingLeft
		_, _ = fmt.Fprintf(w, "%s%s%s%s%s\n", sideBorder, strings.Repeat(" ", paddingLeft), line, strings.Repeat(" ", paddingRight), sideBorder)
	}
	_, _ = fmt.Fprintln(w, borderColor+"╰"+strings.Repeat("─", maxWidth)+"╯"+resetColor)
	return true
}
