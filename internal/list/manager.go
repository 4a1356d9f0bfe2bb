package list

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/filesize"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/printer"
	"github.com/MrSnakeDoc/hassglue/internal/update"
	"github.com/MrSnakeDoc/hassglue/internal/utils"
)

var (
	fileHeaders   = []string{"ID", "File", "Size (MB)", "Bytes", "Modified"}
	updateHeaders = []string{"Entity", "Installed", "Latest", "Status", "Features"}
)

type Lister struct {
	*core.Base
	printer *printer.ColorPrinter
}

func New(base *core.Base) *Lister {
	return &Lister{Base: base, printer: printer.NewColorPrinter()}
}

// Files probes every monitored file and renders one row per sensor.
func (l *Lister) Files(ctx context.Context) error {
	if len(l.Sensors) == 0 {
		logger.Info("No files monitored. Add one with: hassglue files add <path>")
		return nil
	}
	l.ProbeFiles(ctx)
	return render(fileHeaders, l.fileRows())
}

// Updates refreshes Supervisor data, falling back to the last snapshot when
// the Supervisor is unreachable, and renders the update entities.
func (l *Lister) Updates(ctx context.Context, onlyPending bool) error {
	if err := l.Refresh(ctx); err != nil {
		logger.Warn("Supervisor unreachable, showing last known state: %v", err)
		if lerr := l.Load(ctx); lerr != nil {
			return fmt.Errorf("no cached state either: %w", lerr)
		}
	}
	rows := l.updateRows(onlyPending)
	if len(rows) == 0 {
		logger.Success("Everything is up to date")
		return nil
	}
	return render(updateHeaders, rows)
}

func (l *Lister) fileRows() [][]string {
	rows := make([][]string, 0, len(l.Sensors))
	for _, s := range l.Sensors {
		size, bytes, modified := "-", "-", "-"
		if res, ok := s.Last(); ok {
			bytes = utils.HumanSize(res.Bytes)
			modified = res.LastModified.Local().Format(time.DateTime)
			if mb, ok := res.Megabytes(); ok {
				size = fmt.Sprintf("%.2f", mb)
			}
		}
		if s.Err() != nil {
			size = l.printer.Error("✗ unreadable")
		}
		rows = append(rows, []string{shortID(s), s.Path(), size, bytes, modified})
	}
	return rows
}

func (l *Lister) updateRows(onlyPending bool) [][]string {
	var rows [][]string
	for _, f := range l.Base.Updates() {
		if onlyPending && !f.UpdateAvailable() {
			continue
		}
		rows = append(rows, []string{
			f.ID(),
			utils.OrDash(f.CurrentVersion()),
			utils.OrDash(f.LatestVersion()),
			l.status(f),
			f.SupportedFeatures().String(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

func (l *Lister) status(f update.Facade) string {
	switch {
	case f.LatestVersion() == "":
		return l.printer.Muted("unknown")
	case f.UpdateAvailable():
		return l.printer.Warning("⬆ update available")
	default:
		return l.printer.Success("✓ up to date")
	}
}

func shortID(s *filesize.Sensor) string {
	id := s.ID()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func render(headers []string, rows [][]string) error {
	table := logger.CreateTable(headers)
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}
