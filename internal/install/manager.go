package install

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/errs"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/prompter"
	"github.com/MrSnakeDoc/hassglue/internal/update"
)

var ErrAborted = errors.New("installation aborted")

type Options struct {
	IDs     []string
	All     bool
	Version string
	Backup  bool
}

type Installer struct {
	*core.Base
	Prompter prompter.Prompter
}

// New returns an installer. A nil prompter confirms everything.
func New(base *core.Base, p prompter.Prompter) *Installer {
	if p == nil {
		p = prompter.Yes{}
	}
	return &Installer{Base: base, Prompter: p}
}

// Execute refreshes the Supervisor state, resolves the targets and installs
// them one by one. A failing install does not stop the remaining ones; all
// failures are returned together.
func (i *Installer) Execute(ctx context.Context, opts Options) error {
	if len(opts.IDs) > 0 && opts.All {
		return errors.New(errs.Msg(errs.AllWithNamedEntity, opts.IDs[0]))
	}
	if len(opts.IDs) == 0 && !opts.All {
		return errors.New(errs.Msg(errs.ProvideEntityOrAll))
	}
	if opts.All && opts.Version != "" {
		return errors.New(errs.Msg(errs.VersionWithAll))
	}

	if err := i.Refresh(ctx); err != nil {
		return fmt.Errorf("can not reach the Supervisor: %w", err)
	}

	targets, err := i.resolve(opts)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logger.Success("Everything is up to date")
		return nil
	}

	if opts.All {
		ok, err := i.Prompter.Confirm(fmt.Sprintf("Install %d update(s)?", len(targets)))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			return ErrAborted
		}
	}

	var failed []error
	for _, f := range targets {
		warnUnsupported(f, opts)

		logger.Info("Updating %s to %s...", f.Title(), orLatest(opts.Version, f.LatestVersion()))
		if err := f.Install(ctx, opts.Version, opts.Backup); err != nil {
			var ie *update.InstallError
			if errors.As(err, &ie) {
				logger.LogError("%v", err)
			} else {
				logger.Warn("%v", err)
			}
			failed = append(failed, err)
			continue
		}
		logger.Success("%s updated to %s", f.Title(), orLatest(f.CurrentVersion(), opts.Version))
	}
	return errors.Join(failed...)
}

func (i *Installer) resolve(opts Options) ([]update.Facade, error) {
	if opts.All {
		var pending []update.Facade
		for _, f := range i.Updates() {
			if f.UpdateAvailable() {
				pending = append(pending, f)
			}
		}
		return pending, nil
	}

	targets := make([]update.Facade, 0, len(opts.IDs))
	for _, id := range opts.IDs {
		f, err := i.FindUpdate(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errs.Msg(errs.UnknownEntity, id), err)
		}
		targets = append(targets, f)
	}
	return targets, nil
}

func warnUnsupported(f update.Facade, opts Options) {
	features := f.SupportedFeatures()
	if opts.Version != "" && !features.Has(update.FeatureSpecificVersion) {
		logger.Warn("%s", errs.Msg(errs.FeatureNotSupported, f.Title(), "--version"))
	}
	if opts.Backup && !features.Has(update.FeatureBackup) {
		logger.Warn("%s", errs.Msg(errs.FeatureNotSupported, f.Title(), "--backup"))
	}
}

func orLatest(v, fallback string) string {
	if v != "" {
		return v
	}
	if fallback != "" {
		return fallback
	}
	return "latest"
}
