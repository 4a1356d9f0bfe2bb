// Package core assembles the runtime every command works against: the
// Supervisor client, the version coordinator, the file sensors and the entity
// registry.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/entity"
	"github.com/MrSnakeDoc/hassglue/internal/errs"
	"github.com/MrSnakeDoc/hassglue/internal/filesize"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/service"
	"github.com/MrSnakeDoc/hassglue/internal/store"
	"github.com/MrSnakeDoc/hassglue/internal/supervisor"
	"github.com/MrSnakeDoc/hassglue/internal/update"
)

var ErrUnknownEntity = errors.New("unknown update entity")

// Base is shared by the command controllers. Supervisor-facing fields are
// only set when a token is configured.
type Base struct {
	Config      *config.Config
	Client      *supervisor.Client
	Coordinator *coordinator.Coordinator
	Registry    *entity.Registry
	Sensors     []*filesize.Sensor
}

// NewBase wires the runtime. A nil client selects the default HTTP client.
// Without a Supervisor token only the file sensors are set up.
func NewBase(cfg *config.Config, client service.HTTPClient) (*Base, error) {
	b := &Base{
		Config:   cfg,
		Registry: entity.NewRegistry(),
		Sensors:  filesize.NewSensors(cfg.Files),
	}
	for _, s := range b.Sensors {
		b.Registry.Add(s)
	}

	if cfg.Supervisor.Token == "" {
		logger.Debug("no supervisor token: update entities disabled")
		return b, nil
	}

	if client == nil {
		client = service.NewHTTPClient(cfg.Supervisor.Timeout)
	}
	b.Client = supervisor.New(cfg.Supervisor.URL, cfg.Supervisor.Token, client)
	if cfg.Supervisor.Timeout > 0 {
		b.Client.FetchTimeout = cfg.Supervisor.Timeout
	}

	var st store.Store
	if cfg.StateDir != "" {
		fs, err := store.NewFS(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("open state dir: %w", err)
		}
		st = fs
	}
	b.Coordinator = coordinator.New(b.Client, st)
	return b, nil
}

// HasSupervisor reports whether update entities are available.
func (b *Base) HasSupervisor() bool { return b.Coordinator != nil }

// RequireSupervisor is the error commands return when they need the
// Supervisor but no token is configured.
func (b *Base) RequireSupervisor(configPath string) error {
	if b.HasSupervisor() {
		return nil
	}
	return errors.New(errs.Msg(errs.MissingSupervisorToken, configPath))
}

// Load restores the persisted snapshot and registers update entities for it.
func (b *Base) Load(ctx context.Context) error {
	if !b.HasSupervisor() {
		return nil
	}
	if err := b.Coordinator.Load(ctx); err != nil {
		return err
	}
	update.SyncRegistry(b.Registry, b.Coordinator, b.Client)
	return nil
}

// Refresh fetches fresh Supervisor data and re-syncs update entities.
func (b *Base) Refresh(ctx context.Context) error {
	if !b.HasSupervisor() {
		return nil
	}
	err := b.Coordinator.Refresh(ctx)
	update.SyncRegistry(b.Registry, b.Coordinator, b.Client)
	return err
}

// Updates returns the update façades for the current cache, ordered by id.
func (b *Base) Updates() []update.Facade {
	if !b.HasSupervisor() {
		return nil
	}
	out := update.Entities(b.Coordinator, b.Client)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// FindUpdate resolves an update entity by id. The "update." prefix may be
// omitted.
func (b *Base) FindUpdate(id string) (update.Facade, error) {
	all := b.Updates()
	if f, ok := update.Find(all, id); ok {
		return f, nil
	}
	if f, ok := update.Find(all, update.IDPrefix+id); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
}

// ProbeFiles updates every file sensor once.
func (b *Base) ProbeFiles(ctx context.Context) {
	for _, s := range b.Sensors {
		s.Update(ctx)
	}
}
