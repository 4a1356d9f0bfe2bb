// Package daemon runs the long-lived service: the poll scheduler and the HTTP
// API, sharing one entity registry.
package daemon

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/api"
	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/metrics"
	"github.com/MrSnakeDoc/hassglue/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Daemon struct {
	*core.Base
	Listen  string
	Metrics *metrics.Metrics
}

// New prepares a daemon serving on listen; an empty listen uses the
// configured address.
func New(base *core.Base, listen string) *Daemon {
	if listen == "" {
		listen = base.Config.API.Listen
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Daemon{Base: base, Listen: listen, Metrics: metrics.New(reg)}
}

// Execute blocks until ctx is cancelled or the API server fails.
func (d *Daemon) Execute(ctx context.Context) error {
	if err := d.Load(ctx); err != nil {
		logger.Warn("ignoring unreadable snapshot: %v", err)
	}

	sched := d.Scheduler()
	srv := api.NewServer(api.Config{
		Listen:    d.Listen,
		Registry:  d.Registry,
		Metrics:   d.Metrics,
		AccessLog: logger.Out(),
	})

	logger.With("listen", d.Listen, "files", len(d.Sensors), "supervisor", d.HasSupervisor()).
		Info("hassglue daemon starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info("hassglue daemon stopped")
	return err
}

// Scheduler builds the poll loop for this daemon's runtime.
func (d *Daemon) Scheduler() *scheduler.Scheduler {
	s := &scheduler.Scheduler{
		Registry:       d.Registry,
		Sensors:        d.Sensors,
		Metrics:        d.Metrics,
		UpdateInterval: d.Config.Poll.Updates,
		FileInterval:   d.Config.Poll.Files,
		Watch:          d.Config.Poll.Watch,
	}
	if d.HasSupervisor() {
		s.Cache = d.Coordinator
		s.Updater = d.Client
	}
	return s
}
