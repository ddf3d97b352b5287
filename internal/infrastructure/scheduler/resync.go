package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Loader reloads a collection from its source of truth.
type Loader interface {
	Load(ctx context.Context) error
}

// Resync reloads the feed on a cron schedule so that a missed push
// notification is eventually repaired.
type Resync struct {
	cron    *cron.Cron
	loader  Loader
	timeout time.Duration
	logger  *slog.Logger
}

// NewResync schedules loader on expr, a standard five-field cron expression.
func NewResync(expr string, loader Loader, loc *time.Location, logger *slog.Logger) (*Resync, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	r := &Resync{
		cron:    cron.New(cron.WithLocation(loc)),
		loader:  loader,
		timeout: time.Minute,
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(expr, r.run); err != nil {
		return nil, fmt.Errorf("schedule resync %q: %w", expr, err)
	}
	return r, nil
}

func (r *Resync) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.loader.Load(ctx); err != nil {
		r.logger.Warn("⚠️ Resynchronisation du fil échouée", "err", err)
		return
	}
	r.logger.Debug("🔄 Fil resynchronisé")
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for
// a running job to finish.
func (r *Resync) Run(ctx context.Context) error {
	r.cron.Start()
	<-ctx.Done()
	<-r.cron.Stop().Done()
	return nil
}
