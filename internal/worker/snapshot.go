package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/metrics"
)

// SnapshotReloader re-reads the earning snapshot and publishes it.
type SnapshotReloader interface {
	Reload() (int, error)
}

// AfterReloadHook is called after each successful reload.
type AfterReloadHook interface {
	Export(ctx context.Context) error
}

// SnapshotWorker periodically reloads the earning snapshot.
type SnapshotWorker struct {
	reloader SnapshotReloader
	interval time.Duration
	hook     AfterReloadHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional post-reload hook.
func NewSnapshotWorker(reloader SnapshotReloader, interval time.Duration, hook AfterReloadHook) *SnapshotWorker {
	if reloader == nil {
		panic("worker.NewSnapshotWorker: reloader is nil")
	}
	return &SnapshotWorker{
		reloader: reloader,
		interval: interval,
		hook:     hook,
	}
}

func (w *SnapshotWorker) reload() error {
	n, err := w.reloader.Reload()
	if err != nil {
		metrics.SnapshotReloadsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SnapshotReloadsTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotPositions.Set(float64(n))
	return nil
}

// runHook calls the post-reload hook if one is configured.
func (w *SnapshotWorker) runHook(ctx context.Context) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}

// Run starts the reload loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.reload(); err != nil {
				slog.Error("SnapshotWorker: reload failed", "error", err)
				continue
			}
			slog.Debug("SnapshotWorker: reload completed")
			w.runHook(ctx)
		}
	}
}

// LoadInitial performs the first reload synchronously so callers can fail fast.
func (w *SnapshotWorker) LoadInitial(ctx context.Context) error {
	if err := w.reload(); err != nil {
		return err
	}
	slog.Info("SnapshotWorker: initial load completed")
	w.runHook(ctx)
	return nil
}
