package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/api"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/config"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/earning"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/export"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/store"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/worker"
)

func slugFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "slug",
		Usage:    "earning pool slug, e.g. DOT___native_staking___polkadot",
		Required: true,
	}
}

func addressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "address",
		Usage: "narrow the result to one address",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "earning",
		Usage: "aggregate staking positions across wallet addresses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "snapshot",
				Usage:   "path to the JSON earning snapshot",
				EnvVars: []string{"SNAPSHOT_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the HTTP API and reload the snapshot periodically",
				Action: runServe,
			},
			{
				Name:   "detail",
				Usage:  "print the compound and per-address positions of a pool",
				Flags:  []cli.Flag{slugFlag(), addressFlag()},
				Action: runDetail,
			},
			{
				Name:   "positions",
				Usage:  "print the position list",
				Action: runPositions,
			},
			{
				Name:  "withdrawal",
				Usage: "print the withdrawal state of a pool's unstakings",
				Flags: []cli.Flag{
					slugFlag(),
					addressFlag(),
					&cli.Int64Flag{Name: "now-ms", Usage: "evaluate at this unix time in milliseconds (default: now)"},
				},
				Action: runWithdrawal,
			},
			{
				Name:  "watch",
				Usage: "reload the snapshot periodically and print the pool's aggregation on every change",
				Flags: []cli.Flag{
					slugFlag(),
					addressFlag(),
					&cli.DurationFlag{Name: "interval", Usage: "snapshot reload interval", Value: 5 * time.Second},
				},
				Action: runWatch,
			},
			{
				Name:   "summary",
				Usage:  "print a one-line summary of a pool's compound",
				Flags:  []cli.Flag{slugFlag(), addressFlag()},
				Action: runSummary,
			},
			{
				Name:  "export",
				Usage: "write the position list and per-address breakdown to an XLSX file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output .xlsx path", Value: "earning.xlsx"},
				},
				Action: runExport,
			},
		},
	}
}

// loadService reads the snapshot once and returns a service over it.
func loadService(c *cli.Context) (*earning.Service, error) {
	path := c.String("snapshot")
	if path == "" {
		return nil, errors.New("snapshot path is required (--snapshot or SNAPSHOT_PATH)")
	}
	s := store.NewMemoryStore()
	if _, err := store.NewFileLoader(path, s).Reload(); err != nil {
		return nil, err
	}
	return earning.NewService(s), nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runDetail(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}
	rs, err := svc.PositionDetail(c.String("slug"), c.String("address"))
	if err != nil {
		return err
	}
	return printJSON(c, rs)
}

func runPositions(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}
	positions, err := svc.Positions()
	if err != nil {
		return err
	}
	return printJSON(c, positions)
}

func runWithdrawal(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}
	nowMs := c.Int64("now-ms")
	if nowMs == 0 {
		nowMs = time.Now().UnixMilli()
	}
	info, err := svc.PositionWithdrawal(c.String("slug"), c.String("address"), nowMs)
	if err != nil {
		return err
	}
	return printJSON(c, info)
}

func runWatch(c *cli.Context) error {
	path := c.String("snapshot")
	if path == "" {
		return errors.New("snapshot path is required (--snapshot or SNAPSHOT_PATH)")
	}

	interval := c.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	snapshots := store.NewMemoryStore()
	w := worker.NewSnapshotWorker(store.NewFileLoader(path, snapshots), interval, nil)
	if err := w.LoadInitial(c.Context); err != nil {
		return fmt.Errorf("loading initial snapshot: %w", err)
	}
	go w.Run(c.Context)

	var printErr error
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	earning.NewService(snapshots).Watch(ctx, c.String("slug"), c.String("address"), func(rs domain.CompoundResult) {
		if err := printJSON(c, rs); err != nil {
			printErr = err
			cancel()
		}
	})
	return printErr
}

func runSummary(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}
	text, err := svc.Describe(c.String("slug"), c.String("address"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, text)
	return err
}

func runExport(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := export.NewService(svc, export.NewXLSXWriter(out)).Export(c.Context); err != nil {
		return fmt.Errorf("exporting to %s: %w", out, err)
	}
	slog.Info("export written", "path", out)
	return nil
}

func runServe(c *cli.Context) error {
	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	cfg := config.Load()
	if path := c.String("snapshot"); path != "" {
		cfg.SnapshotPath = path
	}

	snapshots := store.NewMemoryStore()
	loader, closeLoader, err := newLoader(cfg, snapshots)
	if err != nil {
		return err
	}
	defer closeLoader()
	earningSvc := earning.NewService(snapshots)

	// Optional XLSX report rewritten after each reload
	var hook worker.AfterReloadHook
	if cfg.ExportPath != "" {
		hook = export.NewService(earningSvc, export.NewXLSXWriter(cfg.ExportPath))
	}

	snapshotWorker := worker.NewSnapshotWorker(loader, cfg.SnapshotReloadInterval, hook)
	if err := snapshotWorker.LoadInitial(ctx); err != nil {
		return fmt.Errorf("loading initial snapshot: %w", err)
	}
	go snapshotWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, reload endpoint is unprotected")
	}

	srv := api.NewServer(api.ServerOptions{
		Port:           cfg.HTTPPort,
		AdminAPIKey:    cfg.AdminAPIKey,
		MetricsEnabled: cfg.MetricsEnabled,
	}, earningSvc, loader)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

// newLoader picks the snapshot source: Redis when SNAPSHOT_REDIS_URL is set, else the file.
func newLoader(cfg config.Config, snapshots *store.MemoryStore) (api.Reloader, func(), error) {
	if cfg.SnapshotRedisURL != "" {
		opts, err := redis.ParseURL(cfg.SnapshotRedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing SNAPSHOT_REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("closing redis client", "error", err)
			}
		}
		return store.NewRedisLoader(rdb, cfg.SnapshotRedisKey, snapshots), closeFn, nil
	}
	if cfg.SnapshotPath == "" {
		return nil, nil, errors.New("SNAPSHOT_PATH or SNAPSHOT_REDIS_URL is required")
	}
	return store.NewFileLoader(cfg.SnapshotPath, snapshots), func() {}, nil
}
