package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/olympicmew/kstreams/lib/configutil"
	"github.com/olympicmew/kstreams/lib/scrapers/genie"
	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/lib/telemetry"
	"github.com/olympicmew/kstreams/lib/timezone"
	"github.com/olympicmew/kstreams/pkg/migrations"
	"github.com/olympicmew/kstreams/services/songdb"
)

type Config struct {
	Database string `json:"database"`
	Quota    int64  `json:"quota"`
}

// the newest releases listing is scanned once a day at 9am KST, right
// when most k-pop releases go live
const newestScanHour = 9

func main() {
	telemetry.InitSlog(true)

	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "kstreamsd")
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no telemetry config found, running without a collector")
	} else if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	} else {
		defer tel.Shutdown(context.Background())
	}
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "kstreams.db"
	}

	database, err := migrations.OpenAndMigrateDB(songdb.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	defer database.Close()

	client, err := genie.NewClient(ctx, genie.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to initialize genie client", err)
	}
	svc := songdb.NewService(database, client, songdb.Options{Quota: cfg.Quota})

	slog.InfoContext(ctx, "start daemon",
		"task", "update the catalog hourly and fetch snapshots every minute")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := timezone.Now()
			if now.Minute() == 0 {
				err := svc.Update(ctx, songdb.UpdateOptions{
					Newest: now.Hour() == newestScanHour,
				})
				if err != nil {
					slog.ErrorContext(ctx, "update catalog", "err", err)
				}
				continue
			}
			err := svc.Fetch(ctx, now.Minute())
			if err != nil {
				slog.ErrorContext(ctx, "fetch snapshots", "err", err)
			}
		}
	}
}
