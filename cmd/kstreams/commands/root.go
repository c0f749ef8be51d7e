package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/olympicmew/kstreams/lib/configutil"
	"github.com/olympicmew/kstreams/lib/restyutil"
	"github.com/olympicmew/kstreams/lib/scrapers/genie"
	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/pkg/migrations"
	"github.com/olympicmew/kstreams/services/songdb"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kstreams",
	Short: "kstreams tracks the digital streaming performance of k-pop songs on Genie Music.",
}

var (
	dumpPages *string
	dbPath    *string
)

func init() {
	dumpPages = rootCmd.PersistentFlags().String("dump-pages", "",
		"Dump every scraped page to the given directory for debugging.")
	dbPath = rootCmd.PersistentFlags().String("db", "",
		"Path to the sqlite database, overrides the config.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Database string `json:"database"`
	Quota    int64  `json:"quota"`
}

const defaultDatabase = "kstreams.db"

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	return cfg
}

func openService(ctx context.Context) songdb.Service {
	cfg := readConfig()

	database, err := migrations.OpenAndMigrateDB(songdb.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	client, err := genie.NewClient(ctx, genie.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to initialize genie client", err)
	}
	if *dumpPages != "" {
		client.SetInstrumentOutput(restyutil.NewFilesystemOutput(*dumpPages))
	}

	return songdb.NewService(database, client, songdb.Options{Quota: cfg.Quota})
}
