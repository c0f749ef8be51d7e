package commands

import (
	"log/slog"

	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/pkg/migrations"
	"github.com/olympicmew/kstreams/services/songdb"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Creates the database file and applies the schema.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		database, err := migrations.OpenAndMigrateDB(songdb.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to initialize db", err)
		}
		defer database.Close()

		slog.Info("database initialized", "path", cfg.Database)
	},
}
