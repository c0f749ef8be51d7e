package commands

import (
	"log/slog"
	"time"

	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/services/songdb"

	"github.com/spf13/cobra"
)

var updateNewest *bool

func init() {
	updateNewest = updateCmd.Flags().Bool("newest", false,
		"Also scan the newest releases listing, skipping the usual requirement checks.")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [--newest]",
	Short: "Refreshes the song catalog from the Genie charts.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := openService(ctx)

		t1 := time.Now()
		err := svc.Update(ctx, songdb.UpdateOptions{Newest: *updateNewest})
		if err != nil {
			serviceutil.Fatal("failed to update catalog", err)
		}
		slog.Info("catalog updated", "seconds", time.Since(t1).Seconds())
	},
}
