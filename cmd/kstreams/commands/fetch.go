package commands

import (
	"log/slog"
	"time"

	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/lib/timezone"

	"github.com/spf13/cobra"
)

var fetchMinute *int

func init() {
	fetchMinute = fetchCmd.Flags().Int("minute", -1,
		"The schedule minute to fetch snapshots for, defaults to the current minute.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--minute <0-59>]",
	Short: "Fetches play count snapshots for the tracked songs scheduled on a minute.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := openService(ctx)

		minute := *fetchMinute
		if minute < 0 {
			minute = timezone.Now().Minute()
		}

		t1 := time.Now()
		err := svc.Fetch(ctx, minute)
		if err != nil {
			serviceutil.Fatal("failed to fetch snapshots", err)
		}
		slog.Info("snapshots fetched", "minute", minute, "seconds", time.Since(t1).Seconds())
	},
}
