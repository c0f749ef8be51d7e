package commands

import (
	"log/slog"

	"github.com/olympicmew/kstreams/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <song id>...",
	Short: "Starts tracking songs by their Genie song id, bypassing the chart requirement checks.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := openService(ctx)

		for _, songID := range args {
			err := svc.AddFromSongID(ctx, songID)
			if err != nil {
				serviceutil.Fatal("failed to add song", err)
			}
			slog.Info("now tracking", "song", songID)
		}
	},
}
