package commands

import (
	"fmt"
	"strings"

	"github.com/olympicmew/kstreams/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsHours *int

func init() {
	statsHours = statsCmd.Flags().Int("hours", 24,
		"How many of the most recent hours to show.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <title or artist>",
	Short: "Shows the hourly streaming performance of a song.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := openService(ctx)

		query := strings.Join(args, " ")
		matches, err := svc.Lookup(ctx, query)
		if err != nil {
			serviceutil.Fatal("failed to look up song", err)
		}
		if len(matches) == 0 {
			serviceutil.Fatal("no song matches the query", fmt.Errorf("query %q", query))
		}
		song := matches[0].Song

		stats, err := svc.HourlyStats(ctx, song.ID)
		if err != nil {
			serviceutil.Fatal("failed to derive hourly stats", err)
		}
		if len(stats) > *statsHours {
			stats = stats[len(stats)-*statsHours:]
		}

		fmt.Printf("%s by %s (released %s, %s)\n",
			song.Title, song.Artist,
			song.ReleaseDate.Format("2006-01-02"), song.Agency)
		if !song.Credits.Empty() {
			fmt.Printf("lyrics: %s / composition: %s / arrangement: %s\n",
				formatCredits(song.Credits.Lyrics),
				formatCredits(song.Credits.Composition),
				formatCredits(song.Credits.Arrangement))
		}

		t := newTable()
		t.AppendHeader(table.Row{"Hour", "Plays", "Listeners"})
		for _, stat := range stats {
			t.AppendRow(table.Row{
				stat.Hour.Format("2006-01-02 15:04"),
				stat.Plays,
				stat.Listeners,
			})
		}
		t.Render()
	},
}

func formatCredits(names []string) string {
	if len(names) == 0 {
		return "unknown"
	}
	return strings.Join(names, ", ")
}
