package commands

import (
	"github.com/olympicmew/kstreams/lib/serviceutil"
	"github.com/olympicmew/kstreams/services/songdb"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listAll *bool

func init() {
	listAll = listCmd.Flags().Bool("all", false,
		"Include songs that are in the catalog but no longer tracked.")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--all]",
	Short: "Lists the songs in the catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := openService(ctx)

		var songs []songdb.Song
		var err error
		if *listAll {
			songs, err = svc.List(ctx)
		} else {
			songs, err = svc.Tracking(ctx)
		}
		if err != nil {
			serviceutil.Fatal("failed to list songs", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Title", "Artist", "Released", "Agency", "Tracking"})
		for _, song := range songs {
			t.AppendRow(table.Row{
				song.ID,
				song.Title,
				song.Artist,
				song.ReleaseDate.Format("2006-01-02"),
				song.Agency,
				song.IsTracking,
			})
		}
		t.Render()
	},
}
