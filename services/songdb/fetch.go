package songdb

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/olympicmew/kstreams/lib/scrapers/genie"
	"github.com/olympicmew/kstreams/lib/streamstore"
	"github.com/olympicmew/kstreams/services/songdb/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Fetch scrapes a fresh play count snapshot for every tracked song
// assigned to the given minute of the hour. A failing song is logged
// and skipped, its next snapshot is only an hour away.
func (s Service) Fetch(ctx context.Context, minute int) error {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.Int("minute", minute))

	rows, err := s.qry.ListTrackingByMinute(ctx, int64(minute))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("songs", len(rows)))

	for _, row := range rows {
		err := s.fetchSong(ctx, row)
		if err != nil {
			slog.WarnContext(ctx, "snapshot fetch failed",
				"song", row.ID, "title", row.Title, "err", err)
		}
	}
	return nil
}

func (s Service) fetchSong(ctx context.Context, row db.Song) error {
	detail, err := s.genie.SongDetail(ctx, row.ID)
	if err != nil {
		return err
	}
	err = s.streams.Push(ctx, streamstore.PushRequest{
		SongID:    row.ID,
		Time:      detail.FetchedAt,
		Plays:     detail.Stats.Plays,
		Listeners: detail.Stats.Listeners,
	})
	if err != nil {
		return err
	}

	// credits only show up on the song page, so backfill them the
	// first time a snapshot brings them in
	var stored genie.Credits
	_ = json.Unmarshal([]byte(row.Credits), &stored)
	if stored.Empty() && !detail.Credits.Empty() {
		credits, err := json.Marshal(detail.Credits)
		if err != nil {
			return err
		}
		err = s.qry.SetCredits(ctx, db.SetCreditsParams{
			Credits: string(credits),
			ID:      row.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
