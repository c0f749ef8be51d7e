package songdb

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/olympicmew/kstreams/lib/scrapers/genie"
	"github.com/olympicmew/kstreams/lib/streamstore"
	"github.com/olympicmew/kstreams/lib/timezone"
	"github.com/olympicmew/kstreams/services/songdb/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// recentWindow is the span over which a song's recent performance is
// averaged when ranking prune candidates.
const recentWindow = 10 * 24 * time.Hour

type UpdateOptions struct {
	// also scan the newest releases listing. Songs found there are
	// added without the genre and title track checks, Genie already
	// curates that listing. Top 200 songs only get their tracking
	// resumed in this mode.
	Newest bool
}

// Update refreshes the catalog from the Genie charts. New qualifying
// songs start being tracked, songs that fail the requirements get
// blacklisted, and when the tracked set would outgrow the quota the
// worst recent performers are dropped first to make room. Scrape
// failures degrade to warnings, the catalog is updated with whatever
// could be fetched.
func (s Service) Update(ctx context.Context, opts UpdateOptions) error {
	ctx, span := tracer.Start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.Bool("newest", opts.Newest))

	tracking, err := s.qry.CountTracking(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var toAdd []catalogEntry
	var resume []string

	if opts.Newest {
		entries, err := s.genie.Newest(ctx)
		if err != nil {
			slog.WarnContext(ctx, "newest songs scrape failed", "err", err)
		}
		for _, entry := range entries {
			known, err := s.qry.SongExists(ctx, entry.SongID)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			if known {
				continue
			}
			catalog, err := s.scrapeEntry(ctx, entry)
			if err != nil {
				slog.WarnContext(ctx, "newest song skipped",
					"song", entry.SongID, "title", entry.Title, "err", err)
				continue
			}
			toAdd = append(toAdd, catalog)
			tracking++
		}
	}

	entries, err := s.genie.Top200(ctx)
	if err != nil {
		slog.WarnContext(ctx, "top 200 scrape failed", "err", err)
	}
	for _, entry := range entries {
		blacklisted, err := s.qry.IsBlacklisted(ctx, entry.SongID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if blacklisted {
			continue
		}

		row, err := s.qry.GetSong(ctx, entry.SongID)
		if err == nil {
			// known song, pick a previously pruned one back up
			// now that it is charting again
			if !row.IsTracking {
				resume = append(resume, entry.SongID)
				tracking++
			}
			continue
		}
		if opts.Newest {
			continue
		}

		page, err := s.genie.AlbumPage(ctx, entry.AlbumID)
		if err != nil {
			slog.WarnContext(ctx, "chart entry skipped",
				"song", entry.SongID, "title", entry.Title, "err", err)
			continue
		}
		if reqs := page.Requirements(entry.SongID); !reqs.Met() {
			slog.InfoContext(ctx, "blacklisted",
				"title", entry.Title, "artist", entry.Artist,
				"korean", reqs.Korean, "title_track", reqs.TitleTrack)
			err := s.qry.CreateBlacklistEntry(ctx, entry.SongID)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			continue
		}
		info, err := page.Info(timezone.Now())
		if err != nil {
			slog.WarnContext(ctx, "chart entry skipped",
				"song", entry.SongID, "title", entry.Title, "err", err)
			continue
		}
		toAdd = append(toAdd, catalogEntry{
			ID:          entry.SongID,
			Title:       entry.Title,
			Artist:      entry.Artist,
			ReleaseDate: info.ReleaseDate,
			Agency:      info.Agency,
		})
		tracking++
	}

	// make room before the newcomers arrive, so they never get
	// pruned on the spot for having no history yet
	if tracking > s.quota {
		err := s.Prune(ctx, tracking-s.quota)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	for _, songID := range resume {
		err := s.qry.SetTracking(ctx, db.SetTrackingParams{
			IsTracking: true,
			ID:         songID,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	slog.InfoContext(ctx, "tracking resumed", "songs", len(resume))

	for _, catalog := range toAdd {
		err := s.insertSong(ctx, catalog)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	slog.InfoContext(ctx, "added to the database", "songs", len(toAdd))
	return nil
}

// scrapeEntry completes a chart entry with the release metadata from
// its album page.
func (s Service) scrapeEntry(ctx context.Context, entry genie.ChartEntry) (catalogEntry, error) {
	page, err := s.genie.AlbumPage(ctx, entry.AlbumID)
	if err != nil {
		return catalogEntry{}, err
	}
	info, err := page.Info(timezone.Now())
	if err != nil {
		return catalogEntry{}, err
	}
	return catalogEntry{
		ID:          entry.SongID,
		Title:       entry.Title,
		Artist:      entry.Artist,
		ReleaseDate: info.ReleaseDate,
		Agency:      info.Agency,
	}, nil
}

// Prune stops tracking the n songs with the lowest average hourly
// plays over the recent window. Their snapshot history stays in the
// database so tracking can resume without losing anything.
func (s Service) Prune(ctx context.Context, n int64) error {
	ctx, span := tracer.Start(ctx, "Prune")
	defer span.End()
	span.SetAttributes(attribute.Int64("count", n))

	rows, err := s.qry.ListTracking(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	type ranked struct {
		id    string
		title string
		mean  float64
	}
	now := timezone.Now()
	scores := make([]ranked, 0, len(rows))
	for _, row := range rows {
		snapshots, err := s.streams.Pull(ctx, row.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		scores = append(scores, ranked{
			id:    row.ID,
			title: row.Title,
			mean:  streamstore.RecentAverage(snapshots, now, recentWindow),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].mean < scores[j].mean
	})

	if n > int64(len(scores)) {
		n = int64(len(scores))
	}
	for _, score := range scores[:n] {
		err := s.qry.SetTracking(ctx, db.SetTrackingParams{
			IsTracking: false,
			ID:         score.id,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		slog.InfoContext(ctx, "pruned from tracking",
			"title", score.title, "mean_hourly_plays", score.mean)
	}
	return nil
}
