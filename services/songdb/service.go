package songdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olympicmew/kstreams/lib/scrapers/genie"
	"github.com/olympicmew/kstreams/lib/streamstore"
	streamsdb "github.com/olympicmew/kstreams/lib/streamstore/db"
	"github.com/olympicmew/kstreams/lib/timezone"
	"github.com/olympicmew/kstreams/services/songdb/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/songdb")

// DefaultQuota limits how many songs are tracked at once. Every
// tracked song costs one request per hour, so anything below 3600
// keeps the average load under a request per second.
const DefaultQuota = 3540

// Schema is everything the service needs in its sqlite database:
// the song catalog plus the snapshot series it feeds.
var Schema = db.Schema + streamsdb.Schema

type Options struct {
	// maximum number of tracked songs, DefaultQuota when zero
	Quota int64
}

type Service struct {
	db      *sql.DB
	qry     *db.Queries
	genie   *genie.Client
	streams streamstore.Store
	quota   int64
}

func NewService(database *sql.DB, client *genie.Client, opts Options) Service {
	quota := opts.Quota
	if quota <= 0 {
		quota = DefaultQuota
	}
	return Service{
		db:      database,
		qry:     db.New(database),
		genie:   client,
		streams: streamstore.NewStore(database),
		quota:   quota,
	}
}

// Song is one catalog entry.
type Song struct {
	ID          string
	Title       string
	Artist      string
	ReleaseDate time.Time
	Agency      string
	Credits     genie.Credits
	IsTracking  bool
	FetchMinute int64
}

func songFromRow(ctx context.Context, row db.Song) Song {
	var credits genie.Credits
	err := json.Unmarshal([]byte(row.Credits), &credits)
	if err != nil {
		slog.WarnContext(ctx, "unmarshal stored credits", "song", row.ID, "err", err)
	}
	return Song{
		ID:          row.ID,
		Title:       row.Title,
		Artist:      row.Artist,
		ReleaseDate: time.Unix(row.ReleaseDate, 0).In(timezone.Location),
		Agency:      row.Agency,
		Credits:     credits,
		IsTracking:  row.IsTracking,
		FetchMinute: row.FetchMinute,
	}
}

func (s Service) Get(ctx context.Context, songID string) (Song, error) {
	row, err := s.qry.GetSong(ctx, songID)
	if err != nil {
		return Song{}, err
	}
	return songFromRow(ctx, row), nil
}

func (s Service) List(ctx context.Context) ([]Song, error) {
	rows, err := s.qry.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	songs := make([]Song, len(rows))
	for i, row := range rows {
		songs[i] = songFromRow(ctx, row)
	}
	return songs, nil
}

func (s Service) Tracking(ctx context.Context) ([]Song, error) {
	rows, err := s.qry.ListTracking(ctx)
	if err != nil {
		return nil, err
	}
	songs := make([]Song, len(rows))
	for i, row := range rows {
		songs[i] = songFromRow(ctx, row)
	}
	return songs, nil
}

func (s Service) CountTracking(ctx context.Context) (int64, error) {
	return s.qry.CountTracking(ctx)
}

func (s Service) Blacklist(ctx context.Context) ([]string, error) {
	return s.qry.GetBlacklist(ctx)
}

// AddFromSongID scrapes metadata for the song and starts tracking it,
// bypassing the requirement checks Update applies to chart songs.
func (s Service) AddFromSongID(ctx context.Context, songID string) error {
	ctx, span := tracer.Start(ctx, "AddFromSongID")
	defer span.End()
	span.SetAttributes(attribute.String("song_id", songID))

	exists, err := s.qry.SongExists(ctx, songID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if exists {
		return fmt.Errorf("song %s is already in the database", songID)
	}

	detail, err := s.genie.SongDetail(ctx, songID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	page, err := s.genie.AlbumPage(ctx, detail.AlbumID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	info, err := page.Info(timezone.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return s.insertSong(ctx, catalogEntry{
		ID:          songID,
		Title:       detail.Title,
		Artist:      detail.Artist,
		ReleaseDate: info.ReleaseDate,
		Agency:      info.Agency,
		Credits:     detail.Credits,
	})
}

type catalogEntry struct {
	ID          string
	Title       string
	Artist      string
	ReleaseDate time.Time
	Agency      string
	Credits     genie.Credits
}

func (s Service) insertSong(ctx context.Context, entry catalogEntry) error {
	credits, err := json.Marshal(entry.Credits)
	if err != nil {
		return err
	}
	err = s.qry.CreateSong(ctx, db.CreateSongParams{
		ID:          entry.ID,
		Title:       entry.Title,
		Artist:      entry.Artist,
		ReleaseDate: entry.ReleaseDate.Unix(),
		Agency:      entry.Agency,
		Credits:     string(credits),
		IsTracking:  true,
		FetchMinute: fetchMinute(entry.ID),
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "added to database",
		"title", entry.Title, "artist", entry.Artist)
	return nil
}
