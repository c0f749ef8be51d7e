package streamstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/olympicmew/kstreams/lib/streamstore/db"
	"github.com/olympicmew/kstreams/lib/timezone"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Store keeps the raw cumulative play/listener counters scraped from
// Genie, one row per (song, fetch time). It never rewrites history:
// pushes are inserts, duplicates on the same second are dropped.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type Snapshot struct {
	Time      time.Time
	Plays     int64
	Listeners int64
}

type PushRequest struct {
	SongID    string
	Time      time.Time
	Plays     int64
	Listeners int64
}

func (s Store) Push(ctx context.Context, req PushRequest) error {
	return s.qry.CreateSnapshot(ctx, db.CreateSnapshotParams{
		SongID:    req.SongID,
		Time:      req.Time.Unix(),
		Plays:     req.Plays,
		Listeners: req.Listeners,
	})
}

func (s Store) Pull(ctx context.Context, songID string) ([]Snapshot, error) {
	rows, err := s.qry.GetSnapshots(ctx, songID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, len(rows))
	for i, r := range rows {
		snapshots[i] = Snapshot{
			Time:      time.Unix(r.Time, 0).In(timezone.Location),
			Plays:     r.Plays,
			Listeners: r.Listeners,
		}
	}
	return snapshots, nil
}

func (s Store) Drop(ctx context.Context, songID string) error {
	return s.qry.DeleteSnapshots(ctx, songID)
}

func (s Store) Count(ctx context.Context, songID string) (int64, error) {
	return s.qry.CountSnapshots(ctx, songID)
}
