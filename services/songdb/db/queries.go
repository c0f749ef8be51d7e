package db

import (
	"context"
)

const songColumns = `id, title, artist, release_date, agency, credits, is_tracking, fetch_minute`

func scanSongs(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]Song, error) {
	var items []Song
	for rows.Next() {
		var i Song
		err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Artist,
			&i.ReleaseDate,
			&i.Agency,
			&i.Credits,
			&i.IsTracking,
			&i.FetchMinute,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSong = `
INSERT INTO songs (id, title, artist, release_date, agency, credits, is_tracking, fetch_minute)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateSongParams struct {
	ID          string
	Title       string
	Artist      string
	ReleaseDate int64
	Agency      string
	Credits     string
	IsTracking  bool
	FetchMinute int64
}

func (q *Queries) CreateSong(ctx context.Context, arg CreateSongParams) error {
	_, err := q.db.ExecContext(ctx, createSong,
		arg.ID,
		arg.Title,
		arg.Artist,
		arg.ReleaseDate,
		arg.Agency,
		arg.Credits,
		arg.IsTracking,
		arg.FetchMinute,
	)
	return err
}

const getSong = `
SELECT ` + songColumns + ` FROM songs WHERE id = ?
`

func (q *Queries) GetSong(ctx context.Context, id string) (Song, error) {
	row := q.db.QueryRowContext(ctx, getSong, id)
	var i Song
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Artist,
		&i.ReleaseDate,
		&i.Agency,
		&i.Credits,
		&i.IsTracking,
		&i.FetchMinute,
	)
	return i, err
}

const songExists = `
SELECT EXISTS(SELECT 1 FROM songs WHERE id = ?)
`

func (q *Queries) SongExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRowContext(ctx, songExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listSongs = `
SELECT ` + songColumns + ` FROM songs ORDER BY id
`

func (q *Queries) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := q.db.QueryContext(ctx, listSongs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

const listTracking = `
SELECT ` + songColumns + ` FROM songs WHERE is_tracking = 1 ORDER BY id
`

func (q *Queries) ListTracking(ctx context.Context) ([]Song, error) {
	rows, err := q.db.QueryContext(ctx, listTracking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

const listTrackingByMinute = `
SELECT ` + songColumns + ` FROM songs WHERE is_tracking = 1 AND fetch_minute = ? ORDER BY id
`

func (q *Queries) ListTrackingByMinute(ctx context.Context, fetchMinute int64) ([]Song, error) {
	rows, err := q.db.QueryContext(ctx, listTrackingByMinute, fetchMinute)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

const countTracking = `
SELECT COUNT(*) FROM songs WHERE is_tracking = 1
`

func (q *Queries) CountTracking(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTracking)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const setTracking = `
UPDATE songs SET is_tracking = ? WHERE id = ?
`

type SetTrackingParams struct {
	IsTracking bool
	ID         string
}

func (q *Queries) SetTracking(ctx context.Context, arg SetTrackingParams) error {
	_, err := q.db.ExecContext(ctx, setTracking, arg.IsTracking, arg.ID)
	return err
}

const setCredits = `
UPDATE songs SET credits = ? WHERE id = ?
`

type SetCreditsParams struct {
	Credits string
	ID      string
}

func (q *Queries) SetCredits(ctx context.Context, arg SetCreditsParams) error {
	_, err := q.db.ExecContext(ctx, setCredits, arg.Credits, arg.ID)
	return err
}

const createBlacklistEntry = `
INSERT OR IGNORE INTO blacklist (song_id) VALUES (?)
`

func (q *Queries) CreateBlacklistEntry(ctx context.Context, songID string) error {
	_, err := q.db.ExecContext(ctx, createBlacklistEntry, songID)
	return err
}

const isBlacklisted = `
SELECT EXISTS(SELECT 1 FROM blacklist WHERE song_id = ?)
`

func (q *Queries) IsBlacklisted(ctx context.Context, songID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, isBlacklisted, songID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getBlacklist = `
SELECT song_id FROM blacklist ORDER BY song_id
`

func (q *Queries) GetBlacklist(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getBlacklist)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, err
		}
		items = append(items, songID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
