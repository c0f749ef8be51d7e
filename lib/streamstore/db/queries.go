package db

import (
	"context"
)

const createSnapshot = `
INSERT OR IGNORE INTO song_snapshots (song_id, time, plays, listeners)
VALUES (?, ?, ?, ?)
`

type CreateSnapshotParams struct {
	SongID    string
	Time      int64
	Plays     int64
	Listeners int64
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshot,
		arg.SongID,
		arg.Time,
		arg.Plays,
		arg.Listeners,
	)
	return err
}

const getSnapshots = `
SELECT song_id, time, plays, listeners FROM song_snapshots
WHERE song_id = ?
ORDER BY time ASC
`

func (q *Queries) GetSnapshots(ctx context.Context, songID string) ([]SongSnapshot, error) {
	rows, err := q.db.QueryContext(ctx, getSnapshots, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SongSnapshot
	for rows.Next() {
		var i SongSnapshot
		if err := rows.Scan(&i.SongID, &i.Time, &i.Plays, &i.Listeners); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSnapshots = `
DELETE FROM song_snapshots WHERE song_id = ?
`

func (q *Queries) DeleteSnapshots(ctx context.Context, songID string) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshots, songID)
	return err
}

const countSnapshots = `
SELECT COUNT(*) FROM song_snapshots WHERE song_id = ?
`

func (q *Queries) CountSnapshots(ctx context.Context, songID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSnapshots, songID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
