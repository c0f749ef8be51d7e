package streamstore

import (
	"context"
	"testing"
	"time"

	"github.com/olympicmew/kstreams/lib/streamstore/db"
	"github.com/olympicmew/kstreams/lib/testutil"
	"github.com/olympicmew/kstreams/lib/timezone"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/streamstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	base := time.Date(2018, time.September, 18, 11, 0, 0, 0, timezone.Location)

	{
		snapshots, err := store.Pull(ctx, "unknown-song")
		require.NoError(t, err)
		require.Len(t, snapshots, 0)
	}
	{
		err := store.Push(ctx, PushRequest{
			SongID: "87955521", Time: base, Plays: 1000, Listeners: 100,
		})
		require.NoError(t, err)

		err = store.Push(ctx, PushRequest{
			SongID: "87955521", Time: base.Add(time.Hour), Plays: 1800, Listeners: 130,
		})
		require.NoError(t, err)

		// same second again, must be dropped rather than duplicated
		err = store.Push(ctx, PushRequest{
			SongID: "87955521", Time: base.Add(time.Hour), Plays: 9999, Listeners: 9999,
		})
		require.NoError(t, err)

		err = store.Push(ctx, PushRequest{
			SongID: "88265233", Time: base, Plays: 50, Listeners: 10,
		})
		require.NoError(t, err)
	}
	{
		snapshots, err := store.Pull(ctx, "87955521")
		require.NoError(t, err)
		require.Equal(t, []Snapshot{
			{Time: base, Plays: 1000, Listeners: 100},
			{Time: base.Add(time.Hour), Plays: 1800, Listeners: 130},
		}, snapshots)

		count, err := store.Count(ctx, "87955521")
		require.NoError(t, err)
		require.EqualValues(t, 2, count)
	}
	{
		err := store.Drop(ctx, "87955521")
		require.NoError(t, err)

		snapshots, err := store.Pull(ctx, "87955521")
		require.NoError(t, err)
		require.Len(t, snapshots, 0)

		// other songs are untouched
		snapshots, err = store.Pull(ctx, "88265233")
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
	}
}
