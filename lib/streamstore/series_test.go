package streamstore

import (
	"testing"
	"time"

	"github.com/olympicmew/kstreams/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func kst(hour, min int) time.Time {
	return time.Date(2018, time.September, 18, hour, min, 0, 0, timezone.Location)
}

func TestHourlySeries(t *testing.T) {
	cases := []struct {
		name      string
		snapshots []Snapshot
		expect    []HourlyStat
	}{
		{
			name: "not enough data",
			snapshots: []Snapshot{
				{Time: kst(10, 30), Plays: 1000, Listeners: 100},
			},
			expect: nil,
		},
		{
			name: "hourly fetches interpolated onto the grid",
			snapshots: []Snapshot{
				{Time: kst(10, 30), Plays: 1000, Listeners: 100},
				{Time: kst(11, 30), Plays: 2000, Listeners: 160},
				{Time: kst(12, 30), Plays: 2600, Listeners: 190},
			},
			expect: []HourlyStat{
				// grid values: 11:00 -> 1500/130, 12:00 -> 2300/175
				{Hour: kst(11, 0), Plays: 800, Listeners: 45},
			},
		},
		{
			name: "fetch outage masks the surrounding hours",
			snapshots: []Snapshot{
				{Time: kst(10, 30), Plays: 1000},
				{Time: kst(11, 30), Plays: 2000},
				{Time: kst(15, 30), Plays: 3000},
				{Time: kst(16, 30), Plays: 3500},
			},
			expect: []HourlyStat{
				// 12:00 through 14:00 have no sample within the
				// following hour, only the 15:00-16:00 pair survives
				{Hour: kst(15, 0), Plays: 375},
			},
		},
		{
			name: "snapshot exactly on the hour is used as-is",
			snapshots: []Snapshot{
				{Time: kst(11, 0), Plays: 1000, Listeners: 10},
				{Time: kst(12, 0), Plays: 1600, Listeners: 25},
			},
			expect: []HourlyStat{
				{Hour: kst(11, 0), Plays: 600, Listeners: 15},
			},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got := HourlySeries(test.snapshots)
			if diff := cmp.Diff(test.expect, got); diff != "" {
				t.Fatalf("series mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecentAverage(t *testing.T) {
	snapshots := []Snapshot{
		{Time: kst(10, 30), Plays: 1000},
		{Time: kst(11, 30), Plays: 2000},
		{Time: kst(12, 30), Plays: 2600},
	}

	avg := RecentAverage(snapshots, kst(12, 30), time.Hour*24*10)
	require.InDelta(t, 800, avg, 0.001)

	// window that excludes everything
	avg = RecentAverage(snapshots, kst(23, 0), time.Minute)
	require.Zero(t, avg)

	require.Zero(t, RecentAverage(nil, kst(12, 30), time.Hour))
}
