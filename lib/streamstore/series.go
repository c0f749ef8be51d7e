package streamstore

import (
	"math"
	"sort"
	"time"

	"github.com/olympicmew/kstreams/lib/timezone"
)

// HourlyStat is the number of plays and new listeners a song gathered
// in the hour period starting at Hour. A stat such as
//
//	2018-09-18 11:00  plays=3017
//
// means the song was played 3017 times between 11:00 and 11:59 KST.
type HourlyStat struct {
	Hour      time.Time
	Plays     int64
	Listeners int64
}

type gridPoint struct {
	at        time.Time
	plays     int64
	listeners int64
	// a grid point only counts if a raw sample landed within the hour
	// after it; fetches are scheduled hourly, so a missing sample
	// means the scraper was down and the gain would be made up
	valid bool
}

// HourlySeries derives per-hour gains from cumulative counter
// snapshots: the counters are linearly interpolated onto the hour
// grid spanned by the snapshots, truncated to integers and
// differenced. Hours next to a fetch outage are omitted rather than
// smeared over.
func HourlySeries(snapshots []Snapshot) []HourlyStat {
	if len(snapshots) < 2 {
		return nil
	}

	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	first := sorted[0].Time.In(timezone.Location)
	last := sorted[len(sorted)-1].Time

	var grid []gridPoint
	for at := timezone.CeilHour(first); !at.After(last); at = at.Add(time.Hour) {
		grid = append(grid, gridPoint{
			at:        at,
			plays:     interpolate(sorted, at, func(s Snapshot) int64 { return s.Plays }),
			listeners: interpolate(sorted, at, func(s Snapshot) int64 { return s.Listeners }),
			valid:     sampleWithin(sorted, at, at.Add(time.Hour)),
		})
	}

	var stats []HourlyStat
	for i := 0; i+1 < len(grid); i++ {
		p, q := grid[i], grid[i+1]
		if !p.valid || !q.valid {
			continue
		}
		stats = append(stats, HourlyStat{
			Hour:      p.at,
			Plays:     q.plays - p.plays,
			Listeners: q.listeners - p.listeners,
		})
	}
	return stats
}

// RecentAverage is the mean hourly plays over the trailing window,
// used to rank songs when the tracking quota forces pruning.
func RecentAverage(snapshots []Snapshot, now time.Time, window time.Duration) float64 {
	cutoff := now.Add(-window)

	var sum, count int64
	for _, stat := range HourlySeries(snapshots) {
		if stat.Hour.Before(cutoff) {
			continue
		}
		sum += stat.Plays
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// linear interpolation of a cumulative counter at a grid instant,
// truncated down. `at` is always bracketed by the snapshots.
func interpolate(sorted []Snapshot, at time.Time, value func(Snapshot) int64) int64 {
	i := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Time.Before(at)
	})
	if i < len(sorted) && sorted[i].Time.Equal(at) {
		return value(sorted[i])
	}

	prev, next := sorted[i-1], sorted[i]
	span := next.Time.Sub(prev.Time).Seconds()
	elapsed := at.Sub(prev.Time).Seconds()
	gain := float64(value(next)-value(prev)) * elapsed / span
	return value(prev) + int64(math.Floor(gain))
}

func sampleWithin(sorted []Snapshot, from, to time.Time) bool {
	i := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Time.Before(from)
	})
	return i < len(sorted) && !sorted[i].Time.After(to)
}
