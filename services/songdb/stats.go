package songdb

import (
	"context"
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/olympicmew/kstreams/lib/streamstore"
	"github.com/olympicmew/kstreams/lib/textutil"
)

// HourlyStats returns the song's play and listener counts per hour,
// derived from the raw snapshot series.
func (s Service) HourlyStats(ctx context.Context, songID string) ([]streamstore.HourlyStat, error) {
	ctx, span := tracer.Start(ctx, "HourlyStats")
	defer span.End()

	snapshots, err := s.streams.Pull(ctx, songID)
	if err != nil {
		return nil, err
	}
	return streamstore.HourlySeries(snapshots), nil
}

// minSimilarity is the Jaro-Winkler score below which a catalog entry
// is not considered a match for a lookup query.
const minSimilarity = 0.7

type Match struct {
	Song  Song
	Score float64
}

// Lookup finds catalog entries whose title or artist is close to the
// query, best matches first.
func (s Service) Lookup(ctx context.Context, query string) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	songs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	normalized := textutil.NormalizeName(query)
	var matches []Match
	for _, song := range songs {
		score := max(
			matchr.JaroWinkler(normalized, textutil.NormalizeName(song.Title), true),
			matchr.JaroWinkler(normalized, textutil.NormalizeName(song.Artist), true),
		)
		if score >= minSimilarity {
			matches = append(matches, Match{Song: song, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
