package genie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olympicmew/kstreams/lib/telemetry"
	"github.com/olympicmew/kstreams/lib/timezone"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/chart.html
var chartFixture string

//go:embed testdata/song.html
var songFixture string

//go:embed testdata/album.html
var albumFixture string

func fixtureDoc(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

// serves the chart fixture on page 1 and empty listings afterwards
func fixtureServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/top200", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pg") == "1" {
			w.Write([]byte(chartFixture))
			return
		}
		w.Write([]byte("<html><body><tbody></tbody></body></html>"))
	})
	mux.HandleFunc("/newest/song", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})
	mux.HandleFunc("/detail/songInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(songFixture))
	})
	mux.HandleFunc("/detail/albumInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(albumFixture))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func fixtureClient(t *testing.T, server *httptest.Server) *Client {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestParseChartRows(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/genie")
	defer cleanup()

	entries := parseChartRows(fixtureDoc(t, chartFixture))
	require.Equal(t, []ChartEntry{
		{
			SongID:  "87955521",
			Title:   "뚜두뚜두 (DDU-DU DDU-DU)",
			Artist:  "BLACKPINK",
			AlbumID: "81868337",
		},
		{
			SongID:  "88265233",
			Title:   "Lullaby",
			Artist:  "GOT7",
			AlbumID: "82045729",
		},
		{
			SongID:  "88290776",
			Title:   "Siren",
			Artist:  "선미",
			AlbumID: "82082424",
		},
	}, entries)
}

func TestTop200(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/genie")
	defer cleanup()

	client := fixtureClient(t, fixtureServer(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	entries, err := client.Top200(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "87955521", entries[0].SongID)
}

func TestSongDetail(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/genie")
	defer cleanup()

	client := fixtureClient(t, fixtureServer(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	detail, err := client.SongDetail(ctx, "87955521")
	require.NoError(t, err)

	require.Equal(t, "뚜두뚜두 (DDU-DU DDU-DU)", detail.Title)
	require.Equal(t, "BLACKPINK", detail.Artist)
	require.Equal(t, "81868337", detail.AlbumID)
	require.Equal(t, int64(31537199), detail.Stats.Plays)
	require.Equal(t, int64(1858872), detail.Stats.Listeners)
	require.Equal(t, []string{"TEDDY"}, detail.Credits.Lyrics)
	require.Equal(t, []string{"TEDDY", "24", "R.Tee", "Bekuh BOOM"}, detail.Credits.Composition)
	require.Equal(t, []string{"24", "R.Tee"}, detail.Credits.Arrangement)
	require.False(t, detail.Credits.Empty())

	// the Date header of the test server should have been picked up
	require.WithinDuration(t, time.Now(), detail.FetchedAt, time.Minute)
}

func TestAlbumPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/genie")
	defer cleanup()

	page := AlbumPage{doc: fixtureDoc(t, albumFixture)}

	now := time.Date(2018, time.September, 18, 11, 0, 0, 0, timezone.Location)
	info, err := page.Info(now)
	require.NoError(t, err)
	require.Equal(t,
		time.Date(2018, time.June, 15, 9, 0, 0, 0, timezone.Location),
		info.ReleaseDate,
	)
	require.Equal(t, "YG엔터테인먼트", info.Agency)

	title := page.Requirements("87955521")
	require.True(t, title.Korean)
	require.True(t, title.TitleTrack)
	require.True(t, title.Met())

	bside := page.Requirements("87955522")
	require.True(t, bside.Korean)
	require.False(t, bside.TitleTrack)
	require.False(t, bside.Met())
}

func TestParseReleaseDate(t *testing.T) {
	now := time.Date(2018, time.June, 15, 6, 30, 0, 0, timezone.Location)

	cases := []struct {
		name   string
		text   string
		expect time.Time
	}{
		{
			name:   "past release keeps the 9am assumption",
			text:   "2018.06.14",
			expect: time.Date(2018, time.June, 14, 9, 0, 0, 0, timezone.Location),
		},
		{
			name: "same day release before 9am clamps to the previous hour",
			text: "2018.06.15",
			// 9am would be in the future relative to 6:30, so top of the previous hour
			expect: time.Date(2018, time.June, 15, 5, 0, 0, 0, timezone.Location),
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := parseReleaseDate(test.text, now)
			require.NoError(t, err)
			require.Equal(t, test.expect, got)
		})
	}

	_, err := parseReleaseDate("not a date", now)
	require.Error(t, err)
}
