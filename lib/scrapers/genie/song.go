package genie

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/olympicmew/kstreams/lib/htmlutil"
	"github.com/olympicmew/kstreams/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SongStats are the cumulative counters Genie shows on a song detail
// page. They only ever grow; hourly figures are derived later by
// differencing snapshots.
type SongStats struct {
	Plays     int64
	Listeners int64
}

type Credits struct {
	Lyrics      []string `json:"lyrics"`
	Composition []string `json:"composition"`
	Arrangement []string `json:"arrangement"`
}

func (c Credits) Empty() bool {
	return len(c.Lyrics) == 0 && len(c.Composition) == 0 && len(c.Arrangement) == 0
}

type SongDetail struct {
	ID      string
	Title   string
	Artist  string
	AlbumID string
	Stats   SongStats
	Credits Credits
	// server time of the fetch, taken from the Date response header
	FetchedAt time.Time
}

// SongDetail scrapes /detail/songInfo for one song.
func (c *Client) SongDetail(ctx context.Context, songID string) (SongDetail, error) {
	ctx, span := tracer.Start(ctx, "client:SongDetail")
	defer span.End()
	span.SetAttributes(attribute.String("song_id", songID))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("xgnm", songID).
		Get("/detail/songInfo")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SongDetail{}, fmt.Errorf("fetch song %s: %w", songID, err)
	}

	fetchedAt := timezone.Now()
	if stamp, err := http.ParseTime(res.Header().Get("Date")); err == nil {
		fetchedAt = stamp.In(timezone.Location)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SongDetail{}, fmt.Errorf("parse song %s: %w", songID, err)
	}

	stats, err := parseSongStats(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SongDetail{}, fmt.Errorf("song %s: %w", songID, err)
	}

	title, artist, albumID := parseSongHeader(doc)

	return SongDetail{
		ID:        songID,
		Title:     title,
		Artist:    artist,
		AlbumID:   albumID,
		Stats:     stats,
		Credits:   parseCredits(doc),
		FetchedAt: fetchedAt,
	}, nil
}

// the counters sit in a <p> right before the labeled icon
func statValue(doc *goquery.Document, alt string) (int64, error) {
	node := doc.Find(fmt.Sprintf("img[alt='%s']", alt)).First()
	if node.Length() == 0 {
		return 0, fmt.Errorf("no %q node found", alt)
	}
	return htmlutil.ParseCount(node.Parent().PrevAllFiltered("p").First().Text())
}

func parseSongStats(doc *goquery.Document) (SongStats, error) {
	plays, err := statValue(doc, "전체 재생수")
	if err != nil {
		return SongStats{}, fmt.Errorf("total plays: %w", err)
	}
	listeners, err := statValue(doc, "전체 청취자수")
	if err != nil {
		return SongStats{}, fmt.Errorf("total listeners: %w", err)
	}
	return SongStats{Plays: plays, Listeners: listeners}, nil
}

// detail pages label their fields with an icon whose alt text names
// the field; the value lives in the next .value sibling
func labeledValue(doc *goquery.Document, alt string) *goquery.Selection {
	return doc.Find(fmt.Sprintf("img[alt='%s']", alt)).First().
		Parent().
		NextAllFiltered(".value").First()
}

func creditNames(doc *goquery.Document, alt string) []string {
	val := labeledValue(doc, alt)
	if val.Length() == 0 {
		return nil
	}
	var names []string
	for _, name := range strings.Split(val.Text(), ",") {
		name = htmlutil.CleanText(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseCredits(doc *goquery.Document) Credits {
	return Credits{
		Lyrics:      creditNames(doc, "작사가"),
		Composition: creditNames(doc, "작곡가"),
		Arrangement: creditNames(doc, "편곡자"),
	}
}

var albumIdRegex = regexp.MustCompile(`'([0-9]+)'`)

func parseSongHeader(doc *goquery.Document) (title, artist, albumID string) {
	title = htmlutil.StrippedText(doc.Find(".name").First(), "span")
	artist = htmlutil.CleanText(doc.Find("[onclick*='artistInfo']").First().Text())

	onclick := doc.Find("[onclick*='albumInfo']").First().AttrOr("onclick", "")
	if groups := albumIdRegex.FindStringSubmatch(onclick); len(groups) == 2 {
		albumID = groups[1]
	}
	return title, artist, albumID
}
