package genie

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/olympicmew/kstreams/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// ChartEntry is one row of a Genie chart listing. The album id is
// needed to look up release metadata, it only appears inside the
// onclick handler of the album title cell.
type ChartEntry struct {
	SongID  string
	Title   string
	Artist  string
	AlbumID string
}

const top200Pages = 4

// Top200 scrapes the real time daily top 200, which Genie serves as
// four pages of fifty songs.
func (c *Client) Top200(ctx context.Context) ([]ChartEntry, error) {
	ctx, span := tracer.Start(ctx, "client:Top200")
	defer span.End()

	var entries []ChartEntry
	for pg := 1; pg <= top200Pages; pg++ {
		res, err := c.Http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"ditc": "D",
				"rtm":  "Y",
				"pg":   strconv.Itoa(pg),
			}).
			Get("/chart/top200")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("fetch top200 page %d: %w", pg, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("parse top200 page %d: %w", pg, err)
		}

		page := parseChartRows(doc)
		entries = append(entries, page...)
		slog.DebugContext(ctx, "chart page parsed", "page", pg, "entries", len(page))
	}

	return entries, nil
}

// Newest scrapes the recently released songs listing. Songs on it are
// already curated by Genie, so callers skip the title track and genre
// checks that gate top 200 additions.
func (c *Client) Newest(ctx context.Context) ([]ChartEntry, error) {
	ctx, span := tracer.Start(ctx, "client:Newest")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/newest/song")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch newest songs: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("parse newest songs: %w", err)
	}

	return parseChartRows(doc), nil
}

var albumLayerRegex = regexp.MustCompile(`fnViewAlbumLayer\('(.+?)'\)`)

func parseChartRows(doc *goquery.Document) []ChartEntry {
	var entries []ChartEntry
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		songID := row.AttrOr("songid", "")
		if songID == "" {
			return
		}

		// the title cell nests age rating badges in spans
		title := htmlutil.StrippedText(row.Find(".title").First(), "span")
		artist := htmlutil.CleanText(row.Find(".artist").First().Text())

		albumID := ""
		onclick := row.Find(".albumtitle").First().AttrOr("onclick", "")
		if groups := albumLayerRegex.FindStringSubmatch(onclick); len(groups) == 2 {
			albumID = groups[1]
		}

		entries = append(entries, ChartEntry{
			SongID:  songID,
			Title:   title,
			Artist:  artist,
			AlbumID: albumID,
		})
	})
	return entries
}
