package genie

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olympicmew/kstreams/lib/htmlutil"
	"github.com/olympicmew/kstreams/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type AlbumInfo struct {
	ReleaseDate time.Time
	Agency      string
}

// Requirements are the criteria a chart song has to meet before it is
// worth tracking: tagged 가요 (the main Korean-language genre tag) and
// marked as a title track of its album.
type Requirements struct {
	Korean     bool
	TitleTrack bool
}

func (r Requirements) Met() bool {
	return r.Korean && r.TitleTrack
}

// AlbumPage is a fetched album detail page. Both the release metadata
// and the per-song requirement markers live on it, so it is fetched
// once and inspected twice.
type AlbumPage struct {
	doc *goquery.Document
}

func (c *Client) AlbumPage(ctx context.Context, albumID string) (AlbumPage, error) {
	ctx, span := tracer.Start(ctx, "client:AlbumPage")
	defer span.End()
	span.SetAttributes(attribute.String("album_id", albumID))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("axnm", albumID).
		Get("/detail/albumInfo")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AlbumPage{}, fmt.Errorf("fetch album %s: %w", albumID, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AlbumPage{}, fmt.Errorf("parse album %s: %w", albumID, err)
	}

	return AlbumPage{doc: doc}, nil
}

func (p AlbumPage) Info(now time.Time) (AlbumInfo, error) {
	dateText := htmlutil.CleanText(labeledValue(p.doc, "발매일").Text())
	releaseDate, err := parseReleaseDate(dateText, now)
	if err != nil {
		return AlbumInfo{}, err
	}

	return AlbumInfo{
		ReleaseDate: releaseDate,
		Agency:      htmlutil.CleanText(labeledValue(p.doc, "기획사").Text()),
	}, nil
}

func (p AlbumPage) Requirements(songID string) Requirements {
	genre := labeledValue(p.doc, "장르/스타일").Text()
	songRow := p.doc.Find(fmt.Sprintf("[songid='%s']", songID))
	return Requirements{
		Korean:     strings.Contains(genre, "가요"),
		TitleTrack: songRow.Find(".icon-title").Length() > 0,
	}
}

// Genie only publishes the release day. Assume 09:00 KST, the usual
// k-pop release hour; if that would put the release in the future,
// fall back to the top of the previous hour.
func parseReleaseDate(text string, now time.Time) (time.Time, error) {
	day, err := time.ParseInLocation("2006.01.02", text, timezone.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse release date %q: %w", text, err)
	}

	release := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, timezone.Location)
	if release.After(now) {
		release = time.Date(
			day.Year(), day.Month(), day.Day(),
			now.In(timezone.Location).Hour(), 0, 0, 0,
			timezone.Location,
		).Add(-time.Hour)
	}
	return release, nil
}
