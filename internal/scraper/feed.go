package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"show_notifier/internal/model"
)

// feedTimeLayout matches the weekday shape understood by showtime.Resolve.
const feedTimeLayout = "Mon 3:04 PM"

// Feed reads shows from an RSS or Atom schedule feed. Items tagged with the
// "live" category describe the current broadcast; all others are upcoming.
type Feed struct {
	client  HTTPClient
	url     string
	loc     *time.Location
	timeout time.Duration
}

// NewFeed creates a Feed source. Publish times are rendered in loc.
func NewFeed(client HTTPClient, url string, loc *time.Location) *Feed {
	if loc == nil {
		loc = time.Local
	}
	return &Feed{client: client, url: url, loc: loc, timeout: defaultTimeout}
}

// LiveShow returns the link of the first item tagged "live", if any.
func (f *Feed) LiveShow(ctx context.Context) (string, error) {
	feed, err := f.fetch(ctx)
	if err != nil {
		return "", err
	}
	for _, item := range feed.Items {
		if isLive(item) && item.Link != "" {
			return item.Link, nil
		}
	}
	return "", nil
}

// UpcomingShows returns every item not tagged "live".
func (f *Feed) UpcomingShows(ctx context.Context) ([]model.ShowRecord, error) {
	feed, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var shows []model.ShowRecord
	for _, item := range feed.Items {
		if isLive(item) || item.Link == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = untitledShow
		}
		shows = append(shows, model.ShowRecord{
			Title:   title,
			RawTime: f.rawTime(item),
			URL:     item.Link,
		})
	}
	return shows, nil
}

func (f *Feed) rawTime(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.In(f.loc).Format(feedTimeLayout)
	}
	if desc := strings.TrimSpace(item.Description); desc != "" {
		return desc
	}
	return unknownTime
}

func (f *Feed) fetch(ctx context.Context) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func isLive(item *gofeed.Item) bool {
	for _, c := range item.Categories {
		if strings.EqualFold(strings.TrimSpace(c), "live") {
			return true
		}
	}
	return false
}
