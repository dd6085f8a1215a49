// Package scraper extracts live and upcoming show data from a seller's
// public profile. Every source returns plain model records; the caller
// decides what is new.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"show_notifier/internal/model"
)

const (
	// DefaultBaseURL is the public Whatnot host.
	DefaultBaseURL = "https://www.whatnot.com"

	liveMarker     = "Live ·"
	untitledShow   = "Untitled"
	unknownTime    = "Unknown"
	maxBodyBytes   = 5 * 1024 * 1024
	userAgent      = "ShowNotifier/1.0"
	defaultTimeout = 60 * time.Second
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Profile scrapes the HTML profile pages of a single seller.
type Profile struct {
	client   HTTPClient
	baseURL  string
	username string
	timeout  time.Duration
}

// NewProfile creates a Profile scraper. An empty baseURL means DefaultBaseURL.
func NewProfile(client HTTPClient, baseURL, username string) *Profile {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Profile{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		timeout:  defaultTimeout,
	}
}

// LiveShow returns the URL of the seller's current broadcast, or "" when the
// profile shows no live banner.
func (p *Profile) LiveShow(ctx context.Context) (string, error) {
	doc, err := p.fetchDocument(ctx, fmt.Sprintf("%s/user/%s", p.baseURL, p.username))
	if err != nil {
		return "", err
	}
	return findLiveURL(doc, p.baseURL), nil
}

// UpcomingShows returns every scheduled show listed on the seller's shows page.
func (p *Profile) UpcomingShows(ctx context.Context) ([]model.ShowRecord, error) {
	doc, err := p.fetchDocument(ctx, fmt.Sprintf("%s/user/%s/shows", p.baseURL, p.username))
	if err != nil {
		return nil, err
	}
	return extractShows(doc, p.baseURL), nil
}

func (p *Profile) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func findLiveURL(doc *goquery.Document, baseURL string) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(a.Text(), liveMarker) {
			return true
		}
		href, _ := a.Attr("href")
		if href == "" {
			return true
		}
		found = absoluteURL(baseURL, href)
		return false
	})
	return found
}

// extractShows walks the show cards. Each card is an anchor to /live/<id>
// whose nested div holds the time; the title sits in a sibling block of the
// anchor's grandparent.
func extractShows(doc *goquery.Document, baseURL string) []model.ShowRecord {
	var shows []model.ShowRecord
	doc.Find(`a[href*="/live/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}

		rawTime := strings.TrimSpace(a.ChildrenFiltered("div").ChildrenFiltered("div").ChildrenFiltered("div").First().Text())
		if rawTime == "" {
			rawTime = unknownTime
		}

		title := strings.TrimSpace(a.Parent().Parent().NextAllFiltered("div").Find(`div[class*="text-400"]`).First().Text())
		if title == "" {
			title = untitledShow
		}

		shows = append(shows, model.ShowRecord{
			Title:   title,
			RawTime: rawTime,
			URL:     absoluteURL(baseURL, href),
		})
	})
	return shows
}

func absoluteURL(baseURL, href string) string {
	if strings.HasPrefix(href, "/") {
		return baseURL + href
	}
	return href
}
