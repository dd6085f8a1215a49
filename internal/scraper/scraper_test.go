package scraper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"show_notifier/internal/model"
)

type mockTransport struct {
	mu         sync.Mutex
	body       string
	statusCode int
	err        error
	requested  []string
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requested = append(m.requested, req.URL.String())
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

const profileLiveHTML = `<!doctype html>
<html><body>
<nav><a href="/">Home</a></nav>
<div class="banner">
  <a href="/live/abc-123"><div><span>Live · 42 watching</span></div></a>
</div>
<a href="/live/other">Other show</a>
</body></html>`

const profileIdleHTML = `<!doctype html>
<html><body>
<nav><a href="/">Home</a></nav>
<a href="/live/scheduled">Scheduled · Fri 8:30 PM</a>
</body></html>`

const showsHTML = `<!doctype html>
<html><body>
<div class="grid">
  <div class="card">
    <div class="media">
      <div class="wrap">
        <a href="/live/show-1"><div><div><div> Tomorrow 9:00 PM </div></div></div></a>
      </div>
    </div>
    <div class="meta"><div class="text-400 font-bold">Pokemon Night</div></div>
  </div>
  <div class="card">
    <div class="media">
      <div class="wrap">
        <a href="https://www.whatnot.com/live/show-2"><div><div><div>Fri 8:30 PM</div></div></div></a>
      </div>
    </div>
    <div class="meta"><div class="avatar"></div><div class="text-400">One Piece Boxes</div></div>
  </div>
  <div class="card">
    <div class="media">
      <div class="wrap">
        <a href="/live/show-3"><img src="x.png"></a>
      </div>
    </div>
  </div>
  <a href="/user/someone-else">Someone else</a>
</div>
</body></html>`

func TestProfileLiveShow(t *testing.T) {
	tests := []struct {
		name      string
		transport *mockTransport
		want      string
		wantErr   bool
	}{
		{
			name:      "live banner present",
			transport: &mockTransport{body: profileLiveHTML, statusCode: 200},
			want:      "https://www.whatnot.com/live/abc-123",
		},
		{
			name:      "no live banner",
			transport: &mockTransport{body: profileIdleHTML, statusCode: 200},
			want:      "",
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "blocked", statusCode: 403},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile(tt.transport, "", "pokepals_uk")
			got, err := p.LiveShow(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LiveShow mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"https://www.whatnot.com/user/pokepals_uk"}, tt.transport.requested); diff != "" {
				t.Errorf("requested URL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProfileUpcomingShows(t *testing.T) {
	transport := &mockTransport{body: showsHTML, statusCode: 200}
	p := NewProfile(transport, "https://www.whatnot.com/", "pokepals_uk")

	got, err := p.UpcomingShows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.ShowRecord{
		{Title: "Pokemon Night", RawTime: "Tomorrow 9:00 PM", URL: "https://www.whatnot.com/live/show-1"},
		{Title: "One Piece Boxes", RawTime: "Fri 8:30 PM", URL: "https://www.whatnot.com/live/show-2"},
		{Title: "Untitled", RawTime: "Unknown", URL: "https://www.whatnot.com/live/show-3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UpcomingShows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://www.whatnot.com/user/pokepals_uk/shows"}, transport.requested); diff != "" {
		t.Errorf("requested URL mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileUpcomingShowsError(t *testing.T) {
	p := NewProfile(&mockTransport{statusCode: 500}, "", "pokepals_uk")
	if _, err := p.UpcomingShows(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

const scheduleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>pokepals_uk shows</title>
  <item>
    <title>Mystery Packs</title>
    <link>https://www.whatnot.com/live/now-1</link>
    <category>Live</category>
  </item>
  <item>
    <title>Pokemon Night</title>
    <link>https://www.whatnot.com/live/show-1</link>
    <pubDate>Fri, 14 Mar 2025 20:30:00 +0000</pubDate>
  </item>
  <item>
    <title>Sunday Breaks</title>
    <link>https://www.whatnot.com/live/show-2</link>
    <description>Sun 7:00 PM</description>
  </item>
  <item>
    <title></title>
    <link>https://www.whatnot.com/live/show-3</link>
  </item>
</channel>
</rss>`

func TestFeedSource(t *testing.T) {
	ctx := context.Background()

	t.Run("live item", func(t *testing.T) {
		f := NewFeed(&mockTransport{body: scheduleFeed, statusCode: 200}, "https://feeds.example.com/shows.xml", time.UTC)
		got, err := f.LiveShow(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff("https://www.whatnot.com/live/now-1", got); diff != "" {
			t.Errorf("LiveShow mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("upcoming items", func(t *testing.T) {
		f := NewFeed(&mockTransport{body: scheduleFeed, statusCode: 200}, "https://feeds.example.com/shows.xml", time.UTC)
		got, err := f.UpcomingShows(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []model.ShowRecord{
			{Title: "Pokemon Night", RawTime: "Fri 8:30 PM", URL: "https://www.whatnot.com/live/show-1"},
			{Title: "Sunday Breaks", RawTime: "Sun 7:00 PM", URL: "https://www.whatnot.com/live/show-2"},
			{Title: "Untitled", RawTime: "Unknown", URL: "https://www.whatnot.com/live/show-3"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("UpcomingShows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no live item", func(t *testing.T) {
		body := `<rss version="2.0"><channel><title>x</title></channel></rss>`
		f := NewFeed(&mockTransport{body: body, statusCode: 200}, "https://feeds.example.com/shows.xml", time.UTC)
		got, err := f.LiveShow(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("expected no live show, got %q", got)
		}
	})

	t.Run("invalid xml", func(t *testing.T) {
		f := NewFeed(&mockTransport{body: "not xml at all", statusCode: 200}, "https://feeds.example.com/shows.xml", time.UTC)
		if _, err := f.UpcomingShows(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		f := NewFeed(&mockTransport{body: "", statusCode: 404}, "https://feeds.example.com/shows.xml", time.UTC)
		if _, err := f.LiveShow(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestSourcesGiveUpOnUnresponsiveHost(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	const timeout = 100 * time.Millisecond

	feed := NewFeed(srv.Client(), srv.URL+"/shows.xml", time.UTC)
	feed.timeout = timeout
	profile := NewProfile(srv.Client(), srv.URL, "pokepals_uk")
	profile.timeout = timeout

	tests := []struct {
		name  string
		fetch func(context.Context) error
	}{
		{name: "feed live", fetch: func(ctx context.Context) error { _, err := feed.LiveShow(ctx); return err }},
		{name: "feed upcoming", fetch: func(ctx context.Context) error { _, err := feed.UpcomingShows(ctx); return err }},
		{name: "profile live", fetch: func(ctx context.Context) error { _, err := profile.LiveShow(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errc := make(chan error, 1)
			go func() { errc <- tt.fetch(context.Background()) }()

			select {
			case err := <-errc:
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("expected deadline exceeded, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("request did not time out")
			}
		})
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	s := Demo("", "pokepals_uk")
	live, err := s.LiveShow(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("https://www.whatnot.com/live/pokepals_uk-demo", live); diff != "" {
		t.Errorf("LiveShow mismatch (-want +got):\n%s", diff)
	}

	shows, _ := s.UpcomingShows(ctx)
	shows[0].Title = "mutated"
	again, _ := s.UpcomingShows(ctx)
	if again[0].Title == "mutated" {
		t.Error("UpcomingShows must return a copy")
	}

	failing := &Static{Err: errors.New("boom")}
	if _, err := failing.LiveShow(ctx); err == nil {
		t.Error("expected error from LiveShow")
	}
	if _, err := failing.UpcomingShows(ctx); err == nil {
		t.Error("expected error from UpcomingShows")
	}
}
