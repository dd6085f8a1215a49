package scraper

import (
	"context"
	"fmt"

	"show_notifier/internal/model"
)

// Static serves fixed data. It backs dry runs and tests.
type Static struct {
	Live  string
	Shows []model.ShowRecord
	Err   error
}

// LiveShow returns s.Live, or s.Err when set.
func (s *Static) LiveShow(_ context.Context) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Live, nil
}

// UpcomingShows returns a copy of s.Shows, or s.Err when set.
func (s *Static) UpcomingShows(_ context.Context) ([]model.ShowRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.ShowRecord, len(s.Shows))
	copy(out, s.Shows)
	return out, nil
}

// Demo returns a Static source with a plausible schedule for username.
func Demo(baseURL, username string) *Static {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Static{
		Live: fmt.Sprintf("%s/live/%s-demo", baseURL, username),
		Shows: []model.ShowRecord{
			{Title: "Friday Night Packs", RawTime: "Fri 8:30 PM", URL: baseURL + "/live/demo-fri"},
			{Title: "Tomorrow's Singles Auction", RawTime: "Tomorrow 9:00 PM", URL: baseURL + "/live/demo-tomorrow"},
			{Title: "Sunday Breaks", RawTime: "Sun 7:00 PM", URL: baseURL + "/live/demo-sun"},
		},
	}
}
