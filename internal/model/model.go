// Package model defines the domain types used across the application.
package model

import "time"

// ShowRecord is a single upcoming show as scraped from the seller's profile.
type ShowRecord struct {
	Title   string
	RawTime string
	URL     string
}

// LiveState remembers the most recently detected live broadcast.
// CurrentURL is empty when no broadcast has been seen this session.
// Notified is true only while CurrentURL is unchanged since it was announced.
type LiveState struct {
	CurrentURL string
	Notified   bool
}

// AnnouncedSet holds the announcement fingerprints already pushed to the
// upcoming-shows channel. It only ever grows.
type AnnouncedSet map[string]struct{}

// Has reports whether fingerprint has already been announced.
func (s AnnouncedSet) Has(fingerprint string) bool {
	_, ok := s[fingerprint]
	return ok
}

// Clone returns an independent copy of the set.
func (s AnnouncedSet) Clone() AnnouncedSet {
	out := make(AnnouncedSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// CheckKind names one of the two periodic checks.
type CheckKind string

// Supported checks.
const (
	CheckLive     CheckKind = "live"
	CheckUpcoming CheckKind = "upcoming"
)

// FilterKind defines the type of title filter rule.
type FilterKind string

// Supported filter kinds.
const (
	FilterInclude   FilterKind = "include"
	FilterExclude   FilterKind = "exclude"
	FilterIncludeRe FilterKind = "include_re"
	FilterExcludeRe FilterKind = "exclude_re"
)

// Filter is a single rule applied to upcoming show titles.
type Filter struct {
	Kind  FilterKind
	Value string
}

// Notification is a message that was delivered to a chat.
type Notification struct {
	ID        int64
	Kind      CheckKind
	ChatID    int64
	Body      string
	CreatedAt time.Time
}

// Snapshot is a point-in-time view of the scheduler's state.
type Snapshot struct {
	Live              LiveState
	Announced         int
	LastLiveCheck     *time.Time
	LastUpcomingCheck *time.Time
}
