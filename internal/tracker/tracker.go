// Package tracker decides which scraped results are new enough to announce.
//
// Both trackers are pure: they take the remembered state and return the next
// state without touching their inputs. The caller owns the state and must not
// call them concurrently for the same check.
package tracker

import (
	"sort"
	"time"

	"show_notifier/internal/announce"
	"show_notifier/internal/model"
	"show_notifier/internal/showtime"
)

// ObserveLive folds a scraped live URL into state. An empty scrapedURL (no
// live show, or the scrape failed) leaves state untouched.
//
// A broadcast ending is never observed: the slot stays notified until a
// different URL shows up, so a repeat of the same URL is not re-announced.
func ObserveLive(scrapedURL string, state model.LiveState) (bool, model.LiveState) {
	if scrapedURL == "" {
		return false, state
	}

	next := state
	if scrapedURL != next.CurrentURL {
		next = model.LiveState{CurrentURL: scrapedURL}
	}

	if next.CurrentURL != "" && !next.Notified {
		next.Notified = true
		return true, next
	}
	return false, next
}

// Announcement is a show that has not been announced before.
type Announcement struct {
	Fingerprint string
	Show        model.ShowRecord
}

// ObserveUpcoming returns the shows whose fingerprint is not in announced,
// in scrape order and without duplicates, plus the grown set.
func ObserveUpcoming(shows []model.ShowRecord, announced model.AnnouncedSet) ([]Announcement, model.AnnouncedSet) {
	next := announced.Clone()

	var fresh []Announcement
	for _, show := range shows {
		fp := announce.FormatShow(show)
		if next.Has(fp) {
			continue
		}
		next[fp] = struct{}{}
		fresh = append(fresh, Announcement{Fingerprint: fp, Show: show})
	}
	return fresh, next
}

// SortByTime orders announcements by resolved show time, earliest first.
// Shows resolving to the same instant keep their relative order.
func SortByTime(anns []Announcement, now time.Time) {
	keys := make(map[string]time.Time, len(anns))
	for _, a := range anns {
		keys[a.Fingerprint] = showtime.Resolve(a.Show.RawTime, now)
	}
	sort.SliceStable(anns, func(i, j int) bool {
		return keys[anns[i].Fingerprint].Before(keys[anns[j].Fingerprint])
	})
}

// Fingerprints returns the rendered text of each announcement.
func Fingerprints(anns []Announcement) []string {
	out := make([]string, len(anns))
	for i, a := range anns {
		out[i] = a.Fingerprint
	}
	return out
}
