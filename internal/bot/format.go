package bot

import (
	"fmt"
	"strings"
	"time"

	"show_notifier/internal/model"
)

const (
	timeLayout     = "2006-01-02 15:04 UTC"
	previewLength  = 60
	neverChecked   = "never"
	noLiveDetected = "none"
)

// SentCounts holds the number of delivered notifications per check.
type SentCounts struct {
	Live     int
	Upcoming int
}

// FormatStatus formats the scheduler state for display.
func FormatStatus(username string, snap model.Snapshot, sent SentCounts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Watching %s\n\n", username)

	live := noLiveDetected
	if snap.Live.CurrentURL != "" {
		live = snap.Live.CurrentURL
	}
	fmt.Fprintf(&b, "Live stream: %s\n", live)
	fmt.Fprintf(&b, "Announced shows: %d\n", snap.Announced)
	fmt.Fprintf(&b, "Last live check: %s\n", formatCheckTime(snap.LastLiveCheck))
	fmt.Fprintf(&b, "Last upcoming check: %s\n", formatCheckTime(snap.LastUpcomingCheck))
	fmt.Fprintf(&b, "\nSent: %d live, %d upcoming", sent.Live, sent.Upcoming)
	return b.String()
}

// FormatHistory formats delivered notifications, newest first.
func FormatHistory(items []model.Notification) string {
	if len(items) == 0 {
		return "No notifications sent yet."
	}
	var b strings.Builder
	b.WriteString("Recent notifications:\n")
	for _, n := range items {
		fmt.Fprintf(&b, "\n#%d [%s] %s\n   %s\n", n.ID, n.Kind, n.CreatedAt.UTC().Format(timeLayout), preview(n.Body))
	}
	return b.String()
}

func formatCheckTime(t *time.Time) string {
	if t == nil {
		return neverChecked
	}
	return t.UTC().Format(timeLayout)
}

// preview returns the first line of body, shortened to previewLength runes.
func preview(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	if line == "" {
		line = strings.TrimSpace(body)
	}
	r := []rune(line)
	if len(r) > previewLength {
		return string(r[:previewLength]) + "…"
	}
	return line
}
