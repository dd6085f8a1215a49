// Package announce renders the fixed text templates posted to chat channels.
package announce

import (
	"fmt"
	"strings"

	"show_notifier/internal/model"
)

// UpcomingHeader opens every upcoming-shows message.
const UpcomingHeader = "**📅 Upcoming Shows:**"

// FormatShow renders a single show. The result doubles as the show's
// announcement fingerprint, so identical records always render identically.
func FormatShow(show model.ShowRecord) string {
	return fmt.Sprintf("📅 **%s**\n🕒 %s\n🔗 %s", show.Title, show.RawTime, show.URL)
}

// FormatUpcoming joins already-rendered shows under the upcoming header.
func FormatUpcoming(rendered []string) string {
	var b strings.Builder
	b.WriteString(UpcomingHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rendered, "\n\n"))
	return b.String()
}

// FormatLive renders the live announcement. An empty tag is omitted.
func FormatLive(username, tag, url string) string {
	var b strings.Builder
	b.WriteString("🚨 ")
	if tag != "" {
		b.WriteString(tag)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "**%s is now LIVE!** 🚨\n🎥 %s", username, url)
	return b.String()
}
