// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"show_notifier/internal/filter"
	"show_notifier/internal/model"
)

// Supported data sources.
const (
	SourceHTML   = "html"
	SourceFeed   = "feed"
	SourceStatic = "static"
)

const (
	defaultBroadcastTag     = "@everyone"
	noBroadcastTag          = "none"
	defaultLiveInterval     = 1 * time.Minute
	defaultUpcomingInterval = 30 * time.Minute
	defaultBaseURL          = "https://www.whatnot.com"
	defaultDatabasePath     = "./data/notifier.db"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	LiveChatID       int64
	UpcomingChatID   int64
	Username         string
	BroadcastTag     string
	LiveInterval     time.Duration
	UpcomingInterval time.Duration
	Source           string
	BaseURL          string
	FeedURL          string
	Location         *time.Location
	DatabasePath     string
	LogLevel         string
	AllowedUsers     []int64
	MetricsAddr      string
	ShowFilters      []model.Filter
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	liveChat, err := requiredChatID("LIVE_CHAT_ID")
	if err != nil {
		return nil, err
	}
	upcomingChat, err := requiredChatID("UPCOMING_CHAT_ID")
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(os.Getenv("WHATNOT_USERNAME"))
	if username == "" {
		return nil, fmt.Errorf("WHATNOT_USERNAME is required")
	}

	tag := envOrDefault("BROADCAST_TAG", defaultBroadcastTag)
	if strings.EqualFold(tag, noBroadcastTag) {
		tag = ""
	}

	liveEvery, err := durationOrDefault("LIVE_INTERVAL", defaultLiveInterval)
	if err != nil {
		return nil, err
	}
	upcomingEvery, err := durationOrDefault("UPCOMING_INTERVAL", defaultUpcomingInterval)
	if err != nil {
		return nil, err
	}

	source := strings.ToLower(envOrDefault("SOURCE", SourceHTML))
	feedURL := os.Getenv("FEED_URL")
	switch source {
	case SourceHTML, SourceStatic:
	case SourceFeed:
		if feedURL == "" {
			return nil, fmt.Errorf("FEED_URL is required when SOURCE=feed")
		}
	default:
		return nil, fmt.Errorf("invalid SOURCE %q, use: html, feed, static", source)
	}

	tz := envOrDefault("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	allowedUsers, err := parseUserIDs(os.Getenv("ALLOWED_USERS"))
	if err != nil {
		return nil, err
	}

	filters, err := parseShowFilters()
	if err != nil {
		return nil, err
	}

	return &Config{
		TelegramBotToken: token,
		LiveChatID:       liveChat,
		UpcomingChatID:   upcomingChat,
		Username:         username,
		BroadcastTag:     tag,
		LiveInterval:     liveEvery,
		UpcomingInterval: upcomingEvery,
		Source:           source,
		BaseURL:          strings.TrimRight(envOrDefault("BASE_URL", defaultBaseURL), "/"),
		FeedURL:          feedURL,
		Location:         loc,
		DatabasePath:     envOrDefault("DATABASE_PATH", defaultDatabasePath),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		AllowedUsers:     allowedUsers,
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		ShowFilters:      filters,
	}, nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requiredChatID(key string) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return id, nil
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		uid, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
		}
		ids = append(ids, uid)
	}
	return ids, nil
}

func parseShowFilters() ([]model.Filter, error) {
	var filters []model.Filter
	for _, w := range splitList(os.Getenv("SHOW_INCLUDE")) {
		filters = append(filters, model.Filter{Kind: model.FilterInclude, Value: w})
	}
	for _, w := range splitList(os.Getenv("SHOW_EXCLUDE")) {
		filters = append(filters, model.Filter{Kind: model.FilterExclude, Value: w})
	}

	for _, re := range []struct {
		key  string
		kind model.FilterKind
	}{
		{key: "SHOW_INCLUDE_RE", kind: model.FilterIncludeRe},
		{key: "SHOW_EXCLUDE_RE", kind: model.FilterExcludeRe},
	} {
		pattern := os.Getenv(re.key)
		if pattern == "" {
			continue
		}
		if err := filter.ValidateRegex(pattern); err != nil {
			return nil, fmt.Errorf("%s: %w", re.key, err)
		}
		filters = append(filters, model.Filter{Kind: re.kind, Value: pattern})
	}
	return filters, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
