package bot

import (
	"fmt"
	"strconv"
	"strings"

	"show_notifier/internal/model"
)

const (
	defaultHistory = 10
	maxHistory     = 50
)

// ParseHistoryArgs extracts the number of notifications to show.
// An empty argument yields the default.
func ParseHistoryArgs(args string) (int, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return defaultHistory, nil
	}
	n, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil || n < 1 || n > maxHistory {
		return 0, fmt.Errorf("count must be between 1 and %d", maxHistory)
	}
	return n, nil
}

// ParseCheckArg maps a /check argument to a check kind. An empty argument
// selects both checks and is returned as the empty kind.
func ParseCheckArg(args string) (model.CheckKind, error) {
	s := strings.ToLower(strings.TrimSpace(args))
	switch model.CheckKind(s) {
	case "":
		return "", nil
	case model.CheckLive, model.CheckUpcoming:
		return model.CheckKind(s), nil
	default:
		return "", fmt.Errorf("unknown check %q, use: live, upcoming", s)
	}
}
