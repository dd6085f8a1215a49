// Package filter implements the show title matching engine.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"show_notifier/internal/model"
)

type matcher func(lowerTitle string) bool

// Set is a compiled list of filters. Include rules are OR-ed (at least one
// must match when any exist); exclude rules veto. A nil or empty Set passes
// every title.
type Set struct {
	includes []matcher
	excludes []matcher
}

// NewSet compiles filters. A regex that fails to compile never matches, so
// an invalid include rule rejects everything it would have let through.
func NewSet(filters []model.Filter) *Set {
	s := &Set{}
	for _, f := range filters {
		m := compile(f)
		switch f.Kind {
		case model.FilterInclude, model.FilterIncludeRe:
			s.includes = append(s.includes, m)
		case model.FilterExclude, model.FilterExcludeRe:
			s.excludes = append(s.excludes, m)
		}
	}
	return s
}

// Empty reports whether the set has no rules.
func (s *Set) Empty() bool {
	return s == nil || len(s.includes)+len(s.excludes) == 0
}

// Match checks whether a show title passes the set.
func (s *Set) Match(title string) bool {
	if s.Empty() {
		return true
	}
	text := strings.ToLower(title)
	for _, m := range s.excludes {
		if m(text) {
			return false
		}
	}
	if len(s.includes) == 0 {
		return true
	}
	for _, m := range s.includes {
		if m(text) {
			return true
		}
	}
	return false
}

// Shows returns the shows whose titles pass the set, preserving order.
func (s *Set) Shows(shows []model.ShowRecord) []model.ShowRecord {
	if s.Empty() {
		return shows
	}
	var kept []model.ShowRecord
	for _, show := range shows {
		if s.Match(show.Title) {
			kept = append(kept, show)
		}
	}
	return kept
}

func compile(f model.Filter) matcher {
	switch f.Kind {
	case model.FilterInclude, model.FilterExclude:
		word := strings.ToLower(f.Value)
		return func(text string) bool { return strings.Contains(text, word) }
	case model.FilterIncludeRe, model.FilterExcludeRe:
		re, err := regexp.Compile("(?i)" + f.Value)
		if err != nil {
			return func(string) bool { return false }
		}
		return re.MatchString
	}
	return func(string) bool { return false }
}

// ValidateRegex checks whether a pattern is a valid regular expression.
func ValidateRegex(pattern string) error {
	if _, err := regexp.Compile("(?i)" + pattern); err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	return nil
}
