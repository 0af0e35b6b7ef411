// Package schedule defines the canonical broadcast-schedule model shared by
// every source: raw listings as extracted from a feed, PDF, or grid export,
// canonical entries after normalization, and the state machine that resolves
// bare 12-hour grid readings into absolute dates and times.
package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawListing is one listing row as produced by a source extractor, before
// time resolution and normalization. Date may be the zero time when the
// source does not carry one per row; Clock may be a bare 12-hour reading.
type RawListing struct {
	Channel       string
	Date          time.Time
	Clock         Clock
	Name          string
	EpisodeName   string
	NolaEpisode   string
	EpisodeNumber string
	Description   string
}

// Entry is one canonical schedule row. Entries are immutable once written to
// a canonical file; re-parsing replaces the file rather than patching it.
type Entry struct {
	Channel       string
	Date          time.Time
	Start         Clock
	Name          string
	EpisodeName   string
	NolaEpisode   string
	EpisodeNumber string
	Description   string
}

// At combines the entry's date and start time into an absolute timestamp.
func (e Entry) At() time.Time {
	return e.Date.Add(time.Duration(e.Start.Seconds()) * time.Second)
}

// Schedule is an ordered collection of canonical entries.
type Schedule []Entry

// FilterChannel returns the entries broadcast on the given channel.
func (s Schedule) FilterChannel(channel string) Schedule {
	var out Schedule
	for _, e := range s {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

// Dedupe removes exact-duplicate rows, keeping first occurrences in order.
func (s Schedule) Dedupe() Schedule {
	seen := make(map[Entry]struct{}, len(s))
	out := make(Schedule, 0, len(s))
	for _, e := range s {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Sort orders entries by channel (numerically, so 9.2 sorts before 9.10),
// then date, then start time.
func (s Schedule) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Channel != s[j].Channel {
			return channelLess(s[i].Channel, s[j].Channel)
		}
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.Before(s[j].Date)
		}
		return s[i].Start.Before(s[j].Start)
	})
}

// Normalize dedupes and sorts the schedule in one pass, returning the result.
// Running it twice over the same input yields identical output.
func (s Schedule) Normalize() Schedule {
	out := s.Dedupe()
	out.Sort()
	return out
}

// channelLess orders digital channel identifiers numerically when both parse
// as numbers, falling back to lexical order.
func channelLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// FormatEpisode renders an episode identifier with its leading "#" marker,
// or an empty string when the source carried none.
func FormatEpisode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "#" + s
}

// Date truncates a timestamp to its date component in UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
