// Package pbs ingests the schedule API's JSON feed. Each file maps dates in
// YYYYMMDD form to a list of channel feeds; every listing carries a fully
// qualified start time, so no AM/PM disambiguation is needed. The package
// also hosts the fetcher that pulls those files from the API.
package pbs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/logging"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// metadataKey is the one top-level key that is not a date.
const metadataKey = "start_date"

// Source extracts canonical entries from feed files.
type Source struct {
	channels map[string]bool
}

// New creates a pbs source filtering to the accepted channel set.
func New(channels map[string]bool) *Source {
	return &Source{channels: channels}
}

// ID returns the source identifier.
func (s *Source) ID() string { return "pbs" }

// feedDay is one date's worth of channel feeds.
type feedDay struct {
	Feeds []feed `json:"feeds"`
}

type feed struct {
	DigitalChannel flexString `json:"digital_channel"`
	Listings       []listing  `json:"listings"`
}

type listing struct {
	StartTime     string     `json:"start_time"`
	Title         string     `json:"title"`
	EpisodeTitle  string     `json:"episode_title"`
	EpisodeNumber flexString `json:"episode_number"`
	Description   string     `json:"description"`
}

// ParseFile extracts one feed file.
func (s *Source) ParseFile(_ context.Context, path string) (schedule.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		if key != metadataKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out schedule.Schedule
	for _, key := range keys {
		date, err := time.ParseInLocation(constants.CompactDateLayout, key, time.UTC)
		if err != nil {
			logging.Warn().Str("file", path).Str("key", key).Msg("Skipping non-date key in feed")
			continue
		}

		var d feedDay
		if err := json.Unmarshal(days[key], &d); err != nil {
			// A fetch that failed for this day recorded null; skip it.
			if bytes.Equal(bytes.TrimSpace(days[key]), []byte("null")) {
				continue
			}
			return nil, errors.WrapParse("json", path, err)
		}

		for _, f := range d.Feeds {
			channel := string(f.DigitalChannel)
			if !s.channels[channel] {
				continue
			}
			for _, l := range f.Listings {
				entry, ok := s.entry(path, channel, date, l)
				if !ok {
					continue
				}
				out = append(out, entry)
			}
		}
	}
	return out, nil
}

// entry maps one listing to a canonical entry. Listings without a start time
// cannot be keyed and are skipped with a diagnostic.
func (s *Source) entry(path, channel string, date time.Time, l listing) (schedule.Entry, bool) {
	if len(l.StartTime) != 4 {
		logging.Warn().
			Str("file", path).
			Str("channel", channel).
			Str("title", l.Title).
			Str("start_time", l.StartTime).
			Msg("Skipping listing without usable start time")
		return schedule.Entry{}, false
	}

	start, err := schedule.ParseClock(l.StartTime[:2] + ":" + l.StartTime[2:])
	if err != nil {
		logging.Warn().
			Str("file", path).
			Str("start_time", l.StartTime).
			Msg("Skipping listing with malformed start time")
		return schedule.Entry{}, false
	}

	return schedule.Entry{
		Channel:       channel,
		Date:          date,
		Start:         start,
		Name:          schedule.CollapseWhitespace(l.Title),
		EpisodeName:   schedule.CollapseWhitespace(l.EpisodeTitle),
		EpisodeNumber: schedule.FormatEpisode(string(l.EpisodeNumber)),
		Description:   schedule.CollapseWhitespace(l.Description),
	}, true
}

// flexString decodes a JSON value that may arrive as a string or a number.
// The feed is inconsistent about episode numbers and channels.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}
