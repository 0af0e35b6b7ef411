// Package protrack ingests the traffic system's PDF schedule export. The
// PDF is a text report, one listing per line: program name, an optional nola
// episode marker, a frame-accurate start time, the station channel, and the
// broadcast date. Times are fully qualified 24-hour values, so no AM/PM
// disambiguation is needed.
package protrack

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/logging"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

var (
	// timeRE matches the report's HH:MM:SS:FF start times; the frame
	// component is dropped.
	timeRE = regexp.MustCompile(`\d{2}:\d{2}:\d{2}:\d{2}`)

	// channelRE matches the station channel, either a digital sub-channel
	// like 9.1 or a two-letter feed code.
	channelRE = regexp.MustCompile(`KLRN(\d+\.\d+|\w{2})`)

	dateRE = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)

	nolaRE = regexp.MustCompile(`#(\d+)`)
)

// Source extracts canonical entries from PDF schedule reports.
type Source struct{}

// New creates a protrack source.
func New() *Source { return &Source{} }

// ID returns the source identifier.
func (s *Source) ID() string { return "protrack" }

// ParseFile extracts one PDF report. Lines without a start time are layout
// text, not listings; listing lines missing a channel or date are skipped
// with a diagnostic.
func (s *Source) ParseFile(ctx context.Context, path string) (schedule.Schedule, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errors.WrapParse("pdf", path, err)
	}
	defer f.Close()

	var out schedule.Schedule
	lines := 0
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, errors.WrapParse("pdf", path, err)
		}
		for _, line := range strings.Split(text, "\n") {
			entry, ok := parseLine(path, line)
			if !ok {
				continue
			}
			lines++
			out = append(out, entry)
		}
	}

	if len(out) == 0 {
		return nil, errors.NewExtractionError("protrack", path, "no listing lines found", errors.ErrNoData)
	}
	logging.Debug().Str("file", path).Int("lines", lines).Msg("Extracted PDF listings")
	return out, nil
}

// parseLine extracts one listing line. The second return is false for
// non-listing lines and for listing lines missing required fields.
func parseLine(path, line string) (schedule.Entry, bool) {
	timeMatch := timeRE.FindString(line)
	if timeMatch == "" {
		return schedule.Entry{}, false
	}

	channelMatch := channelRE.FindStringSubmatch(line)
	dateMatch := dateRE.FindString(line)
	if channelMatch == nil || dateMatch == "" {
		logging.Warn().Str("file", path).Str("line", line).Msg("Skipping listing line without channel or date")
		return schedule.Entry{}, false
	}

	date, err := time.ParseInLocation(constants.DateLayout, dateMatch, time.UTC)
	if err != nil {
		logging.Warn().Str("file", path).Str("date", dateMatch).Msg("Skipping listing line with bad date")
		return schedule.Entry{}, false
	}

	// HH:MM:SS:FF keeps only the wall-clock part.
	start, err := schedule.ParseClock(timeMatch[:8])
	if err != nil {
		logging.Warn().Str("file", path).Str("time", timeMatch).Msg("Skipping listing line with bad time")
		return schedule.Entry{}, false
	}

	program := strings.TrimSpace(strings.SplitN(line, timeMatch, 2)[0])
	var nola string
	if m := nolaRE.FindString(program); m != "" {
		nola = m
		program = strings.TrimSpace(strings.SplitN(program, m, 2)[0])
	}

	return schedule.Entry{
		Channel:     channelMatch[1],
		Date:        date,
		Start:       start,
		Name:        schedule.CollapseWhitespace(program),
		NolaEpisode: nola,
	}, true
}
