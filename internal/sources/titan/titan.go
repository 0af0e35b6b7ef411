// Package titan ingests the vendor's MHTML grid export. The export is a
// browser-saved MIME archive of the scheduling grid: one column of cells per
// day, a date header row, and cell text of the form
//
//	<program name> H:MM ... Epi#: <number> <description>
//
// Cell times are bare 12-hour readings with no AM/PM marker, so the rows are
// collected in column order and run through the disambiguation resolver.
package titan

import (
	"context"
	"regexp"
	"time"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/logging"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// DefaultChannel is assumed when the file name carries no channel suffix.
const DefaultChannel = "9.1"

var (
	timeRE    = regexp.MustCompile(`\d{1,2}:\d{2}`)
	episodeRE = regexp.MustCompile(`Epi#:\s*(\d+[a-zA-Z]?)`)
	descRE    = regexp.MustCompile(`Epi#:\s*\d+[a-zA-Z]?\s*(.*)`)
	channelRE = regexp.MustCompile(`_([^_]+)\.mhtml$`)
)

// Source extracts canonical entries from grid exports.
type Source struct{}

// New creates a titan source.
func New() *Source { return &Source{} }

// ID returns the source identifier.
func (s *Source) ID() string { return "titan" }

// ParseFile extracts one grid export: locate the HTML part, read the grid
// columns and date headers, resolve the bare times, and map to entries.
// A desync during resolution aborts the whole file; nothing is returned.
func (s *Source) ParseFile(ctx context.Context, path string) (schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlSrc, err := htmlPart(path)
	if err != nil {
		return nil, err
	}

	grid, err := parseGrid(htmlSrc)
	if err != nil {
		return nil, errors.NewExtractionError("titan", path, err.Error(), err)
	}
	if len(grid.columns) == 0 {
		return nil, errors.NewExtractionError("titan", path, "no grid columns found", errors.ErrNoData)
	}
	if len(grid.dates) != len(grid.columns) {
		return nil, errors.NewExtractionError("titan", path,
			"date headers do not align with grid columns", errors.ErrNoData)
	}

	channel := channelFromFilename(path)

	// Column-major order: every cell of day one, then day two, and so on.
	// That is the broadcast order the resolver depends on.
	var listings []schedule.RawListing
	for i, column := range grid.columns {
		date, err := time.ParseInLocation(constants.DateLayout, grid.dates[i], time.UTC)
		if err != nil {
			return nil, errors.NewExtractionError("titan", path, "unparseable date header "+grid.dates[i], err)
		}
		for _, cell := range column {
			listing, ok := splitCell(path, cell)
			if !ok {
				continue
			}
			listing.Channel = channel
			listing.Date = date
			listings = append(listings, listing)
		}
	}

	resolved, err := schedule.ResolveTimes(listings)
	if err != nil {
		return nil, err
	}

	out := make(schedule.Schedule, len(listings))
	for i, listing := range listings {
		out[i] = schedule.Entry{
			Channel:       listing.Channel,
			Date:          resolved[i].Date,
			Start:         resolved[i].Start,
			Name:          listing.Name,
			EpisodeNumber: listing.EpisodeNumber,
			Description:   listing.Description,
		}
	}
	return out, nil
}

// splitCell extracts the start time, program name, episode number, and
// description from one grid cell's text. Cells without a time cannot be
// placed on the schedule and are skipped with a diagnostic.
func splitCell(path, text string) (schedule.RawListing, bool) {
	text = schedule.CollapseWhitespace(text)

	loc := timeRE.FindStringIndex(text)
	if loc == nil {
		logging.Warn().Str("file", path).Str("cell", text).Msg("Skipping cell without time")
		return schedule.RawListing{}, false
	}

	clock, err := schedule.ParseClock(text[loc[0]:loc[1]])
	if err != nil {
		logging.Warn().Str("file", path).Str("cell", text).Msg("Skipping cell with bad time")
		return schedule.RawListing{}, false
	}

	name := schedule.CollapseWhitespace(text[:loc[0]])
	if name == "" {
		logging.Warn().Str("file", path).Str("cell", text).Msg("Cell has a time but no program name")
	}

	var episode, description string
	if m := episodeRE.FindStringSubmatch(text); m != nil {
		episode = schedule.FormatEpisode(m[1])
	}
	if m := descRE.FindStringSubmatch(text); m != nil {
		description = schedule.CollapseWhitespace(m[1])
	}

	return schedule.RawListing{
		Clock:         clock,
		Name:          name,
		EpisodeNumber: episode,
		Description:   description,
	}, true
}

// channelFromFilename pulls the channel out of names like MediaStar_9.1.mhtml.
func channelFromFilename(path string) string {
	if m := channelRE.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return DefaultChannel
}
