// Package sources defines the schedule source registry. Each supported
// source is one extractor behind a common interface; the set is a closed
// enumeration dispatched explicitly, so an unknown identifier fails before
// any file is touched.
package sources

import (
	"context"

	"github.com/klrn-data/schedcheck/internal/config"
	"github.com/klrn-data/schedcheck/internal/sources/pbs"
	"github.com/klrn-data/schedcheck/internal/sources/protrack"
	"github.com/klrn-data/schedcheck/internal/sources/titan"
	pkgerrors "github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/logging"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// Source identifiers for the supported formats.
const (
	PBSID      = "pbs"
	ProtrackID = "protrack"
	TitanID    = "titan"
)

// Source extracts and normalizes one raw input file into canonical entries.
type Source interface {
	// ID returns the source identifier.
	ID() string

	// ParseFile extracts one raw input file into canonical entries.
	ParseFile(ctx context.Context, path string) (schedule.Schedule, error)
}

// New returns the extractor for a source identifier.
func New(id string, m *config.Manifest) (Source, error) {
	switch id {
	case PBSID:
		return pbs.New(m.AcceptedChannels()), nil
	case ProtrackID:
		return protrack.New(), nil
	case TitanID:
		return titan.New(), nil
	default:
		return nil, pkgerrors.UnknownSourceError(id)
	}
}

// Parse runs a source over all of its input files, concatenates the results,
// removes exact duplicates, and sorts by channel, date, and start time.
func Parse(ctx context.Context, src Source, paths []string) (schedule.Schedule, error) {
	var combined schedule.Schedule
	for _, path := range paths {
		s, err := src.ParseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		logging.Debug().
			Str("source", src.ID()).
			Str("file", path).
			Int("rows", len(s)).
			Msg("Parsed input file")
		combined = append(combined, s...)
	}
	return combined.Normalize(), nil
}
