package app

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/klrn-data/schedcheck/internal/sources"
	"github.com/klrn-data/schedcheck/pkg/schedule"
	"github.com/klrn-data/schedcheck/pkg/store"
)

// NewParseCommand creates the parse command.
func (a *App) NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [source...]",
		Short: "Extract raw schedule inputs into canonical CSV files",
		Long: `Parse reads each source's raw input files from the data directory,
normalizes the listings into canonical form, and writes one CSV per
source to the output directory. With no arguments every configured
source is parsed.`,
		Example: `  schedcheck parse              # parse every configured source
  schedcheck parse titan        # parse only the grid export
  schedcheck parse protrack pbs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				m, err := a.Manifest()
				if err != nil {
					return err
				}
				for id := range m.Sources {
					ids = append(ids, id)
				}
				sort.Strings(ids)
			}

			for _, id := range ids {
				if _, err := a.parseSource(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// parseSource parses one source's inputs and writes its canonical CSV.
func (a *App) parseSource(ctx context.Context, id string) (schedule.Schedule, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}

	paths, err := m.InputPaths(a.config.DataDir, id)
	if err != nil {
		return nil, err
	}

	src, err := sources.New(id, m)
	if err != nil {
		return nil, err
	}

	sched, err := sources.Parse(ctx, src, paths)
	if err != nil {
		return nil, err
	}

	out := a.canonicalPath(id)
	if err := store.WriteSchedule(out, sched); err != nil {
		return nil, err
	}

	a.logger.Info().
		Str("source", id).
		Int("rows", len(sched)).
		Str("path", out).
		Msg("Wrote canonical schedule")
	return sched, nil
}

// canonicalPath is where a source's canonical CSV lives in the output
// directory.
func (a *App) canonicalPath(id string) string {
	return filepath.Join(a.config.OutputDir, id+".csv")
}
