package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/klrn-data/schedcheck/internal/sources"
	"github.com/klrn-data/schedcheck/internal/sources/pbs"
	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
)

// NewFetchCommand creates the fetch command.
func (a *App) NewFetchCommand() *cobra.Command {
	var (
		startDate string
		endDate   string
		days      int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the listing feed from the schedule API",
		Long: `Fetch retrieves the network's listing feed one day at a time and writes
the batch to a single JSON file in the data directory, ready for parse.
A day that fails upstream is logged and recorded as absent; the batch
continues.

The API key is read from the ` + APIKeyEnv + ` environment variable.`,
		Example: `  schedcheck fetch                                # next 7 days from today
  schedcheck fetch --startdate 20250317 --days 3
  schedcheck fetch --startdate 20250317 --enddate 20250323`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.APIKey == "" {
				return errors.NewConfigError("fetch",
					"set "+APIKeyEnv+" to fetch from the schedule API", errors.ErrAPIKeyRequired)
			}

			start := time.Now().UTC().Truncate(24 * time.Hour)
			if startDate != "" {
				var err error
				start, err = time.ParseInLocation(constants.CompactDateLayout, startDate, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --startdate %q: expected YYYYMMDD", startDate)
				}
			}

			if endDate != "" {
				end, err := time.ParseInLocation(constants.CompactDateLayout, endDate, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --enddate %q: expected YYYYMMDD", endDate)
				}
				if end.Before(start) {
					return fmt.Errorf("--enddate %s is before the start date", endDate)
				}
				// End date is inclusive and takes precedence over --days.
				days = int(end.Sub(start).Hours()/24) + 1
				a.logger.Debug().Int("days", days).Msg("Day count derived from --enddate")
			}

			m, err := a.Manifest()
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				paths, err := m.InputPaths(a.config.DataDir, sources.PBSID)
				if err != nil {
					return err
				}
				path = paths[0]
			}

			if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
				return errors.WrapIO("mkdir", filepath.Dir(path), err)
			}

			f := pbs.NewFetcher(m.API.Endpoint, m.API.Station, a.config.APIKey)
			if err := f.FetchToFile(cmd.Context(), path, start, days); err != nil {
				return err
			}

			a.logger.Info().
				Str("start", start.Format(constants.CompactDateLayout)).
				Int("days", days).
				Str("path", path).
				Msg("Fetched listing feed")
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "startdate", "", "first day to fetch (YYYYMMDD, default today)")
	cmd.Flags().StringVar(&endDate, "enddate", "", "last day to fetch, inclusive (overrides --days)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to fetch")
	cmd.Flags().StringVar(&output, "output", "", "write the feed to this file instead of the configured input")
	return cmd
}
