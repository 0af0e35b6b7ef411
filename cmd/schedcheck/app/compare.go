package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/reconcile"
	"github.com/klrn-data/schedcheck/pkg/schedule"
	"github.com/klrn-data/schedcheck/pkg/store"
)

// NewCompareCommand creates the compare command.
func (a *App) NewCompareCommand() *cobra.Command {
	var (
		channel   string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "compare <reference> <comparison>",
		Short: "Reconcile two sources' canonical schedules",
		Long: `Compare joins two canonical schedules on channel, date, and start time
and flags listings that disagree on program name or episode. The join is
restricted to the window both sources cover; start and end bounds can
tighten that window but never widen it.

Sides whose canonical CSV is not in the output directory yet are parsed
from their raw inputs first.`,
		Example: `  schedcheck compare protrack titan
  schedcheck compare protrack pbs --channel 9.2
  schedcheck compare titan pbs --startdate 20250317 --enddate 20250323`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			refID, compID := args[0], args[1]

			opts := []reconcile.Option{
				reconcile.WithChannel(normalizeChannel(channel)),
				reconcile.WithTags(refID, compID),
			}

			if startDate != "" {
				start, err := time.ParseInLocation(constants.CompactDateLayout, startDate, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --startdate %q: expected YYYYMMDD", startDate)
				}
				opts = append(opts, reconcile.WithStart(start))
			}
			if endDate != "" {
				end, err := time.ParseInLocation(constants.CompactDateLayout, endDate, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --enddate %q: expected YYYYMMDD", endDate)
				}
				// The end date bounds the window through its last second.
				opts = append(opts, reconcile.WithEnd(end.AddDate(0, 0, 1).Add(-time.Second)))
			}

			ref, err := a.loadSide(cmd.Context(), refID)
			if err != nil {
				return err
			}
			comp, err := a.loadSide(cmd.Context(), compID)
			if err != nil {
				return err
			}

			report := reconcile.Schedules(ref, comp, opts...)

			out := filepath.Join(a.config.OutputDir, refID+"_"+compID+".csv")
			if err := store.WriteReport(out, report); err != nil {
				return err
			}

			a.logger.Info().
				Str("reference", refID).
				Str("comparison", compID).
				Str("channel", report.Channel).
				Int("rows", len(report.Rows)).
				Int("mismatches", len(report.Mismatches())).
				Str("path", out).
				Str("mismatch_path", store.MismatchPath(out)).
				Msg("Wrote reconciliation report")
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", reconcile.DefaultChannel, "digital channel to reconcile")
	cmd.Flags().StringVar(&startDate, "startdate", "", "window start date (YYYYMMDD)")
	cmd.Flags().StringVar(&endDate, "enddate", "", "window end date, inclusive (YYYYMMDD)")
	return cmd
}

// loadSide returns one side's canonical schedule, reading the CSV written by
// an earlier parse when present and parsing the raw inputs otherwise.
func (a *App) loadSide(ctx context.Context, id string) (schedule.Schedule, error) {
	path := a.canonicalPath(id)
	if _, err := os.Stat(path); err == nil {
		a.logger.Debug().Str("source", id).Str("path", path).Msg("Using existing canonical schedule")
		return store.ReadSchedule(path)
	}
	return a.parseSource(ctx, id)
}

// normalizeChannel maps a bare channel number to its primary sub-channel, so
// "9" and "9.1" reconcile the same schedule.
func normalizeChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel != "" && !strings.Contains(channel, ".") {
		return channel + ".1"
	}
	return channel
}
