package store

import (
	"path/filepath"
	"strings"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/reconcile"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// MismatchSuffix is appended before the extension to name the filtered
// mismatch file derived from a report.
const MismatchSuffix = "_mismatches"

// MismatchValue marks a mismatched row in the report's leading column.
const MismatchValue = "YES"

// WriteReport writes the full reconciliation report to path and the
// mismatch-only rows to the MismatchPath sibling. Both files come from the
// same computed report; the second is strictly a filter of the first.
func WriteReport(path string, report *reconcile.Report) error {
	if err := writeCSV(path, reportRecords(report, report.Rows)); err != nil {
		return err
	}
	return writeCSV(MismatchPath(path), reportRecords(report, report.Mismatches()))
}

// MismatchPath derives the mismatch file name: "out/pbs_titan.csv" becomes
// "out/pbs_titan_mismatches.csv".
func MismatchPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + MismatchSuffix + ext
}

// reportRecords renders rows with the leading MISMATCH column, the shared
// join-key columns, and each side's fields suffixed with its source tag.
func reportRecords(report *reconcile.Report, rows []reconcile.Row) [][]string {
	header := []string{"MISMATCH", ColChannel, ColDate, ColStartTime}
	header = append(header, suffixed(report.RefTag)...)
	header = append(header, suffixed(report.CompTag)...)

	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, row := range rows {
		mismatch := ""
		if row.Mismatch {
			mismatch = MismatchValue
		}
		record := []string{
			mismatch,
			row.Channel,
			row.Date.Format(constants.DateLayout),
			row.Start.String(),
		}
		record = append(record, sideFields(row.Ref)...)
		record = append(record, sideFields(row.Comp)...)
		records = append(records, record)
	}
	return records
}

// suffixed returns one side's column names labeled with its source tag.
func suffixed(tag string) []string {
	names := []string{ColProgramName, ColEpisodeName, ColNolaEpisode, ColEpisodeNumber, ColDescription}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = name + " - " + tag
	}
	return out
}

// sideFields renders one side's values, empty when the side is absent.
func sideFields(e *schedule.Entry) []string {
	if e == nil {
		return []string{"", "", "", "", ""}
	}
	return []string{e.Name, e.EpisodeName, e.NolaEpisode, e.EpisodeNumber, e.Description}
}
