// Package store persists canonical schedules and reconciliation reports as
// flat CSV files. Writes go through a temp file and rename, so an aborted
// parse never leaves a partial canonical file behind.
package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// Canonical column names. Readers are header-indexed and tolerate supersets
// and subsets of this set; only the join-key columns are required.
const (
	ColChannel       = "Channel"
	ColDate          = "Date"
	ColStartTime     = "Start Time"
	ColProgramName   = "Program Name"
	ColEpisodeName   = "Episode Name"
	ColNolaEpisode   = "Nola Episode"
	ColEpisodeNumber = "Episode Number"
	ColDescription   = "Description"
)

var canonicalHeader = []string{
	ColChannel, ColDate, ColStartTime, ColProgramName,
	ColEpisodeName, ColNolaEpisode, ColEpisodeNumber, ColDescription,
}

// WriteSchedule writes a canonical schedule to path, replacing any existing
// file. The write is atomic: data lands in a temp file first.
func WriteSchedule(path string, s schedule.Schedule) error {
	records := make([][]string, 0, len(s)+1)
	records = append(records, canonicalHeader)
	for _, e := range s {
		records = append(records, []string{
			e.Channel,
			e.Date.Format(constants.DateLayout),
			e.Start.String(),
			e.Name,
			e.EpisodeName,
			e.NolaEpisode,
			e.EpisodeNumber,
			e.Description,
		})
	}
	return writeCSV(path, records)
}

// ReadSchedule reads a canonical schedule file. Columns are located by
// header name, so files from sources with fewer or extra columns still load.
func ReadSchedule(path string) (schedule.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	if len(records) == 0 {
		return nil, errors.NewExtractionError("store", path, "empty file", errors.ErrNoData)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{ColChannel, ColDate, ColStartTime} {
		if _, ok := cols[required]; !ok {
			return nil, errors.WrapParse("csv", path,
				errors.New("missing required column "+required))
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var s schedule.Schedule
	for _, record := range records[1:] {
		date, err := parseDate(field(record, ColDate))
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		start, err := schedule.ParseClock(field(record, ColStartTime))
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		s = append(s, schedule.Entry{
			Channel:       field(record, ColChannel),
			Date:          date,
			Start:         start,
			Name:          field(record, ColProgramName),
			EpisodeName:   field(record, ColEpisodeName),
			NolaEpisode:   field(record, ColNolaEpisode),
			EpisodeNumber: field(record, ColEpisodeNumber),
			Description:   field(record, ColDescription),
		})
	}
	return s, nil
}

// parseDate accepts the canonical MM/DD/YYYY form and the ISO date form that
// other tooling tends to emit.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{constants.DateLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date " + s)
}

// writeCSV writes records to a temp file in the target directory and renames
// it into place.
func writeCSV(path string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
