// Package constants provides shared constants used throughout the schedcheck
// codebase: date and time layouts, file permissions, and timeouts that should
// be consistent across the application.
package constants

import "time"

// Layout constants for the formats used across canonical files and the API.
const (
	// DateLayout is the calendar date format in canonical schedule files
	DateLayout = "01/02/2006"

	// TimeLayout is the start-time format in canonical schedule files
	TimeLayout = "15:04:05"

	// CompactDateLayout is the YYYYMMDD form used by the schedule API and
	// the --startdate/--enddate flags
	CompactDateLayout = "20060102"
)

// Timeout constants define timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for schedule API requests
	DefaultHTTPTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
