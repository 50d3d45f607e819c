package downloader

import (
	"time"
)

// Status classifies the outcome of one calendar day in the per-date loop.
// Skips are not surfaced to the operator beyond the absence of a success
// line, but the distinction is kept so tests and debug logs can tell
// "no id resolved" from "fetch failed" from "malformed payload".
type Status string

const (
	StatusDownloaded         Status = "downloaded"
	StatusSkippedNoID        Status = "skipped_no_id"
	StatusSkippedMissingData Status = "skipped_missing_data"
	StatusSkippedFetchError  Status = "skipped_fetch_error"
)

// DateResult records what happened for one date of the range.
type DateResult struct {
	Date     time.Time
	PuzzleID int
	Path     string
	Status   Status
	Err      error
}

// Downloaded reports whether the date produced a file.
func (r DateResult) Downloaded() bool {
	return r.Status == StatusDownloaded
}

// Summary aggregates a full range-download run.
type Summary struct {
	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration
	// Waited is the cumulative time spent sleeping for rate-limit pacing.
	Waited time.Duration
	// Results holds one entry per calendar day of the range, in order.
	Results []DateResult
}

// DownloadedCount returns the number of dates that produced a file.
func (s *Summary) DownloadedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Downloaded() {
			n++
		}
	}
	return n
}
