package downloader

import (
	"fmt"
	"time"

	"nytxword/pkg/config"
	"nytxword/pkg/errors"
	"nytxword/pkg/logger"
	"nytxword/pkg/nyt"
	"nytxword/pkg/ratelimit"
	"nytxword/pkg/storage"
	"nytxword/pkg/ui"
)

// Downloader orchestrates the rate-limited range download: resolve puzzle
// ids for the whole range first, then fetch and persist one puzzle per
// calendar day, pacing every outbound request.
//
// Execution is strictly sequential; no request is ever in flight while
// another runs, so the only shared resource is the destination directory,
// which is written and never read back.
type Downloader struct {
	client   PuzzleClient
	writer   *storage.Writer
	pacer    *ratelimit.Pacer
	limiters []ratelimit.Limiter
	pageSize int
	logger   logger.Logger
}

// New creates a Downloader from configuration.
func New(cfg *config.Config) (*Downloader, error) {
	log := logger.GetLogger()

	client := nyt.NewClient(cfg.Download.RequestTimeout, log)
	if cfg.NYT.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.NYT.UserAgent)
	}
	if cfg.NYT.SessionToken != "" {
		client.SetSessionToken(cfg.NYT.CookieName, cfg.NYT.SessionToken)
	}

	// Hard caps behind the interval pacer. The pacer alone keeps a default
	// run under both, but a small --interval would otherwise let a long run
	// blow through them.
	limiters := []ratelimit.Limiter{
		ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerMinute, time.Minute),
		ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerDay, 24*time.Hour),
	}

	return &Downloader{
		client:   client,
		writer:   storage.NewWriter(cfg.Output.Destination, cfg.Output.DateFolders),
		pacer:    ratelimit.NewPacer(cfg.RateLimit.Interval()),
		limiters: limiters,
		pageSize: cfg.Download.PageSize,
		logger:   log,
	}, nil
}

// DownloadRange downloads every puzzle published in [start, end] inclusive.
//
// Phase 1 resolves puzzle ids window by window; any listing failure aborts
// the run with no files written. Phase 2 walks every calendar day in order,
// fetching and persisting; a date whose fetch fails for any reason is
// silently skipped, while a filesystem failure aborts the run. Both phases
// pace each request cycle to the configured minimum interval.
func (d *Downloader) DownloadRange(start, end time.Time) (*Summary, error) {
	dateRange, err := nyt.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	runStart := time.Now()
	d.pacer.Reset()

	d.logger.InfoWithFields("starting range download", map[string]interface{}{
		"date_start": nyt.FormatDate(dateRange.Start),
		"date_end":   nyt.FormatDate(dateRange.End),
		"days":       len(dateRange.Days()),
	})

	ids, err := d.resolveIDs(dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve puzzle ids: %w", err)
	}

	summary := &Summary{}
	for _, date := range dateRange.Days() {
		cycleStart := d.pacer.Begin()

		result, err := d.downloadDate(date, ids)
		if err != nil {
			return nil, err
		}
		if result.Downloaded() {
			ui.PrintDownloaded(nyt.FormatDate(date), result.PuzzleID, result.Path)
		} else if result.Err != nil {
			// Skips are silent on stdout; the reason survives in the
			// debug log and the result list.
			d.logger.DebugWithFields("date skipped", map[string]interface{}{
				"date":   nyt.FormatDate(date),
				"status": string(result.Status),
				"error":  result.Err.Error(),
			})
		}
		summary.Results = append(summary.Results, result)

		d.pacer.Pace(cycleStart)
	}

	summary.Elapsed = time.Since(runStart)
	summary.Waited = d.pacer.TotalWaited()

	d.logger.InfoWithFields("range download finished", map[string]interface{}{
		"downloaded": summary.DownloadedCount(),
		"elapsed":    summary.Elapsed,
		"waited":     summary.Waited,
	})

	return summary, nil
}

// resolveIDs builds the date -> puzzle id index across listing windows.
func (d *Downloader) resolveIDs(dateRange nyt.DateRange) (map[string]int, error) {
	ids := make(map[string]int)

	for _, window := range dateRange.Windows(d.pageSize) {
		d.waitForBudget()
		windowStart := d.pacer.Begin()

		windowIDs, err := d.client.PuzzleIDsByDateRange(window.Start, window.End)
		if err != nil {
			// No partial-index fallback: an incomplete index would turn
			// every unlisted date into a silent skip.
			return nil, err
		}
		for date, id := range windowIDs {
			ids[date] = id
		}

		d.logger.DebugWithFields("listing window resolved", map[string]interface{}{
			"window_start": nyt.FormatDate(window.Start),
			"window_end":   nyt.FormatDate(window.End),
			"total_ids":    len(ids),
		})

		d.pacer.Pace(windowStart)
	}

	return ids, nil
}

// downloadDate runs the fetch-and-persist cycle for one calendar day. A
// fetch failure of any kind is recorded as a skip; only a persist failure
// returns a non-nil error and aborts the run.
func (d *Downloader) downloadDate(date time.Time, ids map[string]int) (DateResult, error) {
	result := DateResult{Date: date}

	id, ok := ids[nyt.FormatDate(date)]
	if !ok {
		result.Status = StatusSkippedNoID
		return result, nil
	}
	result.PuzzleID = id

	d.waitForBudget()
	puzzle, err := d.client.PuzzleByID(id)
	if err != nil {
		result.Err = err
		if errors.IsMissingPuzzleData(err) {
			result.Status = StatusSkippedMissingData
		} else {
			result.Status = StatusSkippedFetchError
		}
		return result, nil
	}

	// The canonical date comes from the payload, not the loop variable;
	// the two can disagree when the API backfills a puzzle.
	path, err := d.writer.Persist(puzzle.ID, puzzle.Date, puzzle.Raw)
	if err != nil {
		return result, err
	}

	result.Status = StatusDownloaded
	result.Path = path
	return result, nil
}

// DownloadByID fetches and persists a single puzzle, bypassing the listing
// phase. Used by the --puzzle-id override; failures are fatal here.
func (d *Downloader) DownloadByID(id int) (*DateResult, error) {
	puzzle, err := d.client.PuzzleByID(id)
	if err != nil {
		return nil, err
	}

	path, err := d.writer.Persist(puzzle.ID, puzzle.Date, puzzle.Raw)
	if err != nil {
		return nil, err
	}

	result := &DateResult{
		Date:     puzzle.Date,
		PuzzleID: puzzle.ID,
		Path:     path,
		Status:   StatusDownloaded,
	}
	ui.PrintDownloaded(puzzle.DateString(), puzzle.ID, path)
	return result, nil
}

// DownloadDate resolves one date's puzzle id with a single-day listing
// call, then fetches and persists it. Failures are fatal here.
func (d *Downloader) DownloadDate(date time.Time) (*DateResult, error) {
	d.waitForBudget()
	listStart := d.pacer.Begin()
	ids, err := d.client.PuzzleIDsByDateRange(date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve puzzle id: %w", err)
	}
	d.pacer.Pace(listStart)

	id, ok := ids[nyt.FormatDate(date)]
	if !ok {
		return nil, errors.NewMissingPuzzleData(
			fmt.Sprintf("no puzzle listed for %s", nyt.FormatDate(date)))
	}

	return d.DownloadByID(id)
}

// waitForBudget blocks until every hard request cap admits one more call.
func (d *Downloader) waitForBudget() {
	for _, limiter := range d.limiters {
		limiter.Wait()
	}
}
