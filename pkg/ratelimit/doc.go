// Package ratelimit provides client-side request pacing for the crossword
// downloader.
//
// The NYT crossword API enforces two unstated limits (4,000 requests per
// day, 10 requests per minute) and returns no Retry-After signal, so the
// downloader never learns when it has been throttled. Pacing is therefore
// purely preventive:
//
// Pacer:
//   - Enforces a minimum wall-clock interval between consecutive requests
//   - Sleeps off only the part of the interval the request did not consume
//   - Accumulates total sleep time for the end-of-run report
//
// SlidingWindow:
//   - Hard request-count cap over a moving time window
//   - One instance each for the per-minute and per-day caps
//   - Sits behind the pacer as defense in depth
//
// Usage:
//
//	pacer := ratelimit.NewPacer(30 * time.Second)
//	perMinute := ratelimit.NewSlidingWindow(10, time.Minute)
//
//	perMinute.Wait()
//	start := pacer.Begin()
//	// ... issue request ...
//	pacer.Pace(start)
package ratelimit
