// Package downloader orchestrates rate-limited crossword range downloads.
//
// A range download runs in two phases:
//
//  1. Resolve: the listing endpoint is called once per 100-day window of the
//     range, building a date -> puzzle id index. Any listing failure aborts
//     the run before a single file is written.
//  2. Fetch: every calendar day of the range is visited in order. Days with
//     a resolved id are fetched and persisted; days without one, and days
//     whose fetch fails, are skipped without stopping the run. Filesystem
//     failures are the exception and abort immediately.
//
// Every request cycle in both phases is paced to the configured minimum
// interval, and sliding-window caps on requests per minute and per day sit
// behind the pacer.
//
// Execution is strictly sequential. No request is in flight while another
// runs, which keeps the client well under the API's limits at the default
// interval and makes the destination directory the only shared resource.
package downloader
