// Package nyt provides the HTTP client for the NYT crossword service.
//
// The service exposes two endpoints the downloader cares about:
//   - A v3 listing endpoint mapping a date range to puzzle ids, which works
//     without authentication
//   - A v6 puzzle endpoint returning one puzzle's full document, which
//     requires the NYT-S session cookie of a logged-in browser session
//
// Dates coming off the wire are not always zero padded ("1993-12-4"), so
// every date string is normalized before it is used as an index key or
// filename component.
//
// Fetched puzzle payloads are kept verbatim as raw JSON. The client only
// peeks far enough into the document to extract the publication date and to
// verify the board is present; a record missing either is reported as a
// missing-data error.
//
// Usage:
//
//	client := nyt.NewClient(30*time.Second, log)
//	client.SetSessionToken("NYT-S", token)
//
//	ids, err := client.PuzzleIDsByDateRange(start, end)
//	puzzle, err := client.PuzzleByID(ids["2024-03-07"])
package nyt
