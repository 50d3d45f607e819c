package nyt

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// BaseURL is the base URL for the NYT crossword service
	BaseURL = "https://www.nytimes.com"

	// PuzzleListEndpoint is the v3 listing endpoint returning puzzle
	// records (id + print date) for a date range
	PuzzleListEndpoint = "/svc/crosswords/v3/puzzles.json"

	// PuzzleEndpoint is the v6 endpoint pattern for one puzzle's full data
	PuzzleEndpoint = "/svc/crosswords/v6/puzzle/%d.json"

	// PublishType restricts listings to the daily puzzle
	PublishType = "daily"
)

// GetPuzzleListURL constructs the listing URL for an inclusive date range,
// sorted ascending by print date.
func GetPuzzleListURL(start, end time.Time) string {
	params := url.Values{}
	params.Set("publish_type", PublishType)
	params.Set("sort_order", "asc")
	params.Set("sort_by", "print_date")
	params.Set("date_start", FormatDate(start))
	params.Set("date_end", FormatDate(end))

	return fmt.Sprintf("%s%s?%s", BaseURL, PuzzleListEndpoint, params.Encode())
}

// GetPuzzleURL constructs the URL for fetching one puzzle by id.
func GetPuzzleURL(id int) string {
	return BaseURL + fmt.Sprintf(PuzzleEndpoint, id)
}
