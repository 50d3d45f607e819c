package downloader

import (
	"time"

	"nytxword/pkg/nyt"
)

// PuzzleClient defines the interface for the two crossword API operations
type PuzzleClient interface {
	PuzzleIDsByDateRange(start, end time.Time) (map[string]int, error)
	PuzzleByID(id int) (*nyt.Puzzle, error)
}
