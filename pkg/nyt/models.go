package nyt

import (
	"encoding/json"
	"time"
)

// PuzzleListResponse is the body returned by the listing endpoint.
type PuzzleListResponse struct {
	Status  string         `json:"status"`
	Results []PuzzleRecord `json:"results"`
}

// PuzzleRecord is one entry in a listing response. Only the fields the
// downloader needs are mapped; the rest of the record is ignored.
type PuzzleRecord struct {
	PuzzleID  int    `json:"puzzle_id"`
	PrintDate string `json:"print_date"`
}

// puzzleEnvelope is the minimal shape used to validate a fetched puzzle
// document. The full payload is kept verbatim as raw JSON; only the
// publication date and the presence of the board are inspected.
type puzzleEnvelope struct {
	PublicationDate string       `json:"publicationDate"`
	Body            []puzzleBody `json:"body"`
}

type puzzleBody struct {
	Board json.RawMessage `json:"board"`
}

// Puzzle is one fully fetched puzzle: its id, normalized publication date
// and the verbatim document as returned by the API.
type Puzzle struct {
	ID   int
	Date time.Time
	Raw  json.RawMessage
}

// DateString returns the puzzle's publication date in canonical form.
func (p *Puzzle) DateString() string {
	return FormatDate(p.Date)
}
