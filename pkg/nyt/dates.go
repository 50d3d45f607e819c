package nyt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nytxword/pkg/errors"
)

// DateLayout is the canonical date format used for API parameters, index
// keys and filenames.
const DateLayout = "2006-01-02"

// NormalizeDate repairs a possibly non-zero-padded API date string such as
// "1993-12-4" into canonical "1993-12-04" form. Every date field coming off
// the wire must pass through here before it is used as a key, filename
// component or comparison value.
func NormalizeDate(dateStr string) (string, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return "", errors.NewMissingPuzzleData(fmt.Sprintf("malformed date string: %q", dateStr))
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return "", errors.NewMissingPuzzleData(fmt.Sprintf("malformed date string: %q", dateStr))
		}
		nums[i] = n
	}

	return fmt.Sprintf("%04d-%02d-%02d", nums[0], nums[1], nums[2]), nil
}

// ParseDate normalizes and parses an API date string.
func ParseDate(dateStr string) (time.Time, error) {
	normalized, err := NormalizeDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(DateLayout, normalized)
	if err != nil {
		return time.Time{}, errors.NewMissingPuzzleData(fmt.Sprintf("invalid date string: %q", dateStr))
	}
	return t, nil
}

// FormatDate renders a date in canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ErrInvalidRange is returned when a date range ends before it starts.
var ErrInvalidRange = fmt.Errorf("end date must not precede start date")

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange constructs an inclusive date range. Start == end is valid
// and covers exactly one day.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Days enumerates every calendar day in the range, in order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Windows partitions the range into consecutive sub-ranges of at most size
// days. The listing endpoint paginates caller-side, so large ranges are
// resolved one window at a time.
func (r DateRange) Windows(size int) []DateRange {
	if size <= 0 {
		size = 1
	}

	var windows []DateRange
	for start := r.Start; !start.After(r.End); start = start.AddDate(0, 0, size) {
		end := start.AddDate(0, 0, size-1)
		if end.After(r.End) {
			end = r.End
		}
		windows = append(windows, DateRange{Start: start, End: end})
	}
	return windows
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
