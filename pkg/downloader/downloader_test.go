package downloader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nytxword/pkg/errors"
	"nytxword/pkg/logger"
	"nytxword/pkg/nyt"
	"nytxword/pkg/ratelimit"
	"nytxword/pkg/storage"
	"nytxword/pkg/ui"
)

// fakeClient scripts the two API operations for tests.
type fakeClient struct {
	listFunc  func(start, end time.Time) (map[string]int, error)
	fetchFunc func(id int) (*nyt.Puzzle, error)

	listCalls  int
	fetchCalls []int
}

func (f *fakeClient) PuzzleIDsByDateRange(start, end time.Time) (map[string]int, error) {
	f.listCalls++
	return f.listFunc(start, end)
}

func (f *fakeClient) PuzzleByID(id int) (*nyt.Puzzle, error) {
	f.fetchCalls = append(f.fetchCalls, id)
	return f.fetchFunc(id)
}

func makePuzzle(t *testing.T, id int, dateStr string) *nyt.Puzzle {
	t.Helper()

	date, err := nyt.ParseDate(dateStr)
	require.NoError(t, err)

	raw := fmt.Sprintf(`{"publicationDate":%q,"body":[{"board":[{"x":0}]}]}`, dateStr)
	return &nyt.Puzzle{ID: id, Date: date, Raw: json.RawMessage(raw)}
}

// newTestDownloader wires a Downloader around a fake client with pacing
// disabled, writing into a temp directory.
func newTestDownloader(t *testing.T, client *fakeClient) (*Downloader, string) {
	t.Helper()

	dir := t.TempDir()
	return &Downloader{
		client:   client,
		writer:   storage.NewWriter(dir, false),
		pacer:    ratelimit.NewPacer(0),
		pageSize: 100,
		logger:   logger.NewTestLogger(),
	}, dir
}

func day(dateStr string) time.Time {
	d, err := time.Parse(nyt.DateLayout, dateStr)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMain(m *testing.M) {
	ui.SetQuietMode(true)
	os.Exit(m.Run())
}

func TestDownloadRangeAllDays(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{
				"2024-03-01": 101,
				"2024-03-02": 102,
				"2024-03-03": 103,
			}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, fmt.Sprintf("2024-03-%02d", id-100)), nil
		},
	}
	d, dir := newTestDownloader(t, client)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-03"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.DownloadedCount())
	assert.Len(t, summary.Results, 3)
	assert.Equal(t, []int{101, 102, 103}, client.fetchCalls)

	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		if _, err := os.Stat(filepath.Join(dir, date+".json")); err != nil {
			t.Errorf("missing puzzle file for %s: %v", date, err)
		}
	}
}

func TestDownloadRangeSkipsUnlistedDates(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			// 2024-03-02 has no published puzzle
			return map[string]int{
				"2024-03-01": 101,
				"2024-03-03": 103,
			}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, fmt.Sprintf("2024-03-%02d", id-100)), nil
		},
	}
	d, dir := newTestDownloader(t, client)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-03"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.DownloadedCount())
	require.Len(t, summary.Results, 3)
	assert.Equal(t, StatusSkippedNoID, summary.Results[1].Status)
	assert.Equal(t, []int{101, 103}, client.fetchCalls, "unlisted date must not be fetched")

	if _, err := os.Stat(filepath.Join(dir, "2024-03-02.json")); !os.IsNotExist(err) {
		t.Error("no file should exist for the unlisted date")
	}
}

func TestDownloadRangeSkipsMissingData(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{
				"2024-03-01": 101,
				"2024-03-02": 102,
				"2024-03-03": 103,
			}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			if id == 102 {
				return nil, errors.NewMissingPuzzleData("puzzle 102 has no board")
			}
			return makePuzzle(t, id, fmt.Sprintf("2024-03-%02d", id-100)), nil
		},
	}
	d, dir := newTestDownloader(t, client)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-03"))
	require.NoError(t, err, "a malformed puzzle must not abort the run")

	assert.Equal(t, 2, summary.DownloadedCount())
	assert.Equal(t, StatusSkippedMissingData, summary.Results[1].Status)

	if _, err := os.Stat(filepath.Join(dir, "2024-03-03.json")); err != nil {
		t.Error("later dates should still be downloaded after a skip")
	}
}

func TestDownloadRangeSkipsFetchErrors(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{"2024-03-01": 101, "2024-03-02": 102}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			if id == 101 {
				return nil, &errors.Error{Type: errors.ErrorTypeServerError, Message: "server error", Code: 502}
			}
			return makePuzzle(t, id, "2024-03-02"), nil
		},
	}
	d, _ := newTestDownloader(t, client)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-02"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DownloadedCount())
	assert.Equal(t, StatusSkippedFetchError, summary.Results[0].Status)
	assert.Error(t, summary.Results[0].Err)
}

func TestDownloadRangeListingFailureAborts(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return nil, &errors.Error{Type: errors.ErrorTypeNetwork, Message: "network error"}
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			t.Fatal("no puzzle should be fetched when listing fails")
			return nil, nil
		},
	}
	d, dir := newTestDownloader(t, client)

	_, err := d.DownloadRange(day("2024-03-01"), day("2024-03-03"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve puzzle ids")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no files should be written when listing fails")
}

func TestDownloadRangeInvalidRange(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return nil, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return nil, nil
		},
	}
	d, _ := newTestDownloader(t, client)

	_, err := d.DownloadRange(day("2024-03-03"), day("2024-03-01"))
	require.ErrorIs(t, err, nyt.ErrInvalidRange)
	assert.Zero(t, client.listCalls, "invalid range must make no network calls")
}

func TestDownloadRangePersistFailureAborts(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{"2024-03-01": 101, "2024-03-02": 102}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, fmt.Sprintf("2024-03-%02d", id-100)), nil
		},
	}
	d, _ := newTestDownloader(t, client)

	// Point the writer's base directory at a regular file so MkdirAll fails
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))
	d.writer = storage.NewWriter(filepath.Join(blocked, "puzzles"), false)

	_, err := d.DownloadRange(day("2024-03-01"), day("2024-03-02"))
	require.Error(t, err, "a filesystem failure must abort the run")
	assert.Equal(t, []int{101}, client.fetchCalls, "the run must stop at the first persist failure")
}

func TestDownloadRangeUsesPayloadDate(t *testing.T) {
	// The API listing says 2024-03-01 but the payload says 2024-02-29;
	// the payload's date wins for the filename.
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{"2024-03-01": 101}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, "2024-02-29"), nil
		},
	}
	d, dir := newTestDownloader(t, client)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-01"))
	require.NoError(t, err)
	require.Equal(t, 1, summary.DownloadedCount())

	if _, err := os.Stat(filepath.Join(dir, "2024-02-29.json")); err != nil {
		t.Errorf("file should be named by the payload's publication date: %v", err)
	}
}

func TestDownloadRangeWindowsListing(t *testing.T) {
	var windows [][2]string
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			windows = append(windows, [2]string{nyt.FormatDate(start), nyt.FormatDate(end)})
			return map[string]int{}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return nil, nil
		},
	}
	d, _ := newTestDownloader(t, client)
	d.pageSize = 2

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-05"))
	require.NoError(t, err)

	assert.Equal(t, [][2]string{
		{"2024-03-01", "2024-03-02"},
		{"2024-03-03", "2024-03-04"},
		{"2024-03-05", "2024-03-05"},
	}, windows)
	assert.Equal(t, 0, summary.DownloadedCount())
	assert.Empty(t, client.fetchCalls)
}

func TestDownloadByID(t *testing.T) {
	client := &fakeClient{
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, "2024-03-07"), nil
		},
	}
	d, dir := newTestDownloader(t, client)

	result, err := d.DownloadByID(21830)
	require.NoError(t, err)

	assert.Equal(t, 21830, result.PuzzleID)
	assert.Equal(t, StatusDownloaded, result.Status)
	assert.Equal(t, filepath.Join(dir, "2024-03-07.json"), result.Path)

	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("puzzle file not written: %v", err)
	}
}

func TestDownloadByIDFetchFailureIsFatal(t *testing.T) {
	client := &fakeClient{
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return nil, errors.NewMissingPuzzleData("no board")
		},
	}
	d, _ := newTestDownloader(t, client)

	_, err := d.DownloadByID(1)
	require.Error(t, err)
	assert.True(t, errors.IsMissingPuzzleData(err))
}

func TestDownloadDate(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			assert.Equal(t, start, end, "single-date lookup should list exactly one day")
			return map[string]int{"2024-03-07": 21830}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, "2024-03-07"), nil
		},
	}
	d, _ := newTestDownloader(t, client)

	result, err := d.DownloadDate(day("2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, 21830, result.PuzzleID)
}

func TestDownloadDateNotListed(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			t.Fatal("nothing should be fetched for an unlisted date")
			return nil, nil
		},
	}
	d, _ := newTestDownloader(t, client)

	_, err := d.DownloadDate(day("2024-03-07"))
	require.Error(t, err)
	assert.True(t, errors.IsMissingPuzzleData(err))
}

func TestSummaryWaitedReflectsPacing(t *testing.T) {
	client := &fakeClient{
		listFunc: func(start, end time.Time) (map[string]int, error) {
			return map[string]int{"2024-03-01": 101}, nil
		},
		fetchFunc: func(id int) (*nyt.Puzzle, error) {
			return makePuzzle(t, id, "2024-03-01"), nil
		},
	}
	d, _ := newTestDownloader(t, client)
	d.pacer = ratelimit.NewPacer(10 * time.Millisecond)

	summary, err := d.DownloadRange(day("2024-03-01"), day("2024-03-01"))
	require.NoError(t, err)

	assert.Greater(t, summary.Waited, time.Duration(0))
	assert.GreaterOrEqual(t, summary.Elapsed, summary.Waited)
}
