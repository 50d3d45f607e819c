package nyt

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nytxword/pkg/errors"
	"nytxword/pkg/logger"
)

// Client talks to the NYT crossword service. It issues exactly two kinds of
// calls: listing puzzle ids by date range (unauthenticated) and fetching one
// puzzle by id (session cookie attached).
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	cookie     *http.Cookie
	logger     logger.Logger
}

// NewClient creates a new crossword API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// ParseCookieString splits an operator-supplied "NAME=value" cookie string
// into its pair. The value is kept verbatim, including any '=' characters.
func ParseCookieString(s string) (name, value string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			if i == 0 {
				break
			}
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("invalid cookie string %q: expected NAME=value", s)
}

// SetSessionToken records the session cookie attached to puzzle fetch
// requests. The value is passed verbatim and never mutated. An empty value
// clears the cookie.
func (c *Client) SetSessionToken(name, value string) {
	if value == "" {
		c.cookie = nil
		return
	}
	c.cookie = &http.Cookie{Name: name, Value: value}
}

// PuzzleIDsByDateRange calls the listing endpoint for one inclusive date
// range and returns a map of normalized date string to puzzle id. No
// pagination happens here; callers chunk large ranges into windows.
func (c *Client) PuzzleIDsByDateRange(start, end time.Time) (map[string]int, error) {
	url := GetPuzzleListURL(start, end)

	c.logger.DebugWithFields("listing puzzles", map[string]interface{}{
		"date_start": FormatDate(start),
		"date_end":   FormatDate(end),
		"url":        url,
	})

	var response PuzzleListResponse
	if err := c.getJSON(url, false, &response); err != nil {
		c.logger.WithError(err).Error("failed to list puzzles")
		return nil, err
	}

	ids := make(map[string]int, len(response.Results))
	for _, record := range response.Results {
		date, err := NormalizeDate(record.PrintDate)
		if err != nil {
			return nil, err
		}
		ids[date] = record.PuzzleID
	}

	c.logger.DebugWithFields("puzzle ids resolved", map[string]interface{}{
		"count": len(ids),
	})

	return ids, nil
}

// PuzzleByID fetches one puzzle's full document with the session cookie
// attached. The returned payload is the verbatim response body; the
// publication date is extracted and normalized, and the presence of the
// board is checked so malformed records fail here rather than on disk.
func (c *Client) PuzzleByID(id int) (*Puzzle, error) {
	url := GetPuzzleURL(id)

	c.logger.DebugWithFields("fetching puzzle", map[string]interface{}{
		"puzzle_id": id,
		"url":       url,
	})

	body, err := c.getBody(url, true)
	if err != nil {
		c.logger.WithError(err).WithField("puzzle_id", id).Error("failed to fetch puzzle")
		return nil, err
	}

	var envelope puzzleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse puzzle %d: %v", id, err),
		}
	}

	if envelope.PublicationDate == "" {
		return nil, errors.NewMissingPuzzleData(fmt.Sprintf("puzzle %d has no publication date", id))
	}
	if len(envelope.Body) == 0 || len(envelope.Body[0].Board) == 0 {
		return nil, errors.NewMissingPuzzleData(fmt.Sprintf("puzzle %d has no board", id))
	}

	date, err := ParseDate(envelope.PublicationDate)
	if err != nil {
		return nil, err
	}

	return &Puzzle{
		ID:   id,
		Date: date,
		Raw:  body,
	}, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(url string, withCookie bool, target interface{}) error {
	body, err := c.getBody(url, withCookie)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
		}
	}

	return nil
}

// getBody performs a GET request and returns the raw response body
func (c *Client) getBody(url string, withCookie bool) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if withCookie && c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return body, nil
}

// checkResponseStatus maps HTTP response statuses onto the error taxonomy
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "authentication required",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "puzzle not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		return &errors.Error{
			Type:    errors.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}
