package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Fixed calculation configuration sent with every request:
// method 2 (ISNA), school 1 (Hanafi).
const (
	CalculationMethod = 2
	JuristicSchool    = 1
)

// Client communicates with the Al Adhan prayer times API.
// Requests run through a circuit breaker so a flapping upstream fails fast
// instead of stalling every scan step on its timeout.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "aladhan",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		BaseURL: defaultBaseURL,
	}
}

// FetchDayTimings fetches prayer times for a single date and coordinate.
func (c *Client) FetchDayTimings(ctx context.Context, date time.Time, lat, lon float64) (*Day, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	body, err := c.get(ctx, endpoint, coordParams(lat, lon))
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding timings response: %w", err)}
	}
	if resp.Code == http.StatusNotFound {
		return nil, &NotFoundError{Detail: resp.Status}
	}
	if resp.Code != http.StatusOK {
		return nil, &ParseError{Err: fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)}
	}

	return &resp.Data, nil
}

// FetchMonthCalendar fetches the full Gregorian month calendar for a coordinate.
// The response carries one Day per calendar day, each with its Hijri date.
func (c *Client) FetchMonthCalendar(ctx context.Context, year, month int, lat, lon float64) ([]Day, error) {
	endpoint := fmt.Sprintf("%s/calendar", c.BaseURL)

	params := coordParams(lat, lon)
	params.Set("month", fmt.Sprintf("%d", month))
	params.Set("year", fmt.Sprintf("%d", year))

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var resp CalendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding calendar response: %w", err)}
	}
	if resp.Code == http.StatusNotFound || (resp.Code == http.StatusOK && len(resp.Data) == 0) {
		return nil, &NotFoundError{Detail: fmt.Sprintf("calendar %d-%02d", year, month)}
	}
	if resp.Code != http.StatusOK {
		return nil, &ParseError{Err: fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)}
	}

	return resp.Data, nil
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("method", fmt.Sprintf("%d", CalculationMethod))
	params.Set("school", fmt.Sprintf("%d", JuristicSchool))
	return params
}

// get performs the request through the circuit breaker and classifies failures.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Detail: reqURL}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &NetworkError{Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, &ParseError{Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		return body, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &NetworkError{Err: err}
		}
		return nil, err
	}

	return result.([]byte), nil
}
