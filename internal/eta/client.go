package eta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

var (
	// ErrNotConfigured means no API key is set; callers answer with a
	// configuration error instead of attempting the lookup.
	ErrNotConfigured = errors.New("API key not configured")
	// ErrUnavailable covers provider errors and missing routes; it maps
	// to a generic "ETA unavailable" response, never a crash.
	ErrUnavailable = errors.New("ETA unavailable")
)

// Client queries the Google Distance Matrix API. The HTTP client must
// carry a short timeout so a slow provider cannot stall the request
// path.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey string, httpClient *http.Client) *Client {
	return &Client{APIKey: apiKey, BaseURL: defaultBaseURL, HTTP: httpClient}
}

// Estimate is the duration of the route between two coordinates.
type Estimate struct {
	DurationText    string `json:"duration_text"`
	DurationSeconds int    `json:"duration_seconds"`
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Travel looks up the driving duration from origin to destination, both
// "lat,lng" strings.
func (c *Client) Travel(ctx context.Context, origin, destination string) (*Estimate, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build ETA request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var data matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	if data.Status != "OK" || len(data.Rows) == 0 || len(data.Rows[0].Elements) == 0 {
		return nil, ErrUnavailable
	}
	element := data.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, ErrUnavailable
	}

	return &Estimate{
		DurationText:    element.Duration.Text,
		DurationSeconds: element.Duration.Value,
	}, nil
}
