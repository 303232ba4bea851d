package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultURL is the location of the status document of a Pylontech Force H2 installation.
const DefaultURL = "https://pylontech-force-h2-battery.s3.eu-central-1.amazonaws.com/status.json"

// Client retrieves the latest Reading from URL.
type Client struct {
	HTTPClient *http.Client
	URL        string
}

func (c Client) GetReading(ctx context.Context) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Reading{}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, fmt.Errorf("get: %s", resp.Status)
	}

	var r Reading
	if err = json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Reading{}, fmt.Errorf("decode: %w", err)
	}
	return r, nil
}
