package erapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// The cross-rate call is best-effort; keep its latency bounded.
const requestTimeout = 5 * time.Second

type Client struct {
	httpClient *http.Client
	url        string
	logger     *logrus.Logger
}

func NewClient(url string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		url:    url,
		logger: logger,
	}
}

// FetchEURRates calls the public exchange-rate API for EUR base rates.
func (c *Client) FetchEURRates(ctx context.Context) (*LatestRates, error) {
	c.logger.Debugf("Fetching EUR cross-rates from %s", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cross-rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.url)
	}

	var latest LatestRates
	if err := json.NewDecoder(resp.Body).Decode(&latest); err != nil {
		return nil, fmt.Errorf("parse cross-rates: %w", err)
	}

	c.logger.Debugf("Fetched %d EUR cross-rates", len(latest.Rates))
	return &latest, nil
}
