package square

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"budget-service/internal/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// currencyNames maps a heading fragment to a currency code. Order matters:
// the first fragment found in a block heading wins.
var currencyNames = []struct {
	Fragment string
	Code     string
}{
	{"EURO", "EUR"},
	{"US DOLLAR", "USD"},
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchRates downloads the parallel-market page and extracts whatever
// buy/sell pairs it recognizes. Currencies it cannot find are simply absent
// from the result; network and parse failures are returned to the caller.
func (c *Client) FetchRates(ctx context.Context) (map[string]entity.RateEntry, error) {
	c.logger.Infof("Fetching rates from URL: %s", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		c.logger.Errorf("Failed to create request: %v", err)
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The site rejects default client identifiers
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("Failed to fetch page: %v", err)
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Infof("Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Errorf("Failed to parse HTML: %v", err)
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	rates := extractRates(doc)
	c.logger.Infof("Successfully extracted %d currencies", len(rates))
	return rates, nil
}

// extractRates walks the page's per-currency article blocks. Each block
// carries an h1 heading naming the currency and buy/sell sub-blocks whose
// own h1 holds the quote.
func extractRates(doc *goquery.Document) map[string]entity.RateEntry {
	rates := make(map[string]entity.RateEntry)

	doc.Find("article").Each(func(_ int, article *goquery.Selection) {
		header := article.Find("h1").First()
		if header.Length() == 0 {
			return
		}
		headerText := strings.ToUpper(strings.TrimSpace(header.Text()))

		code := classify(headerText)
		if code == "" {
			return
		}

		rates[code] = entity.RateEntry{
			Buy:  blockRate(article, ".buy"),
			Sell: blockRate(article, ".sell"),
		}
	})

	return rates
}

func classify(headerText string) string {
	for _, name := range currencyNames {
		if strings.Contains(headerText, name.Fragment) {
			return name.Code
		}
	}
	return ""
}

func blockRate(article *goquery.Selection, selector string) string {
	h := article.Find(selector).First().Find("h1").First()
	if h.Length() == 0 {
		return "0"
	}
	return strings.TrimSpace(h.Text())
}
