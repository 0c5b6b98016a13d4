package locations

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSourceURL is the public table of all Australian cities and
// towns ordered by population that the catalog is scraped from.
const DefaultSourceURL = "https://answers.id.com.au/answers/all-cities-and-towns-in-australia-by-population"

// scrapeTimeout bounds the catalog page fetch.
const scrapeTimeout = 30 * time.Second

// Scraper fetches the location catalog from the source page.
type Scraper struct {
	url   string
	httpc *http.Client
}

// NewScraper creates a scraper for the given source URL. An empty url
// uses DefaultSourceURL; a nil httpc uses a client with a 30-second
// timeout.
func NewScraper(url string, httpc *http.Client) *Scraper {
	if url == "" {
		url = DefaultSourceURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: scrapeTimeout}
	}
	return &Scraper{url: url, httpc: httpc}
}

// Scrape fetches the source page and extracts location names from the
// first table: one name per row, taken from the row's first cell.
// Rows without a data cell (header rows) and empty cells are skipped.
func (s *Scraper) Scrape(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("locations: create request: %w", err)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("locations: fetch %q: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locations: %q returned status %d", s.url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("locations: parse page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("locations: no table found at %q", s.url)
	}

	var entries []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("td").First().Text())
		if name == "" {
			return
		}
		entries = append(entries, name)
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("locations: table at %q contains no location rows", s.url)
	}
	return entries, nil
}
