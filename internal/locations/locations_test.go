package locations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePage resembles the source page: a header row using th cells,
// data rows whose first cell is the location name, and a second
// unrelated table that must be ignored.
const samplePage = `<html><body>
<h1>All cities and towns in Australia by population</h1>
<table>
  <tr><th>Name</th><th>Population</th></tr>
  <tr><td> Sydney </td><td>5,450,496</td></tr>
  <tr><td>Melbourne</td><td>5,207,145</td></tr>
  <tr><td>Brisbane</td><td>2,628,083</td></tr>
  <tr><td></td><td>ignored empty name</td></tr>
</table>
<table>
  <tr><td>Not A Location</td></tr>
</table>
</body></html>`

// TestScrape_ExtractsFirstTableRows verifies the scraper takes the first
// cell of each data row in the first table only, trims whitespace, and
// skips header and empty rows.
func TestScrape_ExtractsFirstTableRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, nil)

	entries, err := s.Scrape(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Sydney", "Melbourne", "Brisbane"}, entries)
}

// TestScrape_NoTable verifies pages without a table fail loudly instead
// of producing an empty catalog.
func TestScrape_NoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>moved</p></body></html>"))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, nil)

	_, err := s.Scrape(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table found")
}

// TestScrape_HTTPError verifies non-200 responses are reported.
func TestScrape_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, nil)

	_, err := s.Scrape(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

// TestSaveLoadRoundtrip verifies the catalog file format: one entry per
// line, surviving a save/load cycle unchanged.
func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.txt")
	entries := []string{"Sydney", "Melbourne", "Alice Springs"}

	require.NoError(t, Save(path, entries))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

// TestLoad_SkipsBlankLinesAndTrims verifies hand-edited catalog files
// with stray whitespace still load cleanly.
func TestLoad_SkipsBlankLinesAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.txt")
	content := "Sydney\n\n  Melbourne  \n\nPerth\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Sydney", "Melbourne", "Perth"}, loaded)
}

// TestLoad_MissingFile verifies a missing catalog is an error the caller
// can surface with a hint to run the scraper.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
