package importer

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/geobase-api/internal/models"
)

// sheetIDPattern extracts the document ID from a Google Sheets URL, e.g.
// https://docs.google.com/spreadsheets/d/<id>/edit#gid=0
var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID pulls the spreadsheet ID out of a shared sheet URL
func ExtractSheetID(rawURL string) (string, error) {
	match := sheetIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", fmt.Errorf("not a valid Google Sheets URL")
	}
	return match[1], nil
}

// SheetFetcher downloads publicly viewable Google Sheets as CSV. Requests
// carry an explicit timeout so a slow upstream cannot hang the caller.
type SheetFetcher struct {
	// BaseURL is overridable for tests; defaults to the Google Docs host.
	BaseURL string
	client  *http.Client
}

// NewSheetFetcher creates a SheetFetcher with the given request timeout
func NewSheetFetcher(timeout time.Duration) *SheetFetcher {
	return &SheetFetcher{
		BaseURL: "https://docs.google.com",
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchCSV downloads the sheet identified by the shared URL via the CSV
// export endpoint and parses it. The sheet must be publicly viewable.
func (f *SheetFetcher) FetchCSV(ctx context.Context, sheetURL string) ([]models.RawRow, error) {
	sheetID, err := ExtractSheetID(sheetURL)
	if err != nil {
		return nil, err
	}

	exportURL := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv", f.BaseURL, sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching sheet: status %d", resp.StatusCode)
	}

	return ParseCSV(resp.Body)
}
