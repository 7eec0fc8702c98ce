package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultSheetEndpoint is the published-spreadsheet export root.
const DefaultSheetEndpoint = "https://docs.google.com/spreadsheets/d/e/"

// maxBodyBytes caps a single tab download.
const maxBodyBytes = 64 << 20

// SheetSource reads tabs from a spreadsheet published to the web as CSV.
type SheetSource struct {
	DocumentID string
	Tabs       Tabs
	// Endpoint overrides DefaultSheetEndpoint.
	Endpoint string
	Client   *http.Client
}

// URL returns the CSV export address of tab.
func (s *SheetSource) URL(tab Tab) (string, error) {
	gid, err := s.Tabs.GID(tab)
	if err != nil {
		return "", err
	}

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultSheetEndpoint
	}

	q := url.Values{}
	q.Set("gid", gid)
	q.Set("single", "true")
	q.Set("output", "csv")

	return strings.TrimSuffix(endpoint, "/") + "/" + url.PathEscape(s.DocumentID) + "/pub?" + q.Encode(), nil
}

// Fetch implements Source.
func (s *SheetSource) Fetch(ctx context.Context, tab Tab) (string, error) {
	u, err := s.URL(tab)
	if err != nil {
		return "", err
	}

	return get(ctx, s.Client, u)
}

// StaticSource reads <BaseURL><gid>.csv files mirrored to a web server.
type StaticSource struct {
	BaseURL string
	Tabs    Tabs
	Client  *http.Client
}

// URL returns the mirror address of tab.
func (s *StaticSource) URL(tab Tab) (string, error) {
	gid, err := s.Tabs.GID(tab)
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(s.BaseURL, "/") + "/" + gid + ".csv", nil
}

// Fetch implements Source.
func (s *StaticSource) Fetch(ctx context.Context, tab Tab) (string, error) {
	u, err := s.URL(tab)
	if err != nil {
		return "", err
	}

	return get(ctx, s.Client, u)
}

func get(ctx context.Context, client *http.Client, u string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "text/csv")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

		return "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u, err)
	}

	return string(body), nil
}
