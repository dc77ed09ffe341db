package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"TrendDeck/internal/domain"
)

const (
	defaultBaseURL = "https://zenn.dev"
	userAgent      = "TrendDeck/1.0"
	defaultTimeout = 15 * time.Second
)

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		return &http.Client{Timeout: defaultTimeout}
	}
	return client
}

// get issues a single GET and maps failures onto *domain.FetchError.
// The caller owns the returned body.
func get(ctx context.Context, client *http.Client, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("request feed: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, domain.BadStatusError(resp.StatusCode)
	}

	return resp, nil
}

func baseOrDefault(base string) string {
	if base == "" {
		return defaultBaseURL
	}
	return base
}

// absolute prefixes relative links with the base origin.
func absolute(base, link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return baseOrDefault(base) + link
}
