// Package source fetches upcoming fixtures per team from TheSportsDB.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appLog "github.com/dschmit00/sports-calendar/internal/log"
	"github.com/dschmit00/sports-calendar/internal/model"
)

const (
	DefaultBaseURL = "https://www.thesportsdb.com/api/v1/json"
	DefaultAPIKey  = "1"
	DefaultTimeout = 20 * time.Second
	UserAgent      = "sportscal/1.0 (github.com/dschmit00/sports-calendar)"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the fetcher reaches the API.
type Config struct {
	// BaseURL is the API root without the key, e.g. DefaultBaseURL.
	BaseURL string
	// APIKey is substituted into the request path. "1" is the public key.
	APIKey string
	// Timeout bounds each request. If zero, DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Fetcher issues one GET per team against eventsnext.php.
type Fetcher struct {
	client  httpDoer
	baseURL string
	apiKey  string
}

func NewFetcher(cfg Config) *Fetcher {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	var client httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Fetcher{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type eventsResponse struct {
	Events []model.RawEvent `json:"events"`
}

// FetchTeam returns the team's upcoming fixtures in API order. A missing
// or null events field yields an empty slice.
func (f *Fetcher) FetchTeam(ctx context.Context, teamID model.TeamID) ([]model.RawEvent, error) {
	endpoint := f.endpoint(teamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{TeamID: teamID, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	appLog.Debug("source fetch start", "team_id", teamID, "url", f.redact(endpoint))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{TeamID: teamID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			TeamID:     teamID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var payload eventsResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, &FetchError{TeamID: teamID, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	appLog.Debug("source fetch success", "team_id", teamID, "status", resp.StatusCode, "event_count", len(payload.Events))

	if payload.Events == nil {
		return []model.RawEvent{}, nil
	}
	return payload.Events, nil
}

func (f *Fetcher) endpoint(teamID model.TeamID) string {
	q := url.Values{}
	q.Set("id", string(teamID))
	return f.baseURL + "/" + url.PathEscape(f.apiKey) + "/eventsnext.php?" + q.Encode()
}

// redact hides the API key for log output.
func (f *Fetcher) redact(u string) string {
	if f.apiKey == DefaultAPIKey {
		return u
	}
	return strings.Replace(u, "/"+url.PathEscape(f.apiKey)+"/", "/...(redacted)/", 1)
}
