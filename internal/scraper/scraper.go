package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
)

const (
	DefaultBaseURL = "https://www.ost.volleyball-freizeit.de"
	UserAgent      = "dieliga-cli/1.0 (github.com/pfrederiksen/dieliga)"
	Timeout        = 30 * time.Second

	maxBodyBytes = 8 << 20
)

// Kind selects one of the two league documents.
type Kind string

const (
	KindScoreboard Kind = "scoreboard"
	KindSchedule   Kind = "schedule"
)

var pathByKind = map[Kind]string{
	KindScoreboard: "/schedule/summary/%s?output=xml",
	KindSchedule:   "/schedule/schedule/%s?output=xml",
}

// Fetcher retrieves the documents of one league
type Fetcher struct {
	client    *http.Client
	baseURL   string
	leagueID  string
	userAgent string
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New creates a Fetcher for leagueID on baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL, leagueID string, opts ...Option) *Fetcher {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   baseURL,
		leagueID:  strings.TrimSpace(leagueID),
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LeagueID returns the league this fetcher is bound to.
func (f *Fetcher) LeagueID() string {
	return f.leagueID
}

// URL builds the document URL for kind.
func (f *Fetcher) URL(kind Kind) string {
	return f.baseURL + fmt.Sprintf(pathByKind[kind], f.leagueID)
}

// Fetch performs one GET for kind and returns the raw body. It never retries.
func (f *Fetcher) Fetch(ctx context.Context, kind Kind) (string, error) {
	if _, ok := pathByKind[kind]; !ok {
		return "", errors.Newf("unknown document kind %q", kind)
	}
	url := f.URL(kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml")

	logger.Debug("Fetching league document", logger.Fields{"kind": string(kind), "url": url})

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{Kind: kind, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Kind:       kind,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.Newf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &TransportError{Kind: kind, URL: url, Err: errors.Wrap(err, "reading body")}
	}

	return string(body), nil
}

// FetchScoreboard fetches and parses the league table.
func (f *Fetcher) FetchScoreboard(ctx context.Context) (*league.Scoreboard, error) {
	raw, err := f.Fetch(ctx, KindScoreboard)
	if err != nil {
		return nil, err
	}
	return ParseScoreboard(raw)
}

// FetchSchedule fetches and parses the match plan.
func (f *Fetcher) FetchSchedule(ctx context.Context) (*league.Schedule, error) {
	raw, err := f.Fetch(ctx, KindSchedule)
	if err != nil {
		return nil, err
	}
	return ParseSchedule(raw)
}
