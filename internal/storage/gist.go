package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pfrederiksen/dieliga/internal/crypto"
	"github.com/pfrederiksen/dieliga/internal/league"
)

const (
	DefaultGistAPIURL = "https://api.github.com/gists"
	gistTimeout       = 15 * time.Second
)

// GistStore keeps snapshots as files of one private GitHub Gist, for runners
// without a persistent disk. Each league is one file named like the local
// snapshot files.
type GistStore struct {
	gistID      string
	githubToken string
	apiURL      string
	httpClient  *http.Client
	encryptor   *crypto.Encryptor
}

// GistOption customizes a GistStore.
type GistOption func(*GistStore)

// WithGistAPIURL points the store at another Gist API endpoint.
func WithGistAPIURL(u string) GistOption {
	return func(g *GistStore) {
		if u != "" {
			g.apiURL = u
		}
	}
}

// WithEncryptionKey encrypts file contents with a key derived from passphrase.
func WithEncryptionKey(passphrase string) GistOption {
	return func(g *GistStore) {
		g.encryptor = crypto.NewEncryptor(passphrase)
	}
}

// NewGistStore creates a new Gist-based store
func NewGistStore(gistID, githubToken string, opts ...GistOption) (*GistStore, error) {
	if gistID == "" {
		return nil, fmt.Errorf("gist ID is required")
	}
	if githubToken == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	g := &GistStore{
		gistID:      gistID,
		githubToken: githubToken,
		apiURL:      DefaultGistAPIURL,
		httpClient: &http.Client{
			Timeout: gistTimeout,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
	RawURL    string `json:"raw_url"`
}

// Load retrieves the snapshot of leagueID from the Gist. A missing file
// yields league.EmptySnapshot() and false.
func (g *GistStore) Load(leagueID string) (*league.Snapshot, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gistTimeout)
	defer cancel()

	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("%s/%s", g.apiURL, g.gistID), nil)
	if err != nil {
		return nil, false, fmt.Errorf("fetching gist: %w", err)
	}

	var gistResp struct {
		Files map[string]gistFile `json:"files"`
	}
	if err := sonic.Unmarshal(body, &gistResp); err != nil {
		return nil, false, fmt.Errorf("decoding gist response: %w", err)
	}

	file, exists := gistResp.Files[snapshotName(leagueID)]
	if !exists {
		// File doesn't exist yet
		return league.EmptySnapshot(), false, nil
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		// Large files are only available in full from the raw URL
		raw, err := g.do(ctx, http.MethodGet, file.RawURL, nil)
		if err != nil {
			return nil, false, fmt.Errorf("fetching gist file: %w", err)
		}
		content = string(raw)
	}

	data, err := g.encryptor.Decrypt(content)
	if err != nil {
		return nil, false, fmt.Errorf("decrypting snapshot: %w", err)
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

// Save replaces the snapshot file of leagueID in the Gist
func (g *GistStore) Save(leagueID string, snapshot *league.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("saving snapshot: nil snapshot")
	}

	data, err := sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	content, err := g.encryptor.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}

	payload := map[string]interface{}{
		"files": map[string]interface{}{
			snapshotName(leagueID): map[string]string{
				"content": content,
			},
		},
	}

	payloadBytes, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), gistTimeout)
	defer cancel()

	if _, err := g.do(ctx, http.MethodPatch, fmt.Sprintf("%s/%s", g.apiURL, g.gistID), payloadBytes); err != nil {
		return fmt.Errorf("updating gist: %w", err)
	}
	return nil
}

func (g *GistStore) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("token %s", g.githubToken))
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Don't include response body in error to prevent information leakage
		return nil, fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
