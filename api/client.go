// Package api issues authenticated requests against the Claude.ai usage
// endpoints. The client performs exactly one request per call and never
// retries internally; retry is the scheduler's job via the next tick.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/clawdeck/clawdeck/browser"
	"github.com/clawdeck/clawdeck/errors"
	"github.com/clawdeck/clawdeck/models"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// Config configures a Client. Everything is explicit; there are no global
// endpoints or org IDs.
type Config struct {
	BaseURL string
	OrgID   string
	Timeout time.Duration
}

// Client fetches usage data with cookie auth. Credentials can be swapped at
// runtime (after an auth rejection) from any goroutine.
type Client struct {
	cfg  Config
	http *http.Client

	mu    sync.RWMutex
	creds browser.CredentialSet
	orgID string
}

// NewClient creates a client with the given configuration and credentials.
func NewClient(cfg Config, creds browser.CredentialSet) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		creds: creds,
		orgID: cfg.OrgID,
	}
}

// SetCredentials replaces the credential set after a lazy re-resolution.
func (c *Client) SetCredentials(creds browser.CredentialSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// OrgID returns the current organization id, which may have been discovered.
func (c *Client) OrgID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orgID
}

// SetOrgID records a discovered organization id.
func (c *Client) SetOrgID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgID = id
}

// FetchOrganizations discovers the organization id as the first entry of
// /api/organizations, matching the web client's behavior.
func (c *Client) FetchOrganizations(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.cfg.BaseURL+"/api/organizations")
	if err != nil {
		return "", err
	}

	var orgs []models.Organization
	if err := sonic.Unmarshal(body, &orgs); err != nil {
		return "", errors.Wrap(errors.KindParse, "decode organizations response", err)
	}
	if len(orgs) == 0 || orgs[0].UUID == "" {
		return "", errors.New(errors.KindAuthUnavailable, "no organizations visible to this session")
	}
	return orgs[0].UUID, nil
}

// FetchUsage performs one GET against the usage endpoint and returns a
// validated snapshot.
func (c *Client) FetchUsage(ctx context.Context) (*models.UsageSnapshot, error) {
	orgID := c.OrgID()
	if orgID == "" {
		id, err := c.FetchOrganizations(ctx)
		if err != nil {
			return nil, err
		}
		c.SetOrgID(id)
		orgID = id
	}

	url := fmt.Sprintf("%s/api/organizations/%s/usage", c.cfg.BaseURL, orgID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return models.ParseUsage(body, time.Now())
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	for name, value := range c.creds {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, "usage request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, "read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, errors.New(errors.KindAuthUnavailable,
			fmt.Sprintf("session rejected (HTTP %d)", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.New(errors.KindNetwork,
			fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode))
	}
	return body, nil
}
