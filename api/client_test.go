package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawdeck/clawdeck/browser"
	"github.com/clawdeck/clawdeck/errors"
)

const usagePayload = `{
	"five_hour": {"utilization": 42.5, "resets_at": "2026-01-15T14:30:00Z"},
	"seven_day": {"utilization": 10, "resets_at": "2026-01-20T00:00:00Z"}
}`

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL: url,
		OrgID:   "org-1234",
		Timeout: 2 * time.Second,
	}, browser.CredentialSet{"sessionKey": "sk-test"})
}

func TestFetchUsage(t *testing.T) {
	var gotPath string
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if c, err := r.Cookie("sessionKey"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(usagePayload))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	snap, err := client.FetchUsage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/organizations/org-1234/usage", gotPath)
	assert.Equal(t, "sk-test", gotCookie)
	assert.Equal(t, 42.5, snap.FiveHour.Utilization)
	assert.Equal(t, 10.0, snap.SevenDay.Utilization)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFetchUsageAuthRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := newTestClient(srv.URL)
		snap, err := client.FetchUsage(context.Background())
		assert.Nil(t, snap)
		require.Error(t, err)
		assert.True(t, errors.IsAuth(err), "HTTP %d must surface as an auth error", status)

		srv.Close()
	}
}

func TestFetchUsageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchUsage(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	assert.False(t, errors.IsAuth(err))
}

func TestFetchUsageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>please sign in</html>`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchUsage(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindParse, errors.KindOf(err))
}

func TestFetchUsageDiscoversOrg(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/organizations":
			_, _ = w.Write([]byte(`[{"uuid": "org-disc", "name": "Personal"}, {"uuid": "org-other"}]`))
		case "/api/organizations/org-disc/usage":
			_, _ = w.Write([]byte(usagePayload))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, browser.CredentialSet{})
	snap, err := client.FetchUsage(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	// First org wins, and the discovered id is cached on the client.
	assert.Equal(t, []string{"/api/organizations", "/api/organizations/org-disc/usage"}, paths)
	assert.Equal(t, "org-disc", client.OrgID())

	_, err = client.FetchUsage(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 3, "discovery must not repeat once the org id is known")
}

func TestFetchOrganizationsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, browser.CredentialSet{})
	_, err := client.FetchOrganizations(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
}

func TestSetCredentials(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionKey"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(usagePayload))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetCredentials(browser.CredentialSet{"sessionKey": "sk-fresh"})

	_, err := client.FetchUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-fresh", gotCookie)
}
