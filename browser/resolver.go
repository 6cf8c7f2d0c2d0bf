// Package browser reads Claude.ai session cookies out of local browser
// profile stores. Access is read-only: the cookie database is copied to a
// temporary file before opening, so a running (locked) browser never blocks
// resolution and resolution never mutates the profile.
package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clawdeck/clawdeck/errors"
	"github.com/clawdeck/clawdeck/logging"
)

// CredentialSet maps cookie names to values for a single domain. It lives
// for the process lifetime and is re-resolved lazily after an auth rejection;
// it is never persisted.
type CredentialSet map[string]string

// Resolver resolves session cookies for one domain.
type Resolver struct {
	// Browser selects the store: "chrome", "chromium", "firefox" or "auto".
	Browser string
	// Profile overrides the default profile choice.
	Profile string
	// Domain the cookies are scoped to, e.g. "claude.ai".
	Domain string

	// homeDir overrides $HOME in tests.
	homeDir string
}

// NewResolver creates a resolver for the given browser selection and domain.
func NewResolver(browserName, profile, domain string) *Resolver {
	home, _ := os.UserHomeDir()
	return &Resolver{
		Browser: strings.ToLower(browserName),
		Profile: profile,
		Domain:  domain,
		homeDir: home,
	}
}

// Resolve returns the cookie mapping for the configured domain, or an
// auth-unavailable error when no browser store yields cookies.
func (r *Resolver) Resolve() (CredentialSet, error) {
	var attempts []func() (CredentialSet, error)

	switch r.Browser {
	case "chrome", "chromium":
		attempts = append(attempts, r.resolveChrome)
	case "firefox":
		attempts = append(attempts, r.resolveFirefox)
	default: // auto
		attempts = append(attempts, r.resolveChrome, r.resolveFirefox)
	}

	var lastErr error
	for _, attempt := range attempts {
		creds, err := attempt()
		if err == nil && len(creds) > 0 {
			logging.GetLogger().Debugf("resolved %d cookies for %s", len(creds), r.Domain)
			return creds, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no cookies found for %s in any browser profile", r.Domain)
	}
	return nil, errors.Wrap(errors.KindAuthUnavailable,
		"no usable browser session (are you logged into "+r.Domain+"?)", lastErr)
}

// matchesDomain reports whether a cookie host field belongs to the domain.
func matchesDomain(host, domain string) bool {
	host = strings.TrimPrefix(host, ".")
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// pickProfile chooses one profile deterministically: an exact override wins,
// then preferred names in order, then the lexicographically smallest of the
// remaining candidates. Conflicting multi-profile setups therefore always
// resolve the same way across runs.
func pickProfile(candidates []string, override string, preferred ...string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if override != "" {
		for _, c := range candidates {
			if filepath.Base(c) == override {
				return c, true
			}
		}
		return "", false
	}
	for _, want := range preferred {
		for _, c := range candidates {
			if matched, _ := filepath.Match(want, filepath.Base(c)); matched {
				return c, true
			}
		}
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	return sorted[0], true
}

// copyToTemp copies a cookie database to a private temp file so the live
// store can stay locked by the browser.
func copyToTemp(path string) (string, func(), error) {
	src, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "clawdeck-cookies-*.sqlite")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(dst.Name()) }

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", nil, err
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst.Name(), cleanup, nil
}
