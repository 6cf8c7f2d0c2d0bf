package browser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clawdeck/clawdeck/errors"
)

func TestMatchesDomain(t *testing.T) {
	tests := []struct {
		host   string
		domain string
		want   bool
	}{
		{"claude.ai", "claude.ai", true},
		{".claude.ai", "claude.ai", true},
		{"api.claude.ai", "claude.ai", true},
		{".api.claude.ai", "claude.ai", true},
		{"notclaude.ai", "claude.ai", false},
		{"claude.ai.evil.com", "claude.ai", false},
		{"example.com", "claude.ai", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesDomain(tt.host, tt.domain), "host %q", tt.host)
	}
}

func TestPickProfile(t *testing.T) {
	base := filepath.Join("home", ".config", "google-chrome")
	candidates := []string{
		filepath.Join(base, "Profile 2"),
		filepath.Join(base, "Profile 1"),
		filepath.Join(base, "Default"),
	}

	t.Run("override wins", func(t *testing.T) {
		got, ok := pickProfile(candidates, "Profile 2", "Default", "Profile *")
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "Profile 2"), got)
	})

	t.Run("missing override fails rather than guessing", func(t *testing.T) {
		_, ok := pickProfile(candidates, "Profile 9", "Default", "Profile *")
		assert.False(t, ok)
	})

	t.Run("preferred name order", func(t *testing.T) {
		got, ok := pickProfile(candidates, "", "Default", "Profile *")
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "Default"), got)
	})

	t.Run("pattern preference", func(t *testing.T) {
		noDefault := candidates[:2]
		got, ok := pickProfile(noDefault, "", "Default", "Profile *")
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "Profile 2"), got,
			"first candidate matching the pattern wins")
	})

	t.Run("lexicographic fallback is deterministic", func(t *testing.T) {
		unnamed := []string{
			filepath.Join(base, "zzz.default"),
			filepath.Join(base, "abc.default"),
		}
		for i := 0; i < 3; i++ {
			got, ok := pickProfile(unnamed, "", "nomatch-*")
			assert.True(t, ok)
			assert.Equal(t, filepath.Join(base, "abc.default"), got)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := pickProfile(nil, "")
		assert.False(t, ok)
	})
}

func TestResolveNoBrowserIsAuthError(t *testing.T) {
	r := &Resolver{
		Browser: "auto",
		Domain:  "claude.ai",
		homeDir: t.TempDir(),
	}

	creds, err := r.Resolve()
	assert.Nil(t, creds)
	assert.Error(t, err)
	assert.True(t, errors.IsAuth(err))
	assert.Contains(t, err.Error(), "claude.ai")
}
