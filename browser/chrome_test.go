package browser

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptChromeValue builds a value the way Chrome on Linux stores it:
// "v10" prefix, AES-128-CBC with a space IV, PKCS7 padding, and the
// SHA256(host_key) plaintext prefix used by Chrome 24+.
func encryptChromeValue(t *testing.T, value, host string, withHostHash bool) []byte {
	t.Helper()

	plain := []byte(value)
	if withHostHash {
		hash := sha256.Sum256([]byte(host))
		plain = append(hash[:], plain...)
	}

	pad := aes.BlockSize - len(plain)%aes.BlockSize
	for i := 0; i < pad; i++ {
		plain = append(plain, byte(pad))
	}

	block, err := aes.NewCipher(chromeKey())
	require.NoError(t, err)
	iv := make([]byte, aes.BlockSize)
	for i := range iv {
		iv[i] = ' '
	}

	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return append([]byte("v10"), out...)
}

func TestDecryptChromeValue(t *testing.T) {
	key := chromeKey()

	t.Run("plain value", func(t *testing.T) {
		enc := encryptChromeValue(t, "sk-session-value", ".claude.ai", false)
		got, err := decryptChromeValue(enc, key, ".claude.ai")
		require.NoError(t, err)
		assert.Equal(t, "sk-session-value", got)
	})

	t.Run("host hash prefix stripped", func(t *testing.T) {
		enc := encryptChromeValue(t, "sk-session-value", ".claude.ai", true)
		got, err := decryptChromeValue(enc, key, ".claude.ai")
		require.NoError(t, err)
		assert.Equal(t, "sk-session-value", got)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := decryptChromeValue([]byte("v99junkjunkjunkjunk"), key, "claude.ai")
		assert.Error(t, err)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := decryptChromeValue([]byte("v1"), key, "claude.ai")
		assert.Error(t, err)
	})

	t.Run("ragged ciphertext", func(t *testing.T) {
		_, err := decryptChromeValue([]byte("v10short"), key, "claude.ai")
		assert.Error(t, err)
	})
}

func TestChromeKeyIsStable(t *testing.T) {
	assert.Equal(t, chromeKey(), chromeKey())
	assert.Len(t, chromeKey(), 16)
}

func TestReadChromeCookies(t *testing.T) {
	home := t.TempDir()
	profile := filepath.Join(home, ".config", "google-chrome", "Default")
	require.NoError(t, os.MkdirAll(profile, 0o755))

	dbPath := filepath.Join(profile, "Cookies")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE cookies (host_key TEXT, name TEXT, value TEXT, encrypted_value BLOB)`)
	require.NoError(t, err)

	insert := func(host, name, value string, encrypted []byte) {
		_, err := db.Exec(
			`INSERT INTO cookies (host_key, name, value, encrypted_value) VALUES (?, ?, ?, ?)`,
			host, name, value, encrypted)
		require.NoError(t, err)
	}
	insert(".claude.ai", "plainCookie", "plain-value", nil)
	insert(".claude.ai", "sessionKey", "", encryptChromeValue(t, "sk-encrypted", ".claude.ai", true))
	insert(".claude.ai", "undecryptable", "", []byte("v10garbage-not-block-aligned"))
	insert(".example.com", "other", "x", nil)
	require.NoError(t, db.Close())

	r := &Resolver{Browser: "chrome", Domain: "claude.ai", homeDir: home}
	creds, err := r.Resolve()
	require.NoError(t, err)

	assert.Equal(t, CredentialSet{
		"plainCookie": "plain-value",
		"sessionKey":  "sk-encrypted",
	}, creds)
}

func TestStripPKCS7(t *testing.T) {
	got, err := stripPKCS7([]byte{'a', 'b', 'c', 3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = stripPKCS7([]byte{'a', 'b', 0})
	assert.Error(t, err)

	_, err = stripPKCS7([]byte{'a', 2, 3})
	assert.Error(t, err)

	_, err = stripPKCS7(nil)
	assert.Error(t, err)
}
