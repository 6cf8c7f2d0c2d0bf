package browser

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
	_ "modernc.org/sqlite"
)

// Chrome on Linux encrypts cookie values with AES-128-CBC. The key is
// derived from the fixed password "peanuts" unless a keyring is in use;
// v10-prefixed values always use the fixed password, v11 values use the
// keyring but fall back to it on headless setups.
const (
	chromePassword   = "peanuts"
	chromeSalt       = "saltysalt"
	chromeIterations = 1
	chromeKeyLength  = 16
)

var chromeConfigDirs = []string{
	".config/google-chrome",
	".config/chromium",
}

func (r *Resolver) resolveChrome() (CredentialSet, error) {
	for _, dir := range chromeConfigDirs {
		base := filepath.Join(r.homeDir, dir)
		profiles := chromeProfiles(base)
		profile, ok := pickProfile(profiles, r.Profile, "Default", "Profile *")
		if !ok {
			continue
		}

		dbPath := filepath.Join(profile, "Cookies")
		if _, err := os.Stat(dbPath); err != nil {
			// newer Chrome keeps the DB under Network/
			dbPath = filepath.Join(profile, "Network", "Cookies")
			if _, err := os.Stat(dbPath); err != nil {
				continue
			}
		}

		creds, err := readChromeCookies(dbPath, r.Domain)
		if err != nil {
			return nil, err
		}
		if len(creds) > 0 {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("no chrome profile with %s cookies", r.Domain)
}

// chromeProfiles lists profile directories that contain a cookie store.
func chromeProfiles(base string) []string {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var profiles []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(base, e.Name())
		if _, err := os.Stat(filepath.Join(p, "Cookies")); err == nil {
			profiles = append(profiles, p)
			continue
		}
		if _, err := os.Stat(filepath.Join(p, "Network", "Cookies")); err == nil {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

func readChromeCookies(dbPath, domain string) (CredentialSet, error) {
	tmpPath, cleanup, err := copyToTemp(dbPath)
	if err != nil {
		return nil, fmt.Errorf("copy cookie db: %w", err)
	}
	defer cleanup()

	db, err := sql.Open("sqlite", tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open cookie db: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.Query(
		`SELECT host_key, name, value, encrypted_value FROM cookies WHERE host_key LIKE ?`,
		"%"+domain)
	if err != nil {
		return nil, fmt.Errorf("query cookies: %w", err)
	}
	defer rows.Close()

	key := chromeKey()
	creds := make(CredentialSet)
	for rows.Next() {
		var host, name, value string
		var encrypted []byte
		if err := rows.Scan(&host, &name, &value, &encrypted); err != nil {
			return nil, fmt.Errorf("scan cookie row: %w", err)
		}
		if !matchesDomain(host, domain) {
			continue
		}
		if value == "" && len(encrypted) > 0 {
			plain, err := decryptChromeValue(encrypted, key, host)
			if err != nil {
				continue
			}
			value = plain
		}
		if value != "" {
			creds[name] = value
		}
	}
	return creds, rows.Err()
}

func chromeKey() []byte {
	return pbkdf2.Key([]byte(chromePassword), []byte(chromeSalt), chromeIterations, chromeKeyLength, sha1.New)
}

// decryptChromeValue decrypts a v10/v11 encrypted cookie value.
func decryptChromeValue(encrypted, key []byte, host string) (string, error) {
	if len(encrypted) < 3 {
		return "", fmt.Errorf("encrypted value too short")
	}
	prefix := string(encrypted[:3])
	if prefix != "v10" && prefix != "v11" {
		return "", fmt.Errorf("unknown encryption prefix %q", prefix)
	}
	payload := encrypted[3:]
	if len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return "", fmt.Errorf("bad ciphertext length %d", len(payload))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	for i := range iv {
		iv[i] = ' '
	}

	plain := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, payload)

	plain, err = stripPKCS7(plain)
	if err != nil {
		return "", err
	}

	// Chrome 24+ prepends SHA256(host_key) to the plaintext.
	if len(plain) >= sha256.Size {
		hash := sha256.Sum256([]byte(host))
		if string(plain[:sha256.Size]) == string(hash[:]) {
			plain = plain[sha256.Size:]
		}
	}
	return string(plain), nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, fmt.Errorf("bad padding %d", pad)
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-pad], nil
}
