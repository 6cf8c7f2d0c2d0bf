package browser

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Firefox keeps cookie values in plaintext inside cookies.sqlite.
func (r *Resolver) resolveFirefox() (CredentialSet, error) {
	base := filepath.Join(r.homeDir, ".mozilla", "firefox")
	profiles := firefoxProfiles(base)
	profile, ok := pickProfile(profiles, r.Profile, "*.default-release", "*.default")
	if !ok {
		return nil, fmt.Errorf("no firefox profile found under %s", base)
	}

	dbPath := filepath.Join(profile, "cookies.sqlite")
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
		`SELECT host, name, value FROM moz_cookies WHERE host LIKE ?`,
		"%"+r.Domain)
	if err != nil {
		return nil, fmt.Errorf("query cookies: %w", err)
	}
	defer rows.Close()

	creds := make(CredentialSet)
	for rows.Next() {
		var host, name, value string
		if err := rows.Scan(&host, &name, &value); err != nil {
			return nil, fmt.Errorf("scan cookie row: %w", err)
		}
		if matchesDomain(host, r.Domain) && value != "" {
			creds[name] = value
		}
	}
	return creds, rows.Err()
}

func firefoxProfiles(base string) []string {
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
		if _, err := os.Stat(filepath.Join(p, "cookies.sqlite")); err == nil {
			profiles = append(profiles, p)
		}
	}
	return profiles
}
