// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets holds the credentials the search box sends to the search
// service. They live in a directory of plain-text files, one per credential:
// the filename names it and the trimmed contents are its value.
//
// Recognized files: search-api-key.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rohanthewiz/logger"
)

// SearchAPIKey is the file holding the search service's X-API-Key value.
const SearchAPIKey = "search-api-key"

// ErrInvalid reports a credential that cannot be sent as a header value.
var ErrInvalid = errors.New("invalid credential")

// Store maps credential names to values.
type Store map[string]string

// headerValued lists credentials that travel in request headers and must be
// a single printable token.
var headerValued = map[string]bool{SearchAPIKey: true}

// Load reads the credential files in dir. A missing directory yields an
// empty Store. Dotfiles, editor backups and subdirectories are ignored;
// unreadable or empty files are skipped. A header credential with embedded
// whitespace or control characters fails the load.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := Store{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
			continue
		}
		value, ok := readValue(filepath.Join(dir, name))
		if !ok {
			continue
		}
		if headerValued[name] {
			if err := CheckHeaderValue(value); err != nil {
				return nil, fmt.Errorf("secret %s: %w", name, err)
			}
		}
		s[name] = value
	}
	return s, nil
}

func readValue(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.LogErr(err, "could not read secret", "name", filepath.Base(path))
		return "", false
	}
	value := strings.TrimSpace(string(data))
	return value, value != ""
}

// CheckHeaderValue rejects values that would corrupt an HTTP header line.
func CheckHeaderValue(v string) error {
	for _, r := range v {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf("%w: contains whitespace or control characters", ErrInvalid)
		}
	}
	return nil
}

// Get returns the named credential, or "" when absent.
func (s Store) Get(name string) string { return s[name] }

// SearchAPIKey returns the search service key, or "" when none is loaded.
func (s Store) SearchAPIKey() string { return s[SearchAPIKey] }

// Names returns the loaded credential names in sorted order, for logging
// without exposing values.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Redact masks v for display. Values longer than eight characters keep
// their last four so operators can tell keys apart.
func Redact(v string) string {
	switch {
	case v == "":
		return ""
	case len(v) > 8:
		return "****" + v[len(v)-4:]
	default:
		return "****"
	}
}
