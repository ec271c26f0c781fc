// Package auth implements device-code authentication against Microsoft Entra ID
// with a file-backed access token cache.
//
// The actual OAuth protocol work (device-code issuance, polling, token
// refresh cryptography) is delegated entirely to the azidentity library;
// this package only decides when a cached token can be reused and when the
// identity library has to be asked for a fresh one.
//
// Token Cache Layout:
//
//	The cache is a single JSON file (default: ~/.graphmail/token.json)
//	holding the raw access token and its Unix expiry timestamp:
//
//	    {"access_token": "eyJ0...", "expires_on": 1756200000}
//
//	An unreadable, malformed, or expired cache file is treated as absent;
//	it never causes an authentication failure on its own.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	homedir "github.com/mitchellh/go-homedir"
)

// refreshMargin is subtracted from the token expiry when deciding whether a
// cached token is still usable, so callers never receive a token that expires
// mid-request.
const refreshMargin = 2 * time.Minute

// cacheRecord is the on-disk representation of a cached access token.
type cacheRecord struct {
	AccessToken string `json:"access_token"`
	ExpiresOn   int64  `json:"expires_on"`
}

// TokenCache persists a single access token to a JSON file between runs.
type TokenCache struct {
	path string
}

// NewTokenCache creates a token cache backed by the given file path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// DefaultCachePath returns the default token cache location in the user's
// home directory (~/.graphmail/token.json).
func DefaultCachePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".graphmail", "token.json"), nil
}

// Path returns the cache file path.
func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached access token if one exists and is not within the
// refresh margin of its expiry. The second return value reports whether a
// usable token was found.
func (c *TokenCache) Load() (azcore.AccessToken, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return azcore.AccessToken{}, false
	}

	var record cacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return azcore.AccessToken{}, false
	}
	if record.AccessToken == "" || record.ExpiresOn == 0 {
		return azcore.AccessToken{}, false
	}

	expiresOn := time.Unix(record.ExpiresOn, 0)
	if time.Now().After(expiresOn.Add(-refreshMargin)) {
		return azcore.AccessToken{}, false
	}

	return azcore.AccessToken{
		Token:     record.AccessToken,
		ExpiresOn: expiresOn,
	}, true
}

// Save persists an access token to the cache file, creating the parent
// directory if necessary. The file is written with 0600 permissions since it
// holds a bearer credential.
func (c *TokenCache) Save(token azcore.AccessToken) error {
	record := cacheRecord{
		AccessToken: token.Token,
		ExpiresOn:   token.ExpiresOn.Unix(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal token cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *TokenCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}

// CacheStatus describes the state of the token cache file for diagnostics.
type CacheStatus struct {
	Path      string        // Cache file location
	Exists    bool          // Whether the cache file is present
	Size      int64         // File size in bytes
	Valid     bool          // Whether a usable (unexpired) token was found
	ExpiresOn time.Time     // Token expiry, zero when no token
	TimeLeft  time.Duration // Remaining token lifetime, negative when expired
}

// Status inspects the cache file and reports its state. Used by the tokens
// command to verify that token persistence works between runs.
func (c *TokenCache) Status() CacheStatus {
	status := CacheStatus{Path: c.path}

	info, err := os.Stat(c.path)
	if err != nil {
		return status
	}
	status.Exists = true
	status.Size = info.Size()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return status
	}

	var record cacheRecord
	if err := json.Unmarshal(data, &record); err != nil || record.ExpiresOn == 0 {
		return status
	}

	status.ExpiresOn = time.Unix(record.ExpiresOn, 0)
	status.TimeLeft = time.Until(status.ExpiresOn)
	status.Valid = status.TimeLeft > refreshMargin
	return status
}
