package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type CachedResponse struct {
	Hash      string          `json:"hash"`
	Response  json.RawMessage `json:"response"`
	CreatedAt time.Time       `json:"created_at"`
}

// Cache stores JSON responses as one file per key under cacheDir.
type Cache struct {
	cacheDir string
	ttl      time.Duration
}

// NewCache opens (creating if needed) the cache directory and drops expired
// entries.
func NewCache(cacheDir string, ttl time.Duration) (*Cache, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory is not set")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating cache directory: %w", err)
	}

	cache := &Cache{
		cacheDir: cacheDir,
		ttl:      ttl,
	}

	_, _ = cache.CleanExpired()

	return cache, nil
}

// DefaultDir returns ~/.readmegen/cache.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".readmegen", "cache"), nil
}

func (c *Cache) Dir() string {
	return c.cacheDir
}

// GenerateHash returns the hex SHA-256 of the parts joined by NUL.
func (c *Cache) GenerateHash(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Get returns the cached response for hash. Expired entries are removed and
// reported as a miss.
func (c *Cache) Get(hash string) (json.RawMessage, bool, error) {
	filePath := c.path(hash)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error reading cache: %w", err)
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("error decoding cache entry: %w", err)
	}

	if time.Since(cached.CreatedAt) > c.ttl {
		_ = os.Remove(filePath)
		return nil, false, nil
	}

	return cached.Response, true, nil
}

func (c *Cache) Set(hash string, response interface{}) error {
	responseData, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("error encoding response: %w", err)
	}

	cached := CachedResponse{
		Hash:      hash,
		Response:  responseData,
		CreatedAt: time.Now(),
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.cacheDir, hash+".*.tmp")
	if err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(hash)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving cache: %w", err)
	}

	return nil
}

// CleanExpired removes entries older than the TTL and returns how many were removed.
func (c *Cache) CleanExpired() (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("error reading cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > c.ttl {
			if os.Remove(filepath.Join(c.cacheDir, entry.Name())) == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// Clean removes the whole cache directory.
func (c *Cache) Clean() error {
	return os.RemoveAll(c.cacheDir)
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.cacheDir, hash+".json")
}
