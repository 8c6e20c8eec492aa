// Package buildcache lets typeschema skip regeneration when neither the type
// graph nor the effective configuration changed since the last successful run
// and the document it wrote is still on disk.
//
// The check is all-or-nothing: any mismatch regenerates the whole document.
// Named schemas reference each other, so there is no safe partial rebuild.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// SchemaVersion is bumped when the cache format or the generated output changes.
// A mismatch forces a full rebuild, ensuring binary upgrades don't produce stale outputs.
const SchemaVersion = 1

// FileName is the cache file created next to the generated document.
const FileName = ".typeschema-cache"

// Cache records what was true when generation last ran successfully.
type Cache struct {
	// V is the schema version. Must match SchemaVersion or cache is invalid.
	V int `json:"v"`

	// InputHash is the SHA-256 hex digest of the type graph file.
	InputHash string `json:"inputHash"`

	// ConfigHash is the SHA-256 hex digest of the effective configuration,
	// after file, flag and environment overrides were merged.
	ConfigHash string `json:"configHash"`

	// Outputs lists files that must still exist for the cache to be valid.
	Outputs []string `json:"outputs"`
}

// CachePath returns the cache file path for a document written to output.
// It returns "" when output is empty (stdout), which disables caching.
func CachePath(output string) string {
	if output == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(output), FileName)
}

// Load reads and parses a cache file from disk.
// Returns nil if the file doesn't exist, is unreadable, or is invalid JSON.
// Callers should treat nil as a cache miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}

	return &c
}

// Save writes the cache to disk atomically (write to temp, rename).
// A failed save only means the next run regenerates.
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return nil
}

// Delete removes the cache file from disk. Errors are ignored (file may not exist).
func Delete(path string) {
	os.Remove(path)
}

// IsValid checks whether the cache can be trusted to skip generation.
// ALL of the following must be true simultaneously:
//
//  1. Schema version matches (catches binary upgrades)
//  2. Input hash matches the current type graph
//  3. Config hash matches the current effective configuration
//  4. All output files still exist on disk
func (c *Cache) IsValid(inputHash, configHash string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if inputHash == "" || c.InputHash != inputHash {
		return false
	}
	if c.ConfigHash != configHash {
		return false
	}
	for _, path := range c.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// HashFile computes the SHA-256 hex digest of a file's contents.
// Returns empty string if the file doesn't exist or can't be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return hashBytes(data)
}

// HashValue computes the SHA-256 hex digest of v's deterministic JSON encoding.
func HashValue(v any) (string, error) {
	data, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return "", fmt.Errorf("hashing value: %w", err)
	}
	return hashBytes(data), nil
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// New creates a new Cache with the current schema version.
func New(inputHash, configHash string, outputs []string) *Cache {
	return &Cache{
		V:          SchemaVersion,
		InputHash:  inputHash,
		ConfigHash: configHash,
		Outputs:    outputs,
	}
}
