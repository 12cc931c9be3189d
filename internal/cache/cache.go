// Package cache stores forge API responses in memory and on disk with a TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultTTL matches how long forge answers are considered fresh.
const DefaultTTL = 10 * time.Minute

const (
	dataExt = ".resp"
	metaExt = ".meta"
)

var errExpired = errors.New("cache entry expired")

// Store is a two-level cache: an in-process map backed by an optional directory.
// It is safe for concurrent use.
type Store struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
	memory map[string]entry
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

type metadata struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Config configures a Store.
type Config struct {
	// Dir holds cached responses across runs. Defaults to a directory under os.TempDir().
	Dir string

	// TTL is how long an entry stays valid. Defaults to DefaultTTL.
	TTL time.Duration

	// MemoryOnly keeps entries for the life of the process only.
	MemoryOnly bool
}

// DefaultDir returns the directory used when Config.Dir is empty.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "releaseconductor-cache")
}

// New creates a Store, creating its directory if needed.
func New(cfg Config) (*Store, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	dir := cfg.Dir
	if cfg.MemoryOnly {
		dir = ""
	} else if dir == "" {
		dir = DefaultDir()
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &Store{
		dir:    dir,
		ttl:    cfg.TTL,
		now:    time.Now,
		memory: make(map[string]entry),
	}, nil
}

// Dir returns the backing directory, or "" for a memory-only store.
func (s *Store) Dir() string {
	return s.dir
}

// TTL returns the entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the value stored under key if it has not expired.
func (s *Store) Get(key string) ([]byte, bool) {
	hash := hashKey(key)
	now := s.now()

	s.mu.RLock()
	e, ok := s.memory[hash]
	s.mu.RUnlock()
	if ok {
		if now.Before(e.expiresAt) {
			return e.data, true
		}
		s.mu.Lock()
		delete(s.memory, hash)
		s.mu.Unlock()
	}

	if s.dir == "" {
		return nil, false
	}

	data, expiresAt, err := s.readFile(hash, now)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	s.memory[hash] = entry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()
	return data, true
}

// Set stores data under key for the configured TTL.
func (s *Store) Set(key string, data []byte) error {
	hash := hashKey(key)
	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	s.memory[hash] = entry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()

	if s.dir == "" {
		return nil
	}
	return s.writeFile(hash, key, data, expiresAt)
}

// Delete removes key from both levels.
func (s *Store) Delete(key string) {
	hash := hashKey(key)

	s.mu.Lock()
	delete(s.memory, hash)
	s.mu.Unlock()

	if s.dir != "" {
		s.removeFiles(hash)
	}
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.memory = make(map[string]entry)
	s.mu.Unlock()

	if s.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, e := range entries {
		if isCacheFile(e.Name()) {
			_ = os.Remove(filepath.Join(s.dir, e.Name()))
		}
	}
	return nil
}

// Prune removes expired entries and returns how many were dropped.
func (s *Store) Prune() (int, error) {
	now := s.now()
	pruned := 0

	s.mu.Lock()
	for hash, e := range s.memory {
		if !now.Before(e.expiresAt) {
			delete(s.memory, hash)
			pruned++
		}
	}
	s.mu.Unlock()

	if s.dir == "" {
		return pruned, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return pruned, fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), metaExt) {
			continue
		}
		hash := strings.TrimSuffix(e.Name(), metaExt)
		if _, _, err := s.readFile(hash, now); errors.Is(err, errExpired) {
			pruned++
		}
	}
	return pruned, nil
}

// Stats summarizes cache usage.
type Stats struct {
	MemoryEntries int   `json:"memoryEntries"`
	FileEntries   int   `json:"fileEntries"`
	TotalSizeKB   int64 `json:"totalSizeKB"`
}

// Stats returns the number of cached entries and their size on disk.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	stats := Stats{MemoryEntries: len(s.memory)}
	s.mu.RUnlock()

	if s.dir == "" {
		return stats
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return stats
	}
	var size int64
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), dataExt) {
			continue
		}
		stats.FileEntries++
		if info, err := e.Info(); err == nil {
			size += info.Size()
		}
	}
	stats.TotalSizeKB = size / 1024
	return stats
}

// readFile loads an entry from disk, removing it if it has expired.
func (s *Store) readFile(hash string, now time.Time) ([]byte, time.Time, error) {
	metaPath := filepath.Join(s.dir, hash+metaExt)

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, time.Time{}, err
	}

	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode cache metadata: %w", err)
	}

	if !now.Before(meta.ExpiresAt) {
		s.removeFiles(hash)
		return nil, time.Time{}, errExpired
	}

	data, err := os.ReadFile(filepath.Join(s.dir, hash+dataExt))
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, meta.ExpiresAt, nil
}

func (s *Store) writeFile(hash, key string, data []byte, expiresAt time.Time) error {
	raw, err := json.Marshal(metadata{Key: key, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	// Data first, so a reader never sees metadata without a body.
	if err := os.WriteFile(filepath.Join(s.dir, hash+dataExt), data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, hash+metaExt), raw, 0o600); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	return nil
}

func (s *Store) removeFiles(hash string) {
	_ = os.Remove(filepath.Join(s.dir, hash+metaExt))
	_ = os.Remove(filepath.Join(s.dir, hash+dataExt))
}

func isCacheFile(name string) bool {
	return strings.HasSuffix(name, dataExt) || strings.HasSuffix(name, metaExt)
}

// hashKey maps a key to a file-name-safe digest.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:16])
}
