// Package cache implements the Match Cache (spec §4.8/§3.8): a dry-run
// result persisted next to the scan root so a later run can skip the
// Sample/Query steps when nothing relevant has changed. Persistence and
// locking follow the teacher's QueueManager (pkg/core/queue), rewritten to
// serialize as TOML via github.com/pelletier/go-toml/v2 instead of JSON,
// and keyed by a fingerprint tuple instead of being a flat list.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/subx-cli/subx/pkg/matchplan"
)

// DefaultFileName is the cache file's default name, written next to the
// scan root (spec §4.8).
const DefaultFileName = ".subx-cache.toml"

// Entry is the persisted form of a dry-run result (spec §3.8).
type Entry struct {
	ScanRoot  string    `toml:"scan_root"`
	CreatedAt time.Time `toml:"created_at"`

	DiscoveredFileIDs []string `toml:"discovered_file_ids"`

	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	AIModelName         string  `toml:"ai_model_name"`

	// Advisory only: never invalidate a cache hit by themselves (spec
	// §4.7 step 2), but are re-derived against current flags on hit.
	OriginalRelocationMode string `toml:"original_relocation_mode"`
	OriginalBackupEnabled  bool   `toml:"original_backup_enabled"`

	Operations []matchplan.MatchOperation `toml:"operations"`
}

// Fingerprint is the subset of an Entry that determines a cache hit (spec
// §4.7 step 2: "same set of file ids, same confidence_threshold, same
// ai_model_name").
type Fingerprint struct {
	DiscoveredFileIDs   []string
	ConfidenceThreshold float64
	AIModelName         string
}

// Hit reports whether fp matches the entry closely enough to reuse its
// plan.
func (e *Entry) Hit(fp Fingerprint) bool {
	if e == nil {
		return false
	}
	if e.ConfidenceThreshold != fp.ConfidenceThreshold || e.AIModelName != fp.AIModelName {
		return false
	}
	return sameIDSet(e.DiscoveredFileIDs, fp.DiscoveredFileIDs)
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Store manages reading and writing a single cache file with a mutex
// guarding concurrent access from within one process.
type Store struct {
	path   string
	lock   sync.RWMutex
	logger *logrus.Logger
}

// NewStore builds a Store for the cache file at path. If logger is nil, the
// package-default logrus logger is used (teacher convention).
func NewStore(path string, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{path: path, logger: logger}
}

// PathForRoot returns the default cache path for a scan root.
func PathForRoot(scanRoot string) string {
	return filepath.Join(scanRoot, DefaultFileName)
}

// Load reads the cache file. A missing file is not an error: it returns
// (nil, nil).
func (s *Store) Load() (*Entry, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entry Entry
	if err := toml.Unmarshal(data, &entry); err != nil {
		s.logger.Warnf("cache: discarding unreadable cache file %s: %v", s.path, err)
		return nil, nil
	}
	return &entry, nil
}

// Save writes entry to the cache file, overwriting any prior contents.
// Spec §4.8: "written at the end of both dry-run and execute paths."
func (s *Store) Save(entry Entry) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := toml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("cache: write %s: %w", s.path, err)
	}
	return nil
}
