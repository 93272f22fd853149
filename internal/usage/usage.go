// Package usage persists a recency/frequency record of project and task
// selections so pick-lists can surface the items the user actually uses.
// The cache is advisory: loading never fails a command, and a lost save is
// only a lost sort hint.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
)

const fileVersion = 1

// Record tracks when and how often an item was picked.
type Record struct {
	LastUsed time.Time `json:"last_used"`
	UseCount uint64    `json:"use_count"`
}

// Score is the usage ordering key for a single item.
type Score struct {
	LastUsed time.Time
	UseCount uint64
}

// Cache holds usage records for projects and tasks, persisted as one JSON
// document.
type Cache struct {
	Version  uint8             `json:"version"`
	Projects map[uint64]Record `json:"projects"`
	Tasks    map[uint64]Record `json:"tasks"`

	path string
	log  *zap.Logger
}

// FilePath returns the usage cache location under the user config dir.
func FilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, "harv", "usage.json"), nil
}

// New returns an empty cache that will persist to path.
func New(path string, log *zap.Logger) *Cache {
	return &Cache{
		Version:  fileVersion,
		Projects: map[uint64]Record{},
		Tasks:    map[uint64]Record{},
		path:     path,
		log:      log,
	}
}

// Load reads the cache at path. Any problem — missing file, unreadable
// file, malformed JSON, or a version from a newer release — yields an
// empty cache with a warning; a user command is never failed over the
// cache.
func Load(path string, log *zap.Logger) *Cache {
	cache, err := load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("No usage cache yet, starting fresh", zap.String("path", path))
		} else {
			log.Warn("Failed to load usage cache, starting fresh", zap.Error(err))
		}
		return New(path, log)
	}
	cache.path = path
	cache.log = log
	log.Debug("Loaded usage cache",
		zap.Int("projects", len(cache.Projects)),
		zap.Int("tasks", len(cache.Tasks)),
	)
	return cache
}

func load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cache.Version > fileVersion {
		return nil, fmt.Errorf("usage cache version %d is newer than supported version %d", cache.Version, fileVersion)
	}
	if cache.Projects == nil {
		cache.Projects = map[uint64]Record{}
	}
	if cache.Tasks == nil {
		cache.Tasks = map[uint64]Record{}
	}
	return &cache, nil
}

// Save writes the cache atomically: temp file, 0600 on POSIX, rename over
// the real path. Failures are logged and discarded so the surrounding
// command still succeeds.
func (c *Cache) Save() {
	if err := c.save(); err != nil {
		c.log.Warn("Failed to save usage cache; usage ordering will not persist", zap.Error(err))
	}
}

func (c *Cache) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling usage cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0o600); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("restricting cache permissions: %w", err)
		}
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// RecordProject upserts the usage record for a project id.
func (c *Cache) RecordProject(id uint64) {
	c.Projects[id] = bump(c.Projects[id])
}

// RecordTask upserts the usage record for a task id.
func (c *Cache) RecordTask(id uint64) {
	c.Tasks[id] = bump(c.Tasks[id])
}

func bump(r Record) Record {
	return Record{LastUsed: time.Now().UTC(), UseCount: r.UseCount + 1}
}

// ProjectScore returns the usage score for a project, if recorded.
func (c *Cache) ProjectScore(id uint64) *Score {
	return score(c.Projects, id)
}

// TaskScore returns the usage score for a task, if recorded.
func (c *Cache) TaskScore(id uint64) *Score {
	return score(c.Tasks, id)
}

func score(records map[uint64]Record, id uint64) *Score {
	r, ok := records[id]
	if !ok {
		return nil
	}
	return &Score{LastUsed: r.LastUsed, UseCount: r.UseCount}
}

// SortByUsage orders items most recently used first, breaking ties on use
// count; scored items sort before unscored ones, and unscored items fall
// back to ascending name order.
func SortByUsage[T any](items []T, name func(T) string, scoreOf func(T) *Score) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scoreOf(items[i]), scoreOf(items[j])
		switch {
		case si != nil && sj != nil:
			if !si.LastUsed.Equal(sj.LastUsed) {
				return si.LastUsed.After(sj.LastUsed)
			}
			return si.UseCount > sj.UseCount
		case si != nil:
			return true
		case sj != nil:
			return false
		default:
			return name(items[i]) < name(items[j])
		}
	})
}
