package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gerrit-reviewstats/internal/domain"
)

// DefaultCacheTTL - срок, в течение которого сохраненная история считается свежей.
const DefaultCacheTTL = time.Hour

// FileCache хранит изменения проекта в файле .<project>-changes.json.
// Свежесть определяется временем модификации файла.
type FileCache struct {
	mu  sync.Mutex
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileCache создает новый экземпляр FileCache.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	return &FileCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
}

func (c *FileCache) path(project string) string {
	return filepath.Join(c.dir, fmt.Sprintf(".%s-changes.json", project))
}

// Get возвращает сохраненные изменения или domain.ErrCacheMiss.
func (c *FileCache) Get(ctx context.Context, project string) ([]domain.Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn := c.path(project)
	info, err := os.Stat(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache file: %w", err)
	}

	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, domain.ErrCacheMiss
	}

	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var changes []domain.Change
	if err := json.NewDecoder(f).Decode(&changes); err != nil {
		return nil, fmt.Errorf("failed to decode cache file %s: %w", fn, err)
	}

	return changes, nil
}

// Put сохраняет изменения проекта. Файл заменяется атомарно.
func (c *FileCache) Put(ctx context.Context, project string, changes []domain.Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".changes-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(changes); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode changes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path(project)); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}
