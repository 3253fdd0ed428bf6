package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// otherDir holds entries whose key was not built by [DefaultKeyer].
const otherDir = "_other"

// FileCache keeps rendered artifacts on the local disk, grouped by view and
// format:
//
//	<dir>/network/svg/3f/9a1c...json
//	<dir>/beams/png/c0/77e2...json
//
// The file name is the digest of the full key, so scoped keys never collide.
// Every entry records its key, view, format and timestamps next to the bytes,
// which lets [FileCache.Usage] and [FileCache.ClearView] work per view.
type FileCache struct {
	dir string
}

// fileEntry is the JSON document stored for one artifact.
type fileEntry struct {
	Key       string    `json:"key"`
	View      string    `json:"view,omitempty"`
	Format    string    `json:"format,omitempty"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the artifact stored under key. Unreadable, expired or foreign
// entries count as misses and are removed.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes an artifact. A zero ttl keeps it until it is deleted or cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	entry := fileEntry{Key: key, Data: data, CreatedAt: now}
	if info, ok := ParseRenderKey(key); ok {
		entry.View, entry.Format = info.View, info.Format
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete removes one artifact. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every artifact of every view.
func (c *FileCache) Clear(ctx context.Context) error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// ClearView removes every artifact rendered for view.
func (c *FileCache) ClearView(ctx context.Context, view string) error {
	if err := checkView(view); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(c.dir, keyPart(view)))
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// Usage is the disk footprint of one view and format.
type Usage struct {
	View    string
	Format  string
	Entries int
	Expired int
	Bytes   int64
}

// Usage reports the stored artifacts grouped by view and format, sorted by
// view then format. Entries that cannot be decoded are skipped.
func (c *FileCache) Usage(ctx context.Context) ([]Usage, error) {
	groups := make(map[[2]string]*Usage)
	now := time.Now()
	err := c.walk(ctx, func(path string, size int64, e *fileEntry) error {
		view, format := e.View, e.Format
		if view == "" {
			view, format = otherDir, "-"
		}
		u, ok := groups[[2]string{view, format}]
		if !ok {
			u = &Usage{View: view, Format: format}
			groups[[2]string{view, format}] = u
		}
		u.Entries++
		u.Bytes += size
		if e.expired(now) {
			u.Expired++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Usage, 0, len(groups))
	for _, u := range groups {
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b Usage) int {
		return cmp.Or(cmp.Compare(a.View, b.View), cmp.Compare(a.Format, b.Format))
	})
	return out, nil
}

// Prune removes expired artifacts and reports how many were removed.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	removed := 0
	now := time.Now()
	err := c.walk(ctx, func(path string, _ int64, e *fileEntry) error {
		if !e.expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// walk decodes every entry under the cache directory.
func (c *FileCache) walk(ctx context.Context, fn func(path string, size int64, e *fileEntry) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var e fileEntry
		if json.Unmarshal(raw, &e) != nil {
			return nil
		}
		return fn(path, int64(len(raw)), &e)
	})
}

// path places a key under its view and format directories.
func (c *FileCache) path(key string) string {
	view, format := otherDir, ""
	if info, ok := ParseRenderKey(key); ok && checkView(info.View) == nil && checkView(info.Format) == nil {
		view, format = info.View, info.Format
	}
	name := digest(key)
	return filepath.Join(c.dir, view, format, name[:2], name[2:]+".json")
}

var (
	_ Cache       = (*FileCache)(nil)
	_ Clearer     = (*FileCache)(nil)
	_ ViewClearer = (*FileCache)(nil)
)
