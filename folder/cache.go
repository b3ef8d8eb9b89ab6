package folder

import (
	"io/fs"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// Cache remembers per-file summaries across scans so unchanged files are
// not re-parsed. It is safe for concurrent use; a Scanner and a Watcher may
// share one.
type Cache struct {
	m *xsync.Map[string, cacheEntry]
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	summary Summary
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{m: xsync.NewMap[string, cacheEntry]()}
}

// Lookup returns the cached summary for path if its recorded size and
// modification time still match fi.
func (c *Cache) Lookup(path string, fi fs.FileInfo) (Summary, bool) {
	e, ok := c.m.Load(path)
	if !ok || e.size != fi.Size() || !e.modTime.Equal(fi.ModTime()) {
		return Summary{}, false
	}
	return e.summary, true
}

// Store records the summary for path keyed by fi's size and modification
// time.
func (c *Cache) Store(path string, fi fs.FileInfo, sum Summary) {
	c.m.Store(path, cacheEntry{size: fi.Size(), modTime: fi.ModTime(), summary: sum})
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	c.m.Delete(path)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.m.Size()
}
