package scanner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/udisondev/mixkey/internal/mix"
)

// DefaultCacheSize is the number of resolved names a Locator remembers.
const DefaultCacheSize = 1024

type located struct {
	archive *mix.Archive
	entry   mix.Entry
}

// Locator resolves entry names across archives in the order they were added.
// Resolved names are cached. Safe for concurrent use.
type Locator struct {
	mu       sync.RWMutex
	archives []*mix.Archive
	cache    *lru.Cache[uint32, located]
}

// NewLocator creates an empty Locator remembering up to cacheSize names.
func NewLocator(cacheSize int) (*Locator, error) {
	cache, err := lru.New[uint32, located](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating locator cache: %w", err)
	}
	return &Locator{cache: cache}, nil
}

// OpenLocator opens every readable archive from a scan.
func OpenLocator(infos []ArchiveInfo, cacheSize int) (*Locator, error) {
	l, err := NewLocator(cacheSize)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Err != nil {
			continue
		}
		if err := l.AddPath(info.Path); err != nil {
			l.Close()
			return nil, err
		}
	}
	return l, nil
}

// Add registers an open archive. The Locator takes ownership of it.
func (l *Locator) Add(a *mix.Archive) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.archives = append(l.archives, a)
}

// AddPath opens and registers the archive at path.
func (l *Locator) AddPath(path string) error {
	a, err := mix.Open(path)
	if err != nil {
		return err
	}
	slog.Info("MIX file registered", "path", path, "entries", len(a.Header().Entries))
	l.Add(a)
	return nil
}

// Len returns the number of registered archives.
func (l *Locator) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.archives)
}

// Locate returns a reader over the first entry named name.
func (l *Locator) Locate(name string) (*io.SectionReader, error) {
	id := mix.EntryID(name)
	if hit, ok := l.cache.Get(id); ok {
		return hit.archive.Open(hit.entry), nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, a := range l.archives {
		if e, ok := a.LookupID(id); ok {
			l.cache.Add(id, located{archive: a, entry: e})
			return a.Open(e), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, mix.ErrNotFound)
}

// Close closes every registered archive and empties the cache.
func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.Purge()
	var errs []error
	for _, a := range l.archives {
		errs = append(errs, a.Close())
	}
	l.archives = nil
	return errors.Join(errs...)
}
