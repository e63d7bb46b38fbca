// Package scanner finds MIX archives on disk and resolves entry names across
// a set of open archives.
package scanner

import (
	"cmp"
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/mixkey/internal/mix"
)

// DefaultPattern matches MIX archives by file name.
const DefaultPattern = "*.mix"

// Options controls a scan.
type Options struct {
	// Pattern is a filepath.Match pattern applied case-insensitively to base
	// names. Empty means DefaultPattern.
	Pattern string

	// Workers bounds the number of archives inspected at once. Zero or less
	// means GOMAXPROCS.
	Workers int
}

// ArchiveInfo is the result of inspecting one archive.
type ArchiveInfo struct {
	Path    string
	Size    int64
	Flags   uint32
	Entries []mix.Entry

	// BlowfishKey is the hex encoded header key of an encrypted archive.
	BlowfishKey string

	// Err is set when the archive could not be read.
	Err error
}

// Encrypted reports whether the archive header was encrypted.
func (i ArchiveInfo) Encrypted() bool {
	return i.BlowfishKey != ""
}

// Scan walks paths, inspects every archive matching opts.Pattern and returns
// the results ordered by path. Unreadable archives are reported through
// ArchiveInfo.Err; only walk failures and cancellation fail the scan.
func Scan(ctx context.Context, paths []string, opts Options) ([]ArchiveInfo, error) {
	found, err := Find(ctx, paths, opts.Pattern)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	infos := make([]ArchiveInfo, len(found))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range found {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			infos[i] = Inspect(path)
			if infos[i].Err != nil {
				slog.Warn("skipping archive", "path", path, "err", infos[i].Err)
			} else {
				slog.Debug("archive scanned", "path", path, "entries", len(infos[i].Entries), "encrypted", infos[i].Encrypted())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning archives: %w", err)
	}
	return infos, nil
}

// Find walks paths and returns the sorted, de-duplicated list of files whose
// base name matches pattern.
func Find(ctx context.Context, paths []string, pattern string) ([]string, error) {
	pattern = strings.ToLower(cmp.Or(pattern, DefaultPattern))
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	var found []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ok, _ := filepath.Match(pattern, strings.ToLower(d.Name())); ok {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

// Inspect opens the archive at path and summarizes its header.
func Inspect(path string) ArchiveInfo {
	info := ArchiveInfo{Path: path}

	a, err := mix.Open(path)
	if err != nil {
		info.Err = err
		return info
	}
	defer a.Close()

	h := a.Header()
	info.Size = a.Size()
	info.Flags = h.Flags
	info.Entries = a.Entries()
	if h.Encrypted() {
		info.BlowfishKey = hex.EncodeToString(h.BlowfishKey)
	}
	if err := a.VerifyChecksum(); err != nil {
		info.Err = fmt.Errorf("%s: %w", path, err)
	}
	return info
}
