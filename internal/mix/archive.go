// Package mix reads and writes Westwood MIX archives, including archives whose
// header is encrypted with a key recovered from the embedded key source.
package mix

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/udisondev/mixkey/internal/constants"
)

// Archive is an open MIX archive. Entry readers share the underlying
// io.ReaderAt and may be used concurrently.
type Archive struct {
	r      io.ReaderAt
	closer io.Closer
	size   int64

	header *Header
	byID   map[uint32]Entry
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	a, err := NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	a.closer = f
	return a, nil
}

// NewReader reads an archive of the given size from r.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	h, err := ReadHeader(r, size)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint32]Entry, len(h.Entries))
	for _, e := range h.Entries {
		byID[e.ID] = e
	}
	return &Archive{r: r, size: size, header: h, byID: byID}, nil
}

// Header returns the parsed header.
func (a *Archive) Header() *Header {
	return a.header
}

// Size returns the archive size in bytes.
func (a *Archive) Size() int64 {
	return a.size
}

// Entries returns a copy of the entry table in stored order.
func (a *Archive) Entries() []Entry {
	return slices.Clone(a.header.Entries)
}

// Lookup finds an entry by name.
func (a *Archive) Lookup(name string) (Entry, error) {
	e, ok := a.LookupID(EntryID(name))
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

// LookupID finds an entry by id.
func (a *Archive) LookupID(id uint32) (Entry, bool) {
	e, ok := a.byID[id]
	return e, ok
}

// Open returns a reader over the data of e.
func (a *Archive) Open(e Entry) *io.SectionReader {
	return io.NewSectionReader(a.r, a.header.BodyOffset+int64(e.Offset), int64(e.Size))
}

// ReadFile returns the data of the named entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	e, err := a.Lookup(name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, e.Size)
	if _, err := io.ReadFull(a.Open(e), b); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return b, nil
}

// VerifyChecksum compares the body with the trailing SHA-1 digest. Archives
// without the checksum flag always verify.
func (a *Archive) VerifyChecksum() error {
	h := a.header
	if !h.HasChecksum() {
		return nil
	}

	sum := sha1.New()
	body := io.NewSectionReader(a.r, h.BodyOffset, int64(h.BodySize))
	if _, err := io.Copy(sum, body); err != nil {
		return fmt.Errorf("hashing body: %w", err)
	}

	want := make([]byte, constants.ChecksumSize)
	if err := readAt(a.r, want, h.BodyOffset+int64(h.BodySize)); err != nil {
		return fmt.Errorf("reading checksum: %w", err)
	}
	if !bytes.Equal(sum.Sum(nil), want) {
		return ErrChecksum
	}
	return nil
}

// Close closes the underlying file when the archive was opened by Open.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
