package mix

import (
	"bufio"
	"cmp"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/crypto"
)

// File is a named entry to be written into an archive.
type File struct {
	Name string
	Data []byte
}

// WriteOptions controls the archive layout.
type WriteOptions struct {
	// Encrypt stores the header Blowfish encrypted.
	Encrypt bool

	// Checksum appends a SHA-1 digest of the body.
	Checksum bool

	// KeySource is stored ahead of an encrypted header. A random source is
	// generated when it is nil.
	KeySource []byte
}

// Write writes files as a MIX archive. Entries are stored ordered by signed id,
// the order the game binary-searches them in.
func Write(w io.Writer, files []File, opts WriteOptions) error {
	if len(files) > constants.MaxEntries {
		return fmt.Errorf("%d files: %w", len(files), ErrTooManyEntries)
	}

	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b File) int {
		return cmp.Compare(int32(EntryID(a.Name)), int32(EntryID(b.Name)))
	})

	entries := make([]Entry, len(sorted))
	var body uint64
	for i, f := range sorted {
		id := EntryID(f.Name)
		if i > 0 && entries[i-1].ID == id {
			return fmt.Errorf("%s and %s: %w", sorted[i-1].Name, f.Name, ErrDuplicateID)
		}
		entries[i] = Entry{ID: id, Offset: uint32(body), Size: uint32(len(f.Data))}
		body += uint64(len(f.Data))
		if body > 0xFFFFFFFF {
			return fmt.Errorf("body of %d bytes exceeds 4 GiB", body)
		}
	}

	var flags uint32
	if opts.Encrypt {
		flags |= constants.FlagEncrypted
	}
	if opts.Checksum {
		flags |= constants.FlagChecksum
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("writing flags: %w", err)
	}

	header := encodeHeader(entries, uint32(body))
	if opts.Encrypt {
		src, err := keySource(opts.KeySource)
		if err != nil {
			return err
		}
		key, err := crypto.BlowfishKey(src)
		if err != nil {
			return err
		}
		c, err := crypto.NewBlowfishCipher(key)
		if err != nil {
			return err
		}

		header = append(header, make([]byte, cipherSize(len(entries))-len(header))...)
		if err := c.Encrypt(header, 0, len(header)); err != nil {
			return err
		}
		if _, err := bw.Write(src); err != nil {
			return fmt.Errorf("writing key source: %w", err)
		}
	}
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	sum := sha1.New()
	out := io.MultiWriter(bw, sum)
	for _, f := range sorted {
		if _, err := out.Write(f.Data); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if opts.Checksum {
		if _, err := bw.Write(sum.Sum(nil)); err != nil {
			return fmt.Errorf("writing checksum: %w", err)
		}
	}
	return bw.Flush()
}

func encodeHeader(entries []Entry, bodySize uint32) []byte {
	b := make([]byte, constants.HeaderSize+len(entries)*constants.EntrySize)
	binary.LittleEndian.PutUint16(b, uint16(len(entries)))
	binary.LittleEndian.PutUint32(b[2:], bodySize)
	for i, e := range entries {
		rec := b[constants.HeaderSize+i*constants.EntrySize:]
		binary.LittleEndian.PutUint32(rec, e.ID)
		binary.LittleEndian.PutUint32(rec[4:], e.Offset)
		binary.LittleEndian.PutUint32(rec[8:], e.Size)
	}
	return b
}

func keySource(src []byte) ([]byte, error) {
	if src != nil {
		if len(src) != constants.KeySourceSize {
			return nil, fmt.Errorf("key source must be %d bytes, got %d", constants.KeySourceSize, len(src))
		}
		return src, nil
	}
	src = make([]byte, constants.KeySourceSize)
	if _, err := rand.Read(src); err != nil {
		return nil, fmt.Errorf("generating key source: %w", err)
	}
	return src, nil
}
