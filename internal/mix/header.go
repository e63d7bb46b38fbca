package mix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/crypto"
)

// Entry is one record of the entry table. Offset is relative to the body.
type Entry struct {
	ID     uint32
	Offset uint32
	Size   uint32
}

// Header is a parsed archive header.
type Header struct {
	Flags    uint32
	BodySize uint32
	Entries  []Entry

	// KeySource and BlowfishKey are set for encrypted archives only.
	KeySource   []byte
	BlowfishKey []byte

	// BodyOffset is the absolute offset of the body.
	BodyOffset int64
}

// Encrypted reports whether the header was stored Blowfish encrypted.
func (h *Header) Encrypted() bool {
	return h.Flags&constants.FlagEncrypted != 0
}

// HasChecksum reports whether a SHA-1 digest follows the body.
func (h *Header) HasChecksum() bool {
	return h.Flags&constants.FlagChecksum != 0
}

// Size returns the expected archive size: header, body and optional digest.
func (h *Header) Size() int64 {
	n := h.BodyOffset + int64(h.BodySize)
	if h.HasChecksum() {
		n += constants.ChecksumSize
	}
	return n
}

// ReadHeader parses the header of an archive of the given size.
func ReadHeader(r io.ReaderAt, size int64) (*Header, error) {
	var lead [constants.FlagsSize]byte
	if err := readAt(r, lead[:], 0); err != nil {
		return nil, fmt.Errorf("reading flags: %w", err)
	}

	h := &Header{}
	var off int64
	if binary.LittleEndian.Uint16(lead[:]) == 0 {
		h.Flags = binary.LittleEndian.Uint32(lead[:])
		off = constants.FlagsSize
	}

	var table []byte
	if h.Encrypted() {
		var err error
		table, err = h.readEncrypted(r, off)
		if err != nil {
			return nil, err
		}
	} else {
		fixed := make([]byte, constants.HeaderSize)
		if err := readAt(r, fixed, off); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		count := int(binary.LittleEndian.Uint16(fixed))
		table = make([]byte, constants.HeaderSize+count*constants.EntrySize)
		copy(table, fixed)
		if err := readAt(r, table[constants.HeaderSize:], off+constants.HeaderSize); err != nil {
			return nil, fmt.Errorf("reading entry table: %w", err)
		}
		h.BodyOffset = off + int64(len(table))
	}

	h.parseTable(table)

	if h.Size() > size {
		return nil, fmt.Errorf("header declares %d bytes, have %d: %w", h.Size(), size, ErrTruncated)
	}
	for _, e := range h.Entries {
		if uint64(e.Offset)+uint64(e.Size) > uint64(h.BodySize) {
			return nil, fmt.Errorf("entry %08x at %d+%d, body is %d bytes: %w",
				e.ID, e.Offset, e.Size, h.BodySize, ErrEntryBounds)
		}
	}
	return h, nil
}

// readEncrypted recovers the Blowfish key from the key source at off and
// returns the decrypted header. The entry count comes from the first block.
func (h *Header) readEncrypted(r io.ReaderAt, off int64) ([]byte, error) {
	h.KeySource = make([]byte, constants.KeySourceSize)
	if err := readAt(r, h.KeySource, off); err != nil {
		return nil, fmt.Errorf("reading key source: %w", err)
	}

	h.BlowfishKey = make([]byte, constants.BlowfishKeySize)
	if err := crypto.DeriveBlowfishKey(h.BlowfishKey, h.KeySource); err != nil {
		return nil, err
	}
	c, err := crypto.NewBlowfishCipher(h.BlowfishKey)
	if err != nil {
		return nil, err
	}

	off += constants.KeySourceSize
	first := make([]byte, constants.BlowfishBlockSize)
	if err := readAt(r, first, off); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := c.Decrypt(first, 0, len(first)); err != nil {
		return nil, err
	}

	count := int(binary.LittleEndian.Uint16(first))
	table := make([]byte, cipherSize(count))
	if err := readAt(r, table, off); err != nil {
		return nil, fmt.Errorf("reading entry table: %w", err)
	}
	if err := c.Decrypt(table, 0, len(table)); err != nil {
		return nil, err
	}

	h.BodyOffset = off + int64(len(table))
	return table, nil
}

// parseTable decodes the plain header layout: count, body size, entries.
func (h *Header) parseTable(b []byte) {
	count := int(binary.LittleEndian.Uint16(b))
	h.BodySize = binary.LittleEndian.Uint32(b[2:])

	h.Entries = make([]Entry, count)
	for i := range h.Entries {
		rec := b[constants.HeaderSize+i*constants.EntrySize:]
		h.Entries[i] = Entry{
			ID:     binary.LittleEndian.Uint32(rec),
			Offset: binary.LittleEndian.Uint32(rec[4:]),
			Size:   binary.LittleEndian.Uint32(rec[8:]),
		}
	}
}

// cipherSize returns the encrypted header size for count entries.
func cipherSize(count int) int {
	n := constants.HeaderSize + count*constants.EntrySize
	return (n + constants.BlowfishBlockSize - 1) &^ (constants.BlowfishBlockSize - 1)
}

func readAt(r io.ReaderAt, b []byte, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%d bytes at %d: %w", len(b), off, ErrTruncated)
		}
		return err
	}
	return nil
}
