package mix

import "errors"

var (
	// ErrTruncated reports an archive shorter than its header declares.
	ErrTruncated = errors.New("mix: archive truncated")

	// ErrEntryBounds reports an entry that points outside the body.
	ErrEntryBounds = errors.New("mix: entry outside body")

	// ErrChecksum reports a body that does not match the trailing SHA-1 digest.
	ErrChecksum = errors.New("mix: checksum mismatch")

	// ErrNotFound reports a lookup of a name not present in the archive.
	ErrNotFound = errors.New("mix: entry not found")

	// ErrDuplicateID reports two names with the same id in one archive.
	ErrDuplicateID = errors.New("mix: duplicate entry id")

	// ErrTooManyEntries reports more entries than the header can count.
	ErrTooManyEntries = errors.New("mix: too many entries")
)
