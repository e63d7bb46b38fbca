package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/mixkey/internal/mix"
)

// ArchiveRecord is one scanned archive as stored in the catalog.
type ArchiveRecord struct {
	Path        string
	Size        int64
	Flags       uint32
	EntryCount  int
	BlowfishKey string // hex, empty for plain archives
	ScannedAt   time.Time
}

// EntryLocation names an archive holding an entry.
type EntryLocation struct {
	ArchivePath string
	Entry       mix.Entry
}

// ArchiveRepository persists scan results.
type ArchiveRepository struct {
	pool *pgxpool.Pool
}

// NewArchiveRepository creates a repository over pool.
func NewArchiveRepository(pool *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{pool: pool}
}

// UpsertArchive stores rec and replaces its entry table in one transaction.
func (r *ArchiveRepository) UpsertArchive(ctx context.Context, rec ArchiveRecord, entries []mix.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var key *string
	if rec.BlowfishKey != "" {
		key = &rec.BlowfishKey
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO archives (path, size, flags, entry_count, blowfish_key, scanned_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (path) DO UPDATE SET
		   size = EXCLUDED.size,
		   flags = EXCLUDED.flags,
		   entry_count = EXCLUDED.entry_count,
		   blowfish_key = EXCLUDED.blowfish_key,
		   scanned_at = EXCLUDED.scanned_at`,
		rec.Path, rec.Size, int64(rec.Flags), len(entries), key,
	)
	if err != nil {
		return fmt.Errorf("upserting archive %s: %w", rec.Path, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM archive_entries WHERE archive_path = $1`, rec.Path); err != nil {
		return fmt.Errorf("deleting entries of %s: %w", rec.Path, err)
	}

	if len(entries) > 0 {
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{rec.Path, int64(e.ID), int64(e.Offset), int64(e.Size)})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"archive_entries"},
			[]string{"archive_path", "entry_id", "entry_offset", "entry_size"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying entries of %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing archive %s: %w", rec.Path, err)
	}

	slog.Debug("archive cataloged", "path", rec.Path, "entries", len(entries))
	return nil
}

// GetArchive returns the record for path or nil if it is not cataloged.
func (r *ArchiveRepository) GetArchive(ctx context.Context, path string) (*ArchiveRecord, error) {
	rec, err := scanArchive(r.pool.QueryRow(ctx,
		`SELECT path, size, flags, entry_count, blowfish_key, scanned_at
		 FROM archives WHERE path = $1`, path))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading archive %s: %w", path, err)
	}
	return rec, nil
}

// ListArchives returns all cataloged archives ordered by path.
func (r *ArchiveRepository) ListArchives(ctx context.Context) ([]ArchiveRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT path, size, flags, entry_count, blowfish_key, scanned_at
		 FROM archives ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("querying archives: %w", err)
	}
	defer rows.Close()

	var recs []ArchiveRecord
	for rows.Next() {
		rec, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archives: %w", err)
	}
	return recs, nil
}

// ListEntries returns the entry table of path ordered by signed id, the
// order the archive itself stores them in.
func (r *ArchiveRepository) ListEntries(ctx context.Context, path string) ([]mix.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT entry_id, entry_offset, entry_size FROM archive_entries
		 WHERE archive_path = $1
		 ORDER BY CASE WHEN entry_id >= 2147483648 THEN entry_id - 4294967296 ELSE entry_id END`, path)
	if err != nil {
		return nil, fmt.Errorf("querying entries of %s: %w", path, err)
	}
	defer rows.Close()

	var entries []mix.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// FindEntry returns every cataloged archive containing id, ordered by path.
func (r *ArchiveRepository) FindEntry(ctx context.Context, id uint32) ([]EntryLocation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT archive_path, entry_id, entry_offset, entry_size FROM archive_entries
		 WHERE entry_id = $1 ORDER BY archive_path`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("querying entry %08x: %w", id, err)
	}
	defer rows.Close()

	var locs []EntryLocation
	for rows.Next() {
		var path string
		var eid, offset, size int64
		if err := rows.Scan(&path, &eid, &offset, &size); err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		locs = append(locs, EntryLocation{
			ArchivePath: path,
			Entry:       mix.Entry{ID: uint32(eid), Offset: uint32(offset), Size: uint32(size)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}
	return locs, nil
}

// DeleteArchive removes path and its entries. Missing archives are ignored.
func (r *ArchiveRepository) DeleteArchive(ctx context.Context, path string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM archives WHERE path = $1`, path); err != nil {
		return fmt.Errorf("deleting archive %s: %w", path, err)
	}
	return nil
}

func scanArchive(row pgx.Row) (*ArchiveRecord, error) {
	var (
		rec   ArchiveRecord
		flags int64
		key   *string
	)
	if err := row.Scan(&rec.Path, &rec.Size, &flags, &rec.EntryCount, &key, &rec.ScannedAt); err != nil {
		return nil, err
	}
	rec.Flags = uint32(flags)
	if key != nil {
		rec.BlowfishKey = *key
	}
	return &rec, nil
}

func scanEntry(row pgx.Row) (mix.Entry, error) {
	var id, offset, size int64
	if err := row.Scan(&id, &offset, &size); err != nil {
		return mix.Entry{}, err
	}
	return mix.Entry{ID: uint32(id), Offset: uint32(offset), Size: uint32(size)}, nil
}
