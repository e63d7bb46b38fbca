package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/db"
	"github.com/udisondev/mixkey/internal/mix"
	"github.com/udisondev/mixkey/internal/scanner"
)

func (a *app) scanCmd() *cobra.Command {
	var catalog bool
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Inspect every archive below the given paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := args
			if len(paths) == 0 {
				paths = a.cfg.ScanPaths
			}

			infos, err := scanner.Scan(ctx, paths, a.scanOptions())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Path", "Size", "Entries", "Blowfish key", "Error"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			var total int64
			for _, info := range infos {
				row := []string{info.Path, humanize.Bytes(uint64(info.Size)), strconv.Itoa(len(info.Entries)), info.BlowfishKey, ""}
				if info.Err != nil {
					row[4] = info.Err.Error()
				}
				table.Append(row)
				total += info.Size
			}
			table.SetFooter([]string{strconv.Itoa(len(infos)) + " archives", humanize.Bytes(uint64(total)), "", "", ""})
			table.Render()

			if catalog || a.cfg.Catalog.Enabled {
				return a.catalog(ctx, infos)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&catalog, "catalog", false, "store results in the PostgreSQL catalog")
	return cmd
}

func (a *app) openCatalog(ctx context.Context) (*db.DB, error) {
	dsn := a.cfg.Database.DSN()
	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.RunMigrations(ctx, dsn); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database, nil
}

func (a *app) catalog(ctx context.Context, infos []scanner.ArchiveInfo) error {
	database, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	repo := database.Archives()
	var stored int
	for _, info := range infos {
		if info.Err != nil {
			continue
		}
		rec := db.ArchiveRecord{
			Path:        info.Path,
			Size:        info.Size,
			Flags:       info.Flags,
			BlowfishKey: info.BlowfishKey,
		}
		if err := repo.UpsertArchive(ctx, rec, info.Entries); err != nil {
			return err
		}
		stored++
	}
	slog.Info("catalog updated", "archives", stored)
	return nil
}

func (a *app) whereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where <name>",
		Short: "List cataloged archives containing a file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			id := mix.EntryID(args[0])
			locs, err := database.Archives().FindEntry(ctx, id)
			if err != nil {
				return err
			}
			if len(locs) == 0 {
				return fmt.Errorf("%s (%08X): %w", args[0], id, mix.ErrNotFound)
			}
			for _, loc := range locs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", loc.ArchivePath, loc.Entry.Offset, humanize.Bytes(uint64(loc.Entry.Size)))
			}
			return nil
		},
	}
}
