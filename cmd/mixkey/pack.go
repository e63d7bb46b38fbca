package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/mix"
)

func (a *app) packCmd() *cobra.Command {
	var opts mix.WriteOptions
	cmd := &cobra.Command{
		Use:   "pack <out> <files...>",
		Short: "Write files into a new archive",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			files := make([]mix.File, 0, len(args)-1)
			for _, p := range args[1:] {
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("reading %s: %w", p, err)
				}
				files = append(files, mix.File{Name: filepath.Base(p), Data: data})
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := mix.Write(f, files, opts); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			slog.Info("archive written", "path", out, "entries", len(files), "encrypted", opts.Encrypt)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Encrypt, "encrypt", "e", false, "encrypt the header")
	cmd.Flags().BoolVarP(&opts.Checksum, "checksum", "c", false, "append a SHA-1 digest of the body")
	return cmd
}
