package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/scanner"
)

func (a *app) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archive|dir> <name> <out|->",
		Short: "Extract an entry by file name",
		Long: "Extract an entry by file name. When the first argument is a directory,\n" +
			"every archive below it is searched in path order.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, dst := args[0], args[1], args[2]

			l, err := a.openLocator(cmd, src)
			if err != nil {
				return err
			}
			defer l.Close()

			r, err := l.Locate(name)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if dst != "-" {
				f, err := os.Create(dst)
				if err != nil {
					return fmt.Errorf("creating %s: %w", dst, err)
				}
				defer f.Close()
				w = f
			}
			n, err := io.Copy(w, r)
			if err != nil {
				return fmt.Errorf("extracting %s: %w", name, err)
			}
			slog.Info("extracted", "name", name, "bytes", n, "out", dst)
			return nil
		},
	}
}

func (a *app) openLocator(cmd *cobra.Command, src string) (*scanner.Locator, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		l, err := scanner.NewLocator(a.cacheSize())
		if err != nil {
			return nil, err
		}
		if err := l.AddPath(src); err != nil {
			l.Close()
			return nil, err
		}
		return l, nil
	}

	infos, err := scanner.Scan(cmd.Context(), []string{src}, a.scanOptions())
	if err != nil {
		return nil, err
	}
	return scanner.OpenLocator(infos, a.cacheSize())
}

func (a *app) cacheSize() int {
	if a.cfg.CacheSize > 0 {
		return a.cfg.CacheSize
	}
	return scanner.DefaultCacheSize
}

func (a *app) scanOptions() scanner.Options {
	return scanner.Options{Pattern: a.cfg.Pattern, Workers: a.cfg.Workers}
}
