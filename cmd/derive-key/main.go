// Command derive-key prints key-source vectors in the testdata YAML layout.
// Sources are read as hex from the arguments or, without arguments, one per
// line from stdin.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/mixkey/internal/bignum"
	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/crypto"
)

type vector struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Key    string `yaml:"key"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	if err := newCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "derive-key [hex-source...]",
		Short:         "Print key derivation vectors for the embedded public key",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := crypto.DefaultPublicKey()
			if err != nil {
				return err
			}
			a, err := k.BlockSize()
			if err != nil {
				return err
			}
			slog.Info("public key",
				"modulus", modulusHex(k.Modulus),
				"bits", k.BitLen,
				"block", a,
				"exponent", constants.PublicExponent)

			sources := args
			if len(sources) == 0 {
				if sources, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			vectors, err := derive(k, sources)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(struct {
				Vectors []vector `yaml:"vectors"`
			}{vectors})
		},
	}
}

func derive(k *crypto.PublicKey, sources []string) ([]vector, error) {
	vectors := make([]vector, 0, len(sources))
	for i, s := range sources {
		src, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		out, err := k.DeriveKey(src)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		vectors = append(vectors, vector{
			Name:   fmt.Sprintf("source %d", i),
			Source: s,
			Output: hex.EncodeToString(out),
			Key:    hex.EncodeToString(out[:constants.BlowfishKeySize]),
		})
	}
	return vectors, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading sources: %w", err)
	}
	return lines, nil
}

// modulusHex renders x big-endian without leading zero bytes.
func modulusHex(x bignum.Int) string {
	b := make([]byte, len(x)*4)
	bignum.FillBytesLE(b, x)
	slices.Reverse(b)
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	return hex.EncodeToString(b)
}
