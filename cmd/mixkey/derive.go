package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/crypto"
	"github.com/udisondev/mixkey/internal/mix"
)

func (a *app) deriveCmd() *cobra.Command {
	var (
		archive string
		full    bool
	)
	cmd := &cobra.Command{
		Use:   "derive [hex-key-source]",
		Short: "Print the Blowfish key recovered from an 80 byte key source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := keySourceArg(args, archive)
			if err != nil {
				return err
			}

			var key []byte
			if full {
				k, err := crypto.DefaultPublicKey()
				if err != nil {
					return err
				}
				key, err = k.DeriveKey(source)
				if err != nil {
					return err
				}
			} else {
				key, err = crypto.BlowfishKey(source)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(key))
			return nil
		},
	}
	cmd.Flags().StringVarP(&archive, "archive", "a", "", "read the key source from an encrypted archive")
	cmd.Flags().BoolVar(&full, "full", false, "print every recovered byte, not just the Blowfish key")
	return cmd
}

func keySourceArg(args []string, archive string) ([]byte, error) {
	switch {
	case archive != "" && len(args) > 0:
		return nil, errors.New("key source and --archive are mutually exclusive")
	case archive != "":
		ar, err := mix.Open(archive)
		if err != nil {
			return nil, err
		}
		defer ar.Close()
		h := ar.Header()
		if !h.Encrypted() {
			return nil, fmt.Errorf("%s: header is not encrypted", archive)
		}
		return h.KeySource, nil
	case len(args) == 1:
		source, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
		if err != nil {
			return nil, fmt.Errorf("decoding key source: %w", err)
		}
		return source, nil
	default:
		return nil, errors.New("key source or --archive required")
	}
}
