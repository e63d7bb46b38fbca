package crypto

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/mixkey/internal/bignum"
	"github.com/udisondev/mixkey/internal/constants"
)

// BlockSize returns the number of key bytes recovered from each block of
// BlockSize()+1 source bytes.
func (k *PublicKey) BlockSize() (int, error) {
	a := (k.BitLen - 1) / 8
	if a <= 0 || bignum.WordLen(k.Modulus, bignum.KeyWords) < 2 {
		return 0, fmt.Errorf("modulus of %d bits: %w", k.BitLen+1, ErrDegenerateModulus)
	}
	return a, nil
}

// SourceSize returns the number of source bytes consumed by DeriveKey: enough
// whole blocks to recover a full Blowfish key.
func (k *PublicKey) SourceSize() (int, error) {
	a, err := k.BlockSize()
	if err != nil {
		return 0, err
	}
	return ((constants.BlowfishKeySize-1)/a + 1) * (a + 1), nil
}

// DeriveKey runs every source block through the public key and returns the
// concatenated output, at least BlowfishKeySize bytes long.
func (k *PublicKey) DeriveKey(source []byte) ([]byte, error) {
	return k.deriveKey(bignum.NewWorkspace(), source)
}

func (k *PublicKey) deriveKey(w *bignum.Workspace, source []byte) ([]byte, error) {
	a, err := k.BlockSize()
	if err != nil {
		return nil, err
	}
	n := ((constants.BlowfishKeySize-1)/a + 1) * (a + 1)
	if len(source) < n {
		return nil, &InputLengthError{Got: len(source), Want: n}
	}

	base := bignum.New(bignum.KeyWords)
	res := bignum.New(bignum.KeyWords)
	defer clear(base)
	defer clear(res)

	out := make([]byte, 0, n/(a+1)*a)
	block := make([]byte, a)
	for src := source[:n]; len(src) >= a+1; src = src[a+1:] {
		bignum.SetBytesLE(base, src[:a+1], bignum.KeyWords)
		w.Exp(res, base, k.Exponent, k.Modulus, bignum.KeyWords)
		bignum.FillBytesLE(block, res)
		out = append(out, block...)
	}
	return out, nil
}

// DeriveBlowfishKey recovers the Blowfish key of an encrypted MIX header from
// its key source and writes it into dst. dst is left untouched on failure.
func DeriveBlowfishKey(dst, source []byte) error {
	if len(dst) < constants.BlowfishKeySize {
		return fmt.Errorf("deriving blowfish key: destination holds %d bytes: %w", len(dst), io.ErrShortBuffer)
	}

	k, err := DefaultPublicKey()
	if err != nil {
		return fmt.Errorf("deriving blowfish key: %w", err)
	}
	key, err := k.DeriveKey(source)
	if err != nil {
		return fmt.Errorf("deriving blowfish key: %w", err)
	}
	copy(dst, key[:constants.BlowfishKeySize])
	return nil
}

// BlowfishKey returns the Blowfish key recovered from source.
func BlowfishKey(source []byte) ([]byte, error) {
	key := make([]byte, constants.BlowfishKeySize)
	if err := DeriveBlowfishKey(key, source); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveBlowfishKeys recovers keys for many sources in parallel. Results are
// in source order; the first failure cancels the remaining work.
func DeriveBlowfishKeys(ctx context.Context, sources [][]byte) ([][]byte, error) {
	k, err := DefaultPublicKey()
	if err != nil {
		return nil, fmt.Errorf("deriving blowfish keys: %w", err)
	}

	pool := NewWorkspacePool()
	keys := make([][]byte, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			w := pool.Get()
			defer pool.Put(w)

			key, err := k.deriveKey(w, src)
			if err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
			keys[i] = key[:constants.BlowfishKeySize]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("deriving blowfish keys: %w", err)
	}
	return keys, nil
}
