package constants

// MIX Archive Protocol Constants
//
// This file contains the fixed parameters of the Westwood MIX container and of
// the key recovery scheme protecting encrypted archive headers (Red Alert,
// Tiberian Sun). These values are defined by the game data, not by us.

// Key Recovery Constants
const (
	// KeySourceSize is the size of the key source stored ahead of an encrypted header
	KeySourceSize = 80

	// BlowfishKeySize is the size of the recovered Blowfish key (448-bit)
	BlowfishKeySize = 56

	// PublicExponent is the fixed public exponent (F4 = 65537)
	PublicExponent = 65537

	// ModulusKeyString is the embedded public modulus, base64 encoded ASN.1 INTEGER
	ModulusKeyString = "AihRvNoIbTn85FZRYNZRcT+i6KpU+maCsEqr3Q5q+LDB5tH7Tz2qQ38V"

	// ASN1IntegerTag is the DER tag expected at the start of the decoded modulus
	ASN1IntegerTag = 0x02
)

// Blowfish Cipher Constants
const (
	// BlowfishBlockSize is the Blowfish block size in bytes (64-bit)
	BlowfishBlockSize = 8
)

// MIX Flags Constants
//
// Archives written for Red Alert and later start with a zero uint16 followed by
// flags; Tiberian Dawn archives start directly with the entry count.
const (
	// FlagsSize is the size of the flags field (uint32 LE)
	FlagsSize = 4

	// FlagChecksum marks an archive followed by a SHA-1 digest of its body
	FlagChecksum = 0x00010000

	// FlagEncrypted marks an archive whose header is Blowfish encrypted
	FlagEncrypted = 0x00020000

	// ChecksumSize is the size of the trailing SHA-1 digest
	ChecksumSize = 20
)

// MIX Header Structure Constants
//
// Header format:
//   [count 2 bytes LE]
//   [body size 4 bytes LE]
//   [count × entry 12 bytes]
//
// Entry format:
//   [id 4 bytes LE]
//   [offset 4 bytes LE, relative to the body]
//   [size 4 bytes LE]
const (
	// HeaderSize is the size of the fixed part of the header
	HeaderSize = 6

	// EntrySize is the size of one entry table record
	EntrySize = 12

	// MaxEntries is the largest entry count the uint16 field can hold
	MaxEntries = 0xFFFF
)
