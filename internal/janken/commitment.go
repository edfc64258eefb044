package janken

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Salt is the secret blinding value of a commitment (bytes32 on the wire).
type Salt [32]byte

// Hash is a keccak256 commitment digest.
type Hash [32]byte

var zeroHash Hash

// Commit returns keccak256(uint8(move) || salt).
func Commit(move Move, salt Salt) Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{byte(move)})
	h.Write(salt[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Verify reports whether (move, salt) opens commitment. The zero hash never
// verifies, neither does a move outside rock/paper/scissors.
func Verify(commitment Hash, move Move, salt Salt) bool {
	if commitment.IsZero() || !move.Valid() {
		return false
	}
	got := Commit(move, salt)
	return bytes.Equal(got[:], commitment[:])
}

// NewSalt draws a fresh salt from r.
func NewSalt(r io.Reader) (Salt, error) {
	var s Salt
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return Salt{}, fmt.Errorf("read salt: %w", err)
	}
	return s, nil
}

// ParseSalt decodes a hex salt of at most 32 bytes. Shorter inputs are right
// padded with zeros.
func ParseSalt(s string) (Salt, error) {
	raw, err := decodeHex(s)
	if err != nil {
		return Salt{}, fmt.Errorf("salt: %w", err)
	}
	if len(raw) > len(Salt{}) {
		return Salt{}, fmt.Errorf("salt: %d bytes exceeds 32", len(raw))
	}
	var out Salt
	copy(out[:], raw)
	return out, nil
}

// ParseHash decodes a 32 byte hex digest.
func ParseHash(s string) (Hash, error) {
	raw, err := decodeHex(s)
	if err != nil {
		return Hash{}, fmt.Errorf("commitment: %w", err)
	}
	if len(raw) != len(Hash{}) {
		return Hash{}, fmt.Errorf("commitment: expected 32 bytes, got %d", len(raw))
	}
	var out Hash
	copy(out[:], raw)
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	return hex.DecodeString(s)
}

func (h Hash) IsZero() bool   { return h == zeroHash }
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }
func (s Salt) String() string { return "0x" + hex.EncodeToString(s[:]) }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(b []byte) error {
	v, err := ParseHash(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (s Salt) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Salt) UnmarshalText(b []byte) error {
	v, err := ParseSalt(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
