// Package seal encrypts transaction labels at rest and derives a keyed
// hash that lets equal labels be grouped without decrypting them.
package seal

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/cleared-dev/releve/internal/normalize"
)

// KeySize is the length of a label key in bytes.
const KeySize = 32

var (
	// ErrKeySize is returned for keys that are not KeySize bytes long.
	ErrKeySize = errors.New("label key must be 32 bytes")
	// ErrCorrupt is returned when a sealed label fails authentication.
	ErrCorrupt = errors.New("sealed label is corrupt or was sealed for another owner")
)

// Sealer seals labels with XChaCha20-Poly1305. It is safe for concurrent use.
type Sealer struct {
	aead    cipher.AEAD
	hashKey []byte
}

// New creates a Sealer from a 32-byte key. Separate sub-keys are derived for
// encryption and hashing.
func New(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	aead, err := chacha20poly1305.NewX(derive(key, "releve label encryption"))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return &Sealer{aead: aead, hashKey: derive(key, "releve label hash")}, nil
}

func derive(key []byte, purpose string) []byte {
	h, err := blake2b.New256(key)
	if err != nil {
		panic(err) // key length is checked by New
	}
	h.Write([]byte(purpose))
	return h.Sum(nil)
}

// Seal encrypts label for owner. The output is nonce || ciphertext; the
// owner is authenticated so a row cannot be moved to another owner.
func (s *Sealer) Seal(owner, label string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(label)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(label), []byte(owner)), nil
}

// Open decrypts a label sealed by Seal for owner.
func (s *Sealer) Open(owner string, sealed []byte) (string, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return "", ErrCorrupt
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], []byte(owner))
	if err != nil {
		return "", ErrCorrupt
	}
	return string(plain), nil
}

// Hash returns the keyed BLAKE2b-256 of the cleaned label, hex encoded.
// Labels that differ only in card numbers, dates or references hash the
// same.
func (s *Sealer) Hash(label string) string {
	h, _ := blake2b.New256(s.hashKey)
	h.Write([]byte(normalize.CleanLabel(label)))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateKey returns a fresh random key, base64 encoded for config files.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generating label key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// ParseKey decodes a base64 key as written by GenerateKey.
func ParseKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding label key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	return key, nil
}
