// Package cryptox seals small JSON payloads (OAuth token pairs, session
// records) before they are written to Postgres or the CLI's SQLite cache.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	keySize   = 32
	nonceSize = 12
)

var ErrSealedTooShort = errors.New("sealed payload too short")

// DeriveKey stretches an operator-supplied secret into an AES-256 key.
// The same secret and salt always give the same key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// EncryptEntry marshals entry to JSON and encrypts it with AES-GCM under key
// (16, 24 or 32 bytes). A fresh 12-byte nonce is generated per call.
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptEntry reverses EncryptEntry and unmarshals the JSON into v.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Sealer packs nonce and ciphertext into one blob, which suits a single
// BYTEA/BLOB column.
type Sealer struct {
	key []byte
}

func NewSealer(secret, salt string) *Sealer {
	return &Sealer{key: DeriveKey([]byte(secret), []byte(salt))}
}

func (s *Sealer) Seal(v any) ([]byte, error) {
	ciphertext, nonce, err := EncryptEntry(v, s.key)
	if err != nil {
		return nil, err
	}
	return append(nonce, ciphertext...), nil
}

func (s *Sealer) Open(blob []byte, v any) error {
	if len(blob) <= nonceSize {
		return ErrSealedTooShort
	}
	return DecryptEntry(blob[nonceSize:], blob[:nonceSize], s.key, v)
}
