// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/devtinder/devtinder-tui/internal/util"
)

const (
	secretSize = 32
	nonceSize  = 24

	// scrypt cost parameters (interactive login strength).
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// ErrUnseal is returned when a sealed value was tampered with or was sealed
// under a different key.
var ErrUnseal = errors.New("storage: cannot unseal value")

// Sealer encrypts small values with NaCl secretbox.
type Sealer struct {
	key [32]byte
}

// NewSealer derives a secretbox key from secret and salt.
func NewSealer(secret, salt []byte) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, errors.New("storage: empty secret")
	}
	derived, err := scrypt.Key(secret, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	s := &Sealer{}
	copy(s.key[:], derived)
	for i := range derived {
		derived[i] = 0
	}
	return s, nil
}

// Seal encrypts plaintext and returns base64(nonce|box).
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], plaintext, &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrUnseal
	}
	return plain, nil
}

// LoadOrCreateSecret reads the random secret at path, creating it with mode
// 0600 when missing.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) == secretSize {
		return data, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	secret := make([]byte, secretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, secret, 0600, 0700); err != nil {
		return nil, fmt.Errorf("failed to write secret: %w", err)
	}
	return secret, nil
}

// SecretPath is where the session secret lives for a database at dbPath.
func SecretPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "session.key")
}
