// Package cryptox implements the password-derived encryption layer of the
// vault: salt generation, PBKDF2 key derivation and AES-256-GCM sealing of
// arbitrary JSON-serializable values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations is the SHA-256 PBKDF2 work factor used for master keys.
	PBKDF2Iterations = 600_000

	// SaltSize is the length of a freshly generated salt in bytes.
	SaltSize = 16

	// IVSize is the length of the AES-GCM nonce in bytes.
	IVSize = 12

	// KeySize is the length of the derived AES-256 key in bytes.
	KeySize = 32
)

// EncryptedData is a sealed payload. Both fields are standard base64.
type EncryptedData struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}

// GenerateSalt returns SaltSize random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches password with salt into a 256-bit AES key.
//
// The result depends only on (password, salt): two independent derivations
// produce interchangeable keys.
func DeriveKey(password []byte, salt []byte) []byte {
	return pbkdf2.Key(password, salt, PBKDF2Iterations, KeySize, sha256.New)
}

// MakeVerifier returns a digest of the master key that can be stored in
// plaintext and compared on unlock without revealing the key.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext with key under a fresh random 12-byte nonce.
// Encrypting the same plaintext twice yields different ciphertext and IV.
func Encrypt(plaintext []byte, key []byte) (*EncryptedData, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, iv, plaintext, nil)

	return &EncryptedData{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Decrypt opens data with key. A wrong key, a tampered ciphertext or a
// malformed encoding all fail with an error wrapping common.ErrDecryption;
// no partial plaintext is ever returned.
func Decrypt(data EncryptedData, key []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(data.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext encoding: %v", common.ErrDecryption, err)
	}
	iv, err := base64.StdEncoding.DecodeString(data.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv encoding: %v", common.ErrDecryption, err)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrDecryption, IVSize, len(iv))
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return plaintext, nil
}

// EncryptObject serializes v to JSON and seals it.
//
// Example:
//
//	sealed, err := cryptox.EncryptObject(entry, key)
//	if err != nil {
//	    return err
//	}
//	var back models.ProductivityLog
//	err = cryptox.DecryptObject(*sealed, key, &back)
func EncryptObject(v any, key []byte) (*EncryptedData, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return Encrypt(plaintext, key)
}

// DecryptObject opens data and unmarshals the JSON plaintext into v.
func DecryptObject(data EncryptedData, key []byte, v any) error {
	plaintext, err := Decrypt(data, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
