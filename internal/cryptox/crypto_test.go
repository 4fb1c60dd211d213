package cryptox

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	return common.GenerateRandByteArray(KeySize)
}

func TestGenerateSalt_LengthAndUniqueness(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.Len(t, b, SaltSize)
	assert.NotEqual(t, a, b)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.Len(t, key1, KeySize)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// independently derived keys must interoperate
	sealed, err := Encrypt([]byte("hello"), key1)
	require.NoError(t, err)
	out, err := Decrypt(*sealed, key2)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	salt := []byte("salt-salt-salt-1")

	key1 := DeriveKey([]byte("password-one"), salt)
	key2 := DeriveKey([]byte("password-two"), salt)
	key3 := DeriveKey([]byte("password-one"), []byte("salt-salt-salt-2"))

	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, key1, key3)

	sealed, err := Encrypt([]byte("data"), key1)
	require.NoError(t, err)
	_, err = Decrypt(*sealed, key2)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := randomKey(t)

	tests := []struct {
		name  string
		plain string
	}{
		{"empty", ""},
		{"ascii", "hello world"},
		{"long", strings.Repeat("x", 10_000)},
		{"unicode", "Привет, 世界! 🧘‍♀️ café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Encrypt([]byte(tt.plain), key)
			require.NoError(t, err)

			out, err := Decrypt(*sealed, key)
			require.NoError(t, err)
			assert.Equal(t, tt.plain, string(out))
		})
	}
}

func TestEncrypt_FreshIVEachCall(t *testing.T) {
	key := randomKey(t)

	a, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)

	iv, err := base64.StdEncoding.DecodeString(a.IV)
	require.NoError(t, err)
	assert.Len(t, iv, IVSize)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	sealed, err := Encrypt([]byte("top secret"), randomKey(t))
	require.NoError(t, err)

	out, err := Decrypt(*sealed, randomKey(t))
	require.ErrorIs(t, err, common.ErrDecryption)
	assert.Nil(t, out)
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	key := randomKey(t)
	sealed, err := Encrypt([]byte("top secret"), key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	require.NoError(t, err)
	raw[0] ^= 0xFF
	tampered := EncryptedData{Ciphertext: base64.StdEncoding.EncodeToString(raw), IV: sealed.IV}

	_, err = Decrypt(tampered, key)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestDecrypt_MalformedInput(t *testing.T) {
	key := randomKey(t)

	_, err := Decrypt(EncryptedData{Ciphertext: "%%%", IV: "AAAAAAAAAAAAAAAA"}, key)
	require.ErrorIs(t, err, common.ErrDecryption)

	_, err = Decrypt(EncryptedData{Ciphertext: "AAAA", IV: "AAAA"}, key)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestEncryptObject_NoPlaintextLeak(t *testing.T) {
	key := randomKey(t)
	sealed, err := EncryptObject(map[string]any{"bookTitle": "Deep Work"}, key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bookTitle")
	assert.NotContains(t, string(raw), "Deep Work")
}

func TestEncryptObject_NestedRoundTrip(t *testing.T) {
	type stages struct {
		REM  float64 `json:"rem"`
		Deep float64 `json:"deep"`
	}
	type payload struct {
		Name   string             `json:"name"`
		Values []float64          `json:"values"`
		Nested map[string]stages  `json:"nested"`
		Tags   map[string]float64 `json:"tags"`
	}

	in := payload{
		Name:   "ünïcødé",
		Values: []float64{1, 2.5, -3},
		Nested: map[string]stages{"night": {REM: 1.5, Deep: 2}},
		Tags:   map[string]float64{"food": 12.25},
	}

	key := randomKey(t)
	sealed, err := EncryptObject(in, key)
	require.NoError(t, err)

	var out payload
	require.NoError(t, DecryptObject(*sealed, key, &out))
	assert.Equal(t, in, out)
}

func TestMakeVerifier(t *testing.T) {
	k := randomKey(t)
	assert.Equal(t, MakeVerifier(k), MakeVerifier(k))
	assert.NotEqual(t, MakeVerifier(k), MakeVerifier(randomKey(t)))
	assert.Len(t, MakeVerifier(k), 32)
}
