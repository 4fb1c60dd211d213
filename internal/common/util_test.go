package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	require.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	require.Len(t, a, n)
	require.Len(t, b, n)
	assert.NotEqual(t, a, b)
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("get entry: %w", ErrVaultLocked)
	assert.True(t, errors.Is(err, ErrVaultLocked))
	assert.False(t, errors.Is(err, ErrDecryption))
}
