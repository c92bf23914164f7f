package cryptobox_test

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/hansei/backend/internal/cryptobox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptobox.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNew_RejectsBadKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := cryptobox.New(make([]byte, size))
		assert.ErrorIs(t, err, cryptobox.ErrInvalidKeySize, "key size %d", size)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple", "hello"},
		{"empty", ""},
		{"unicode", "今日はとても良い一日だった 🌱"},
		{"multiline", "dear diary,\n\ntoday was rough.\n"},
		{"contains delimiter", "a:b:c:d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := box.Seal(tt.plaintext)
			require.NoError(t, err)

			opened, err := box.Open(stored)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestSeal_StoredFormShape(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	stored, err := box.Seal("hello")
	require.NoError(t, err)

	parts := strings.Split(stored, ":")
	require.Len(t, parts, 3)

	nonce, err := hex.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, nonce, 12)

	tag, err := hex.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Len(t, tag, 16)

	ciphertext, err := hex.DecodeString(parts[2])
	require.NoError(t, err)
	assert.Len(t, ciphertext, len("hello"))
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	first, err := box.Seal("same plaintext")
	require.NoError(t, err)
	second, err := box.Seal("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, strings.Split(first, ":")[0], strings.Split(second, ":")[0])
}

func TestOpen_WrongKeyFails(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)
	other, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	stored, err := box.Seal("hello")
	require.NoError(t, err)

	_, err = other.Open(stored)
	assert.ErrorIs(t, err, cryptobox.ErrDecryptionFailed)
}

func TestOpen_TamperDetection(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	stored, err := box.Seal("the quick brown fox")
	require.NoError(t, err)

	// Flip one hex digit at every position. Every mutation must be rejected,
	// either as malformed hex or as a failed tag check.
	for i := 0; i < len(stored); i++ {
		if stored[i] == ':' {
			continue
		}
		mutated := []byte(stored)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		if string(mutated) == stored {
			continue
		}

		opened, err := box.Open(string(mutated))
		assert.Error(t, err, "tampered byte at %d accepted", i)
		assert.Empty(t, opened)
	}
}

func TestOpen_Truncation(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	stored, err := box.Seal("do not truncate me")
	require.NoError(t, err)

	_, err = box.Open(stored[:len(stored)-2])
	assert.Error(t, err)
}

func TestOpen_MalformedRecords(t *testing.T) {
	box, err := cryptobox.New(newKey(t))
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"one field", "deadbeef"},
		{"two fields", "deadbeef:deadbeef"},
		{"four fields", "aa:bb:cc:dd"},
		{"non-hex nonce", "zz" + strings.Repeat("00", 11) + ":" + strings.Repeat("00", 16) + ":00"},
		{"short nonce", "00:" + strings.Repeat("00", 16) + ":00"},
		{"short tag", strings.Repeat("00", 12) + ":00:00"},
		{"non-hex ciphertext", strings.Repeat("00", 12) + ":" + strings.Repeat("00", 16) + ":xy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := box.Open(tt.stored)
			assert.ErrorIs(t, err, cryptobox.ErrMalformedRecord)
		})
	}
}
