package security

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContentCodec_EmptyKey(t *testing.T) {
	codec, err := NewContentCodec("")
	assert.Error(t, err)
	assert.Nil(t, codec)
}

func TestContentCodec_RoundTrip(t *testing.T) {
	codec, err := NewContentCodec("unit-test-key")
	assert.NoError(t, err)

	cases := []string{
		"hello world",
		"",
		"multi-byte ünïcôde 你好 🙂",
		"a longer body\nwith newlines\nand trailing space ",
	}

	for _, plaintext := range cases {
		ciphertext, err := codec.Encrypt(plaintext)
		assert.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := codec.Decrypt(ciphertext)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestContentCodec_EncryptIsNonDeterministic(t *testing.T) {
	codec, err := NewContentCodec("unit-test-key")
	assert.NoError(t, err)

	first, err := codec.Encrypt("same input")
	assert.NoError(t, err)
	second, err := codec.Encrypt("same input")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestContentCodec_KeyMismatch(t *testing.T) {
	codec, err := NewContentCodec("key-one")
	assert.NoError(t, err)
	other, err := NewContentCodec("key-two")
	assert.NoError(t, err)

	ciphertext, err := codec.Encrypt("secret")
	assert.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestContentCodec_MalformedCiphertext(t *testing.T) {
	codec, err := NewContentCodec("unit-test-key")
	assert.NoError(t, err)

	_, err = codec.Decrypt("not base64 at all!!!")
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestContentCodec_TamperDetection(t *testing.T) {
	codec, err := NewContentCodec("unit-test-key")
	assert.NoError(t, err)

	ciphertext, err := codec.Encrypt("secret")
	assert.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	assert.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}
