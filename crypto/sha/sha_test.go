package sha

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSHA256(t *testing.T) {
	digest := NewSHA256([]byte("abc"))
	assert.Len(t, digest, 32)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(digest))
}

func TestNewSHA512(t *testing.T) {
	digest := NewSHA512([]byte("abc"))
	assert.Len(t, digest, 64)
	assert.Equal(t,
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		hex.EncodeToString(digest))
}

func TestNewSHA256EmptyInput(t *testing.T) {
	digest := NewSHA256(nil)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(digest))
}
