package ecdsa

import (
	"context"
	"strings"
	"testing"

	"github.com/signet-tech/signet/crypto/sha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPair(t *testing.T) {
	ctx := context.Background()
	keyPair, err := GenerateKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P-256", keyPair.Curve)
	assert.NotEmpty(t, keyPair.PrivateKey)
	assert.NotEmpty(t, keyPair.PublicKey)

	privateKey, err := ParsePrivateKey(ctx, keyPair.PrivateKey)
	require.NoError(t, err)
	publicKey, err := ParsePublicKey(ctx, keyPair.PublicKey)
	require.NoError(t, err)
	assert.True(t, privateKey.PublicKey.Equal(publicKey))
}

func TestSignVerify(t *testing.T) {
	ctx := context.Background()
	keyPair, err := GenerateKeyPair(ctx)
	require.NoError(t, err)
	privateKey, err := ParsePrivateKey(ctx, keyPair.PrivateKey)
	require.NoError(t, err)
	publicKey, err := ParsePublicKey(ctx, keyPair.PublicKey)
	require.NoError(t, err)

	digest := sha.NewSHA256([]byte("sign me"))
	signature, err := Sign(ctx, digest, privateKey)
	require.NoError(t, err)

	assert.True(t, Verify(ctx, digest, signature, publicKey))

	otherDigest := sha.NewSHA256([]byte("sign me not"))
	assert.False(t, Verify(ctx, otherDigest, signature, publicKey))
}

func TestVerifyWithWrongKey(t *testing.T) {
	ctx := context.Background()
	keyPair, err := GenerateKeyPair(ctx)
	require.NoError(t, err)
	otherKeyPair, err := GenerateKeyPair(ctx)
	require.NoError(t, err)

	privateKey, err := ParsePrivateKey(ctx, keyPair.PrivateKey)
	require.NoError(t, err)
	otherPublicKey, err := ParsePublicKey(ctx, otherKeyPair.PublicKey)
	require.NoError(t, err)

	digest := sha.NewSHA256([]byte("sign me"))
	signature, err := Sign(ctx, digest, privateKey)
	require.NoError(t, err)
	assert.False(t, Verify(ctx, digest, signature, otherPublicKey))
}

func TestParsePrivateKeyBadInput(t *testing.T) {
	ctx := context.Background()
	_, err := ParsePrivateKey(ctx, "not base64 !!!")
	assert.Error(t, err)
	_, err = ParsePrivateKey(ctx, "YWJjZGVm")
	assert.Error(t, err)
}

func TestPublicKeyToPem(t *testing.T) {
	ctx := context.Background()
	keyPair, err := GenerateKeyPair(ctx)
	require.NoError(t, err)
	publicKeyPem, err := PublicKeyToPem(ctx, keyPair.PublicKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicKeyPem, "-----BEGIN PUBLIC KEY-----"))
	assert.Contains(t, publicKeyPem, "-----END PUBLIC KEY-----")
}
