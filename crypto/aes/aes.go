package aes

import (
	"context"
	caes "crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"

	logs "github.com/signet-tech/signet/logs"
)

type AesKey struct {
	KeyHex string `json:"key_string" signet:"required"`
	Key    []byte `json:"key" signet:"required"`
	Bits   int    `json:"bits" signet:"required"`
}

func GenerateKey(ctx context.Context, bits int) (aesKey AesKey, err error) {
	logs.WithContext(ctx).Debug("GenerateKey - Start")
	aesKey.Bits = bits
	bytes := make([]byte, bits/8)
	if _, err = rand.Read(bytes); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	aesKey.KeyHex = hex.EncodeToString(bytes)
	aesKey.Key = bytes
	return
}

// Encrypt seals plainBytes with AES-GCM. The random nonce is prepended to
// the ciphertext.
func Encrypt(ctx context.Context, plainBytes []byte, aesKey []byte) (encryptedBytes []byte, err error) {
	logs.WithContext(ctx).Debug("Encrypt - Start")
	block, err := caes.NewCipher(aesKey)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	nonce := make([]byte, aesGCM.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	encryptedBytes = aesGCM.Seal(nonce, nonce, plainBytes, nil)
	return
}

func Decrypt(ctx context.Context, encryptedBytes []byte, aesKey []byte) (decryptedBytes []byte, err error) {
	logs.WithContext(ctx).Debug("Decrypt - Start")
	block, err := caes.NewCipher(aesKey)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	nonceSize := aesGCM.NonceSize()
	if len(encryptedBytes) < nonceSize {
		err = errors.New("length of encryptedBytes is less then nonce size")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	nonce, cipherText := encryptedBytes[:nonceSize], encryptedBytes[nonceSize:]
	decryptedBytes, err = aesGCM.Open(nil, nonce, cipherText, nil)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}
