package ecdsa

import (
	"context"
	cecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	logs "github.com/signet-tech/signet/logs"
)

type EcdsaKeyPair struct {
	PrivateKey string `json:"private_key" signet:"required"`
	PublicKey  string `json:"public_key" signet:"required"`
	Curve      string `json:"curve" signet:"required"`
}

// GenerateKeyPair makes a P-256 key pair. Keys travel as base64 DER -
// PKCS8 for the private key and PKIX for the public key.
func GenerateKeyPair(ctx context.Context) (ecdsaKeyPair EcdsaKeyPair, err error) {
	logs.WithContext(ctx).Debug("GenerateKeyPair - Start")
	ecdsaKeyPair.Curve = elliptic.P256().Params().Name
	privateKey, err := cecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("Failed to generate EC key : ", err.Error()))
		return
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("failed to dump private key: ", err.Error()))
		return
	}
	ecdsaKeyPair.PrivateKey = base64.StdEncoding.EncodeToString(privateKeyBytes)

	publicKeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("failed to dump public key: ", err.Error()))
		return
	}
	ecdsaKeyPair.PublicKey = base64.StdEncoding.EncodeToString(publicKeyBytes)

	return
}

func ParsePrivateKey(ctx context.Context, privateKeyStr string) (privateKey *cecdsa.PrivateKey, err error) {
	logs.WithContext(ctx).Debug("ParsePrivateKey - Start")
	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKeyStr)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return ParsePrivateKeyDer(ctx, privateKeyBytes)
}

func ParsePrivateKeyDer(ctx context.Context, privateKeyBytes []byte) (privateKey *cecdsa.PrivateKey, err error) {
	parsedKey, err := x509.ParsePKCS8PrivateKey(privateKeyBytes)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	privateKey, ok := parsedKey.(*cecdsa.PrivateKey)
	if !ok {
		err = errors.New("Value returned from ParsePKCS8PrivateKey was not an EC private key")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

func ParsePublicKey(ctx context.Context, publicKeyStr string) (publicKey *cecdsa.PublicKey, err error) {
	logs.WithContext(ctx).Debug("ParsePublicKey - Start")
	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyStr)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return ParsePublicKeyDer(ctx, publicKeyBytes)
}

func ParsePublicKeyDer(ctx context.Context, publicKeyBytes []byte) (publicKey *cecdsa.PublicKey, err error) {
	parsedKey, err := x509.ParsePKIXPublicKey(publicKeyBytes)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	publicKey, ok := parsedKey.(*cecdsa.PublicKey)
	if !ok {
		err = errors.New("Value returned from ParsePKIXPublicKey was not an EC public key")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

// Sign signs a SHA-256 digest, returning the ASN.1 DER signature so local
// signatures stay interchangeable with KMS ones.
func Sign(ctx context.Context, digest []byte, privateKey *cecdsa.PrivateKey) (signature []byte, err error) {
	logs.WithContext(ctx).Debug("Sign - Start")
	signature, err = cecdsa.SignASN1(rand.Reader, privateKey, digest)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

func Verify(ctx context.Context, digest []byte, signature []byte, publicKey *cecdsa.PublicKey) bool {
	logs.WithContext(ctx).Debug("Verify - Start")
	return cecdsa.VerifyASN1(publicKey, digest, signature)
}

// PublicKeyToPem re-encodes a base64 DER public key as PEM for clients
// that want a file-ready form.
func PublicKeyToPem(ctx context.Context, publicKeyStr string) (publicKeyPem string, err error) {
	logs.WithContext(ctx).Debug("PublicKeyToPem - Start")
	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyStr)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	publicKeyBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicKeyBytes,
	}
	return string(pem.EncodeToMemory(publicKeyBlock)), nil
}
