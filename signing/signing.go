package signing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/sm"
)

const (
	LOCAL_SIGNER   = "LOCAL"
	AWS_KMS_SIGNER = "AWS_KMS"
)

const AlgorithmES256 = "ES256"

// KeyPair is the stored form of a signer's key material. PrivateKey is
// base64 PKCS8 DER, AES-GCM sealed when Encrypted is true.
type KeyPair struct {
	KeyId      string    `json:"key_id"`
	Algorithm  string    `json:"algorithm"`
	PublicKey  string    `json:"public_key"`
	PrivateKey string    `json:"private_key,omitempty"`
	Encrypted  bool      `json:"encrypted"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublicKeyInfo is the outward-facing view of a key pair - never carries
// private key material.
type PublicKeyInfo struct {
	KeyId     string    `json:"key_id"`
	Algorithm string    `json:"algorithm"`
	PublicKey string    `json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
}

func (kp *KeyPair) PublicInfo() PublicKeyInfo {
	return PublicKeyInfo{
		KeyId:     kp.KeyId,
		Algorithm: kp.Algorithm,
		PublicKey: kp.PublicKey,
		CreatedAt: kp.CreatedAt,
	}
}

type SignedMessage struct {
	KeyId     string `json:"key_id"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type SignerI interface {
	GenerateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error)
	RotateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error)
	Sign(ctx context.Context, message []byte, passphrase string) (signedMessage SignedMessage, err error)
	Verify(ctx context.Context, message []byte, signature string) (valid bool, err error)
	GetPublicKey(ctx context.Context) (keyInfo PublicKeyInfo, err error)
	IssueToken(ctx context.Context, claims map[string]interface{}, passphrase string) (token string, err error)
	GetAttribute(ctx context.Context, attrName string) (attrValue interface{}, err error)
	MakeFromJson(ctx context.Context, rj *json.RawMessage) error
	SetSm(ctx context.Context, smObj sm.SmStoreI) (err error)
	SetKms(ctx context.Context, kmsObj kms.KmsStoreI) (err error)
}

type Signer struct {
	SignerType  string   `json:"signer_type" signet:"required"`
	SignerName  string   `json:"signer_name" signet:"required"`
	EncryptKeys bool     `json:"encrypt_keys"`
	KeyPair     *KeyPair `json:"key_pair,omitempty"`
}

func GetSigner(signerType string) SignerI {
	switch signerType {
	case LOCAL_SIGNER:
		return new(LocalSigner)
	case AWS_KMS_SIGNER:
		return new(KmsSigner)
	default:
		return nil
	}
}

func (signer *Signer) GetAttribute(ctx context.Context, attrName string) (attrValue interface{}, err error) {
	switch attrName {
	case "signer_name":
		return signer.SignerName, nil
	case "signer_type":
		return signer.SignerType, nil
	case "encrypt_keys":
		return signer.EncryptKeys, nil
	default:
		err = errors.New("attribute not found")
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
}

func (signer *Signer) GenerateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) RotateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) Sign(ctx context.Context, message []byte, passphrase string) (signedMessage SignedMessage, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) Verify(ctx context.Context, message []byte, signature string) (valid bool, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) GetPublicKey(ctx context.Context) (keyInfo PublicKeyInfo, err error) {
	if signer.KeyPair == nil {
		err = errors.New("signer has no key pair - generate it first")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return signer.KeyPair.PublicInfo(), nil
}

func (signer *Signer) IssueToken(ctx context.Context, claims map[string]interface{}, passphrase string) (token string, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) SetSm(ctx context.Context, smObj sm.SmStoreI) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) SetKms(ctx context.Context, kmsObj kms.KmsStoreI) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (signer *Signer) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &signer)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
