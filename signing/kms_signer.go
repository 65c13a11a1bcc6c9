package signing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/signet-tech/signet/crypto/sha"
	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
)

// KmsSigner delegates key custody and signing to a KMS asymmetric key.
// Only the public half is ever held in the config store.
type KmsSigner struct {
	Signer
	kmsStore kms.KmsStoreI
}

func (ks *KmsSigner) SetKms(ctx context.Context, kmsObj kms.KmsStoreI) (err error) {
	ks.kmsStore = kmsObj
	return
}

func (ks *KmsSigner) checkKms(ctx context.Context) error {
	if ks.kmsStore == nil {
		err := errors.New(fmt.Sprint("no kms configured for signer ", ks.SignerName))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (ks *KmsSigner) GenerateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("GenerateKeyPair - Start")
	if ks.KeyPair != nil {
		logs.WithContext(ctx).Info(fmt.Sprint("key pair already exists for signer ", ks.SignerName))
		return ks.KeyPair.PublicInfo(), nil
	}
	if err = ks.checkKms(ctx); err != nil {
		return
	}
	err = ks.kmsStore.CreateKey(ctx)
	if err != nil {
		return
	}
	return ks.storeKeyPair(ctx)
}

func (ks *KmsSigner) storeKeyPair(ctx context.Context) (keyInfo PublicKeyInfo, err error) {
	publicKeyDer, err := ks.kmsStore.GetPublicKey(ctx)
	if err != nil {
		return
	}
	keyId, err := ks.kmsStore.GetAttribute(ctx, "kms_name")
	if err != nil {
		return
	}
	ks.KeyPair = &KeyPair{
		KeyId:     keyId.(string),
		Algorithm: AlgorithmES256,
		PublicKey: base64.StdEncoding.EncodeToString(publicKeyDer),
		Encrypted: false,
		CreatedAt: time.Now(),
	}
	return ks.KeyPair.PublicInfo(), nil
}

func (ks *KmsSigner) RotateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("RotateKeyPair - Start")
	if err = ks.checkKms(ctx); err != nil {
		return
	}
	if ks.KeyPair == nil {
		return ks.GenerateKeyPair(ctx, passphrase)
	}
	err = ks.kmsStore.RotateKey(ctx)
	if err != nil {
		return
	}
	ks.KeyPair = nil
	return ks.storeKeyPair(ctx)
}

func (ks *KmsSigner) Sign(ctx context.Context, message []byte, passphrase string) (signedMessage SignedMessage, err error) {
	logs.WithContext(ctx).Debug("Sign - Start")
	if ks.KeyPair == nil {
		err = errors.New("signer has no key pair - generate it first")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if err = ks.checkKms(ctx); err != nil {
		return
	}
	signature, err := ks.kmsStore.Sign(ctx, sha.NewSHA256(message))
	if err != nil {
		return
	}
	signedMessage.KeyId = ks.KeyPair.KeyId
	signedMessage.Algorithm = ks.KeyPair.Algorithm
	signedMessage.Message = base64.StdEncoding.EncodeToString(message)
	signedMessage.Signature = base64.StdEncoding.EncodeToString(signature)
	return
}

func (ks *KmsSigner) Verify(ctx context.Context, message []byte, signature string) (valid bool, err error) {
	logs.WithContext(ctx).Debug("Verify - Start")
	if ks.KeyPair == nil {
		err = errors.New("signer has no key pair - generate it first")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if err = ks.checkKms(ctx); err != nil {
		return
	}
	signatureBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return ks.kmsStore.Verify(ctx, sha.NewSHA256(message), signatureBytes)
}

func (ks *KmsSigner) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &ks)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
