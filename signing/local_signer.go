package signing

import (
	"context"
	cecdsa "crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/segmentio/ksuid"
	eruaes "github.com/signet-tech/signet/crypto/aes"
	eruecdsa "github.com/signet-tech/signet/crypto/ecdsa"
	"github.com/signet-tech/signet/crypto/sha"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/sm"
)

// LocalSigner holds an ECDSA P-256 key pair generated in process. With
// EncryptKeys set, the private key is sealed with AES-GCM under a key
// derived from a passphrase before it ever reaches the config store.
type LocalSigner struct {
	Signer
	PassphraseName string `json:"passphrase_name"`
	smStore        sm.SmStoreI
}

func (ls *LocalSigner) SetSm(ctx context.Context, smObj sm.SmStoreI) (err error) {
	ls.smStore = smObj
	return
}

// Passphrase lookup order: request, environment, secrets manager.
func (ls *LocalSigner) resolvePassphrase(ctx context.Context, passphrase string) (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if envPassphrase := os.Getenv("KEY_PASSPHRASE"); envPassphrase != "" {
		return envPassphrase, nil
	}
	if ls.smStore != nil && ls.PassphraseName != "" {
		return ls.smStore.FetchSmValue(ctx, ls.PassphraseName)
	}
	err := errors.New(fmt.Sprint("no passphrase available for signer ", ls.SignerName))
	logs.WithContext(ctx).Error(err.Error())
	return "", err
}

func (ls *LocalSigner) GenerateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("GenerateKeyPair - Start")
	if ls.KeyPair != nil {
		// create-if-missing: an existing key pair wins, provided we can
		// still open its private key
		_, err = ls.privateKey(ctx, passphrase)
		if err != nil {
			return
		}
		logs.WithContext(ctx).Info(fmt.Sprint("key pair already exists for signer ", ls.SignerName))
		return ls.KeyPair.PublicInfo(), nil
	}

	ecdsaKeyPair, err := eruecdsa.GenerateKeyPair(ctx)
	if err != nil {
		return
	}
	privateKeyStr := ecdsaKeyPair.PrivateKey
	encrypted := false
	if ls.EncryptKeys {
		pass, passErr := ls.resolvePassphrase(ctx, passphrase)
		if passErr != nil {
			err = passErr
			return
		}
		privateKeyBytes, decodeErr := base64.StdEncoding.DecodeString(ecdsaKeyPair.PrivateKey)
		if decodeErr != nil {
			err = decodeErr
			logs.WithContext(ctx).Error(err.Error())
			return
		}
		sealedBytes, sealErr := eruaes.Encrypt(ctx, privateKeyBytes, sha.NewSHA256([]byte(pass)))
		if sealErr != nil {
			err = sealErr
			return
		}
		privateKeyStr = base64.StdEncoding.EncodeToString(sealedBytes)
		encrypted = true
	}
	ls.KeyPair = &KeyPair{
		KeyId:      ksuid.New().String(),
		Algorithm:  AlgorithmES256,
		PublicKey:  ecdsaKeyPair.PublicKey,
		PrivateKey: privateKeyStr,
		Encrypted:  encrypted,
		CreatedAt:  time.Now(),
	}
	return ls.KeyPair.PublicInfo(), nil
}

func (ls *LocalSigner) RotateKeyPair(ctx context.Context, passphrase string) (keyInfo PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("RotateKeyPair - Start")
	if ls.KeyPair != nil {
		logs.WithContext(ctx).Info(fmt.Sprint("discarding key pair ", ls.KeyPair.KeyId, " of signer ", ls.SignerName))
	}
	ls.KeyPair = nil
	return ls.GenerateKeyPair(ctx, passphrase)
}

func (ls *LocalSigner) privateKey(ctx context.Context, passphrase string) (privateKey *cecdsa.PrivateKey, err error) {
	if ls.KeyPair == nil {
		err = errors.New("signer has no key pair - generate it first")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	privateKeyBytes, err := base64.StdEncoding.DecodeString(ls.KeyPair.PrivateKey)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if ls.KeyPair.Encrypted {
		pass, passErr := ls.resolvePassphrase(ctx, passphrase)
		if passErr != nil {
			err = passErr
			return
		}
		plainBytes, openErr := eruaes.Decrypt(ctx, privateKeyBytes, sha.NewSHA256([]byte(pass)))
		if openErr != nil {
			err = errors.New(fmt.Sprint("failed to decrypt private key of signer ", ls.SignerName, " : ", openErr.Error()))
			logs.WithContext(ctx).Error(err.Error())
			return
		}
		privateKeyBytes = plainBytes
	}
	return eruecdsa.ParsePrivateKeyDer(ctx, privateKeyBytes)
}

func (ls *LocalSigner) Sign(ctx context.Context, message []byte, passphrase string) (signedMessage SignedMessage, err error) {
	logs.WithContext(ctx).Debug("Sign - Start")
	privateKey, err := ls.privateKey(ctx, passphrase)
	if err != nil {
		return
	}
	signature, err := eruecdsa.Sign(ctx, sha.NewSHA256(message), privateKey)
	if err != nil {
		return
	}
	signedMessage.KeyId = ls.KeyPair.KeyId
	signedMessage.Algorithm = ls.KeyPair.Algorithm
	signedMessage.Message = base64.StdEncoding.EncodeToString(message)
	signedMessage.Signature = base64.StdEncoding.EncodeToString(signature)
	return
}

func (ls *LocalSigner) Verify(ctx context.Context, message []byte, signature string) (valid bool, err error) {
	logs.WithContext(ctx).Debug("Verify - Start")
	if ls.KeyPair == nil {
		err = errors.New("signer has no key pair - generate it first")
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	publicKey, err := eruecdsa.ParsePublicKey(ctx, ls.KeyPair.PublicKey)
	if err != nil {
		return
	}
	signatureBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return eruecdsa.Verify(ctx, sha.NewSHA256(message), signatureBytes, publicKey), nil
}

func (ls *LocalSigner) IssueToken(ctx context.Context, claims map[string]interface{}, passphrase string) (token string, err error) {
	logs.WithContext(ctx).Debug("IssueToken - Start")
	privateKey, err := ls.privateKey(ctx, passphrase)
	if err != nil {
		return
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims(claims))
	tokenObj.Header["kid"] = ls.KeyPair.KeyId
	token, err = tokenObj.SignedString(privateKey)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

func (ls *LocalSigner) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &ls)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
