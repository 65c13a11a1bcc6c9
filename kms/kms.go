package kms

import (
	"context"
	"encoding/json"
	"errors"

	logs "github.com/signet-tech/signet/logs"
)

const (
	AuthTypeSecret = "SECRET"
	AuthTypeIAM    = "IAM"
)

type KmsStore struct {
	KmsStoreType string `json:"kms_store_type" signet:"required"`
}

type KmsStoreI interface {
	Init(ctx context.Context) (err error)
	MakeFromJson(ctx context.Context, rj *json.RawMessage) error
	GetAttribute(ctx context.Context, attrName string) (attrValue interface{}, err error)
	CreateKey(ctx context.Context) (err error)
	RotateKey(ctx context.Context) (err error)
	DeleteKey(ctx context.Context, keyId string, deleteDays int32) (err error)
	Sign(ctx context.Context, digest []byte) (signature []byte, err error)
	Verify(ctx context.Context, digest []byte, signature []byte) (valid bool, err error)
	GetPublicKey(ctx context.Context) (publicKeyDer []byte, err error)
}

func GetKms(storageType string) KmsStoreI {
	switch storageType {
	case "AWS":
		return new(AwsKmsStore)
	default:
		return nil
	}
}

func (kmsStore *KmsStore) Init(ctx context.Context) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) GetAttribute(ctx context.Context, attrName string) (attrValue interface{}, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) CreateKey(ctx context.Context) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) RotateKey(ctx context.Context) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) DeleteKey(ctx context.Context, keyId string, deleteDays int32) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) Sign(ctx context.Context, digest []byte) (signature []byte, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) Verify(ctx context.Context, digest []byte, signature []byte) (valid bool, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) GetPublicKey(ctx context.Context) (publicKeyDer []byte, err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (kmsStore *KmsStore) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &kmsStore)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
