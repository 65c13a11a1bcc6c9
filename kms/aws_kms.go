package kms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	logs "github.com/signet-tech/signet/logs"
)

type AwsKmsStore struct {
	KmsStore
	Region         string `json:"region" signet:"required"`
	KmsName        string `json:"kms_name"`
	KmsDesc        string `json:"kms_desc" signet:"required"`
	KmsAlias       string `json:"kms_alias" signet:"required"`
	Authentication string `json:"authentication" signet:"required"`
	Key            string `json:"key"`
	Secret         string `json:"secret"`
	client         *kms.Client
}

func (awsKmsStore *AwsKmsStore) GetAttribute(ctx context.Context, attrName string) (attrValue interface{}, err error) {
	switch attrName {
	case "region":
		return awsKmsStore.Region, nil
	case "kms_name":
		return awsKmsStore.KmsName, nil
	case "kms_desc":
		return awsKmsStore.KmsDesc, nil
	case "kms_alias":
		return awsKmsStore.KmsAlias, nil
	case "kms_store_type":
		return awsKmsStore.KmsStoreType, nil
	default:
		err = errors.New("attribute not found")
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
}

func (awsKmsStore *AwsKmsStore) Init(ctx context.Context) (err error) {
	logs.WithContext(ctx).Debug("Init - Start")
	awsConf, awsConfErr := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsKmsStore.Region),
	)
	if awsConfErr != nil {
		err = awsConfErr
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if awsKmsStore.Authentication == AuthTypeSecret {
		awsConf.Credentials = credentials.NewStaticCredentialsProvider(
			awsKmsStore.Key,
			awsKmsStore.Secret,
			"",
		)
	}
	awsKmsStore.client = kms.NewFromConfig(awsConf)
	return err
}

// CreateKey provisions an asymmetric signing key (ECC P-256, SIGN_VERIFY)
// unless the alias already points at one.
func (awsKmsStore *AwsKmsStore) CreateKey(ctx context.Context) (err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	aliasesPaginator := kms.NewListAliasesPaginator(awsKmsStore.client, &kms.ListAliasesInput{})

	aliasFound := false
	for aliasesPaginator.HasMorePages() {
		if aliasFound {
			break
		}
		aliasesPage, pageErr := aliasesPaginator.NextPage(ctx)
		if pageErr != nil {
			logs.WithContext(ctx).Error(pageErr.Error())
			return pageErr
		}
		for _, alias := range aliasesPage.Aliases {
			if fmt.Sprint("alias/", awsKmsStore.KmsAlias) == *alias.AliasName {
				logs.WithContext(ctx).Info(fmt.Sprint("key alias already exists : ", awsKmsStore.KmsAlias))
				aliasFound = true
				awsKmsStore.KmsName = *alias.TargetKeyId
				break
			}
		}
	}
	if !aliasFound {
		keyInput := &kms.CreateKeyInput{
			Description: aws.String(awsKmsStore.KmsDesc),
			KeySpec:     types.KeySpecEccNistP256,
			KeyUsage:    types.KeyUsageTypeSignVerify,
		}
		keyResult, keyErr := awsKmsStore.client.CreateKey(ctx, keyInput)
		if keyErr != nil {
			logs.WithContext(ctx).Error(keyErr.Error())
			return keyErr
		}
		awsKmsStore.KmsName = *keyResult.KeyMetadata.KeyId

		aliasInput := &kms.CreateAliasInput{
			AliasName:   aws.String(fmt.Sprint("alias/", awsKmsStore.KmsAlias)),
			TargetKeyId: &awsKmsStore.KmsName,
		}
		_, err = awsKmsStore.client.CreateAlias(ctx, aliasInput)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
	}
	return
}

// RotateKey provisions a fresh signing key, repoints the alias at it and
// schedules the old key for deletion after the minimum 7 day window.
func (awsKmsStore *AwsKmsStore) RotateKey(ctx context.Context) (err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	oldKeyId := awsKmsStore.KmsName
	keyInput := &kms.CreateKeyInput{
		Description: aws.String(awsKmsStore.KmsDesc),
		KeySpec:     types.KeySpecEccNistP256,
		KeyUsage:    types.KeyUsageTypeSignVerify,
	}
	keyResult, err := awsKmsStore.client.CreateKey(ctx, keyInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	awsKmsStore.KmsName = *keyResult.KeyMetadata.KeyId

	aliasInput := &kms.UpdateAliasInput{
		AliasName:   aws.String(fmt.Sprint("alias/", awsKmsStore.KmsAlias)),
		TargetKeyId: &awsKmsStore.KmsName,
	}
	_, err = awsKmsStore.client.UpdateAlias(ctx, aliasInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if oldKeyId != "" {
		err = awsKmsStore.DeleteKey(ctx, oldKeyId, 7)
		if err != nil {
			return
		}
	}
	return
}

func (awsKmsStore *AwsKmsStore) DeleteKey(ctx context.Context, keyId string, deleteDays int32) (err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	deleteInput := &kms.ScheduleKeyDeletionInput{
		KeyId:               aws.String(keyId),
		PendingWindowInDays: aws.Int32(deleteDays), // Minimum is 7 days
	}
	_, err = awsKmsStore.client.ScheduleKeyDeletion(ctx, deleteInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

func (awsKmsStore *AwsKmsStore) Sign(ctx context.Context, digest []byte) (signature []byte, err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	signInput := &kms.SignInput{
		KeyId:            aws.String(awsKmsStore.KmsName),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
	}
	signOutput, err := awsKmsStore.client.Sign(ctx, signInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	signature = signOutput.Signature
	return
}

func (awsKmsStore *AwsKmsStore) Verify(ctx context.Context, digest []byte, signature []byte) (valid bool, err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	verifyInput := &kms.VerifyInput{
		KeyId:            aws.String(awsKmsStore.KmsName),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		Signature:        signature,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
	}
	verifyOutput, err := awsKmsStore.client.Verify(ctx, verifyInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	valid = verifyOutput.SignatureValid
	return
}

func (awsKmsStore *AwsKmsStore) GetPublicKey(ctx context.Context) (publicKeyDer []byte, err error) {
	if awsKmsStore.client == nil {
		err = awsKmsStore.Init(ctx)
		if err != nil {
			return
		}
	}
	pkInput := &kms.GetPublicKeyInput{
		KeyId: aws.String(awsKmsStore.KmsName),
	}
	pkOutput, err := awsKmsStore.client.GetPublicKey(ctx, pkInput)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	publicKeyDer = pkOutput.PublicKey
	return
}

func (awsKmsStore *AwsKmsStore) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &awsKmsStore)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
