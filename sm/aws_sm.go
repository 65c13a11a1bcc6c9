package sm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	logs "github.com/signet-tech/signet/logs"
)

type AwsSmStore struct {
	SmStore
	Region         string `json:"region" signet:"required"`
	SmName         string `json:"sm_name" signet:"required"`
	Authentication string `json:"authentication" signet:"required"`
	Key            string `json:"key"`
	Secret         string `json:"secret"`
	client         *secretsmanager.Client
	smValue        map[string]string
}

func (awsSmStore *AwsSmStore) Init(ctx context.Context) (err error) {
	logs.WithContext(ctx).Debug("Init - Start")
	awsConf, awsConfErr := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsSmStore.Region),
	)
	if awsConfErr != nil {
		err = awsConfErr
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if awsSmStore.Authentication == AuthTypeSecret {
		awsConf.Credentials = credentials.NewStaticCredentialsProvider(
			awsSmStore.Key,
			awsSmStore.Secret,
			"",
		)
	}
	awsSmStore.client = secretsmanager.NewFromConfig(awsConf)
	return
}

func (awsSmStore *AwsSmStore) FetchSmValue(ctx context.Context, smKey string) (smVal string, err error) {
	logs.WithContext(ctx).Debug("FetchSmValue - Start")
	if awsSmStore.client == nil {
		err = awsSmStore.Init(ctx)
		if err != nil {
			return
		}
	}
	if awsSmStore.smValue == nil {
		smInput := &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(awsSmStore.SmName),
		}
		smOutput, smErr := awsSmStore.client.GetSecretValue(ctx, smInput)
		if smErr != nil {
			err = smErr
			logs.WithContext(ctx).Error(err.Error())
			return
		}
		err = json.Unmarshal([]byte(*smOutput.SecretString), &awsSmStore.smValue)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return
		}
	}
	if v, ok := awsSmStore.smValue[smKey]; ok {
		return v, nil
	}
	err = errors.New(fmt.Sprint("secret key ", smKey, " not found in ", awsSmStore.SmName))
	logs.WithContext(ctx).Error(err.Error())
	return
}

func (awsSmStore *AwsSmStore) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &awsSmStore)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
