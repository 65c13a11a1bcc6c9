package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	logs "github.com/signet-tech/signet/logs"
)

var filePath = "/config/signet_config.json"

type FileStore struct {
	Store
}

func getStoreSaveFilePath() string {
	if fp := os.Getenv("STORE_FILE_PATH"); fp != "" {
		return fp
	}
	wd, err := os.Getwd()
	if err != nil {
		logs.Logger.Error(err.Error())
	}
	return fmt.Sprint(wd, filePath)
}

func (store *FileStore) GetStoreByteArray(ctx context.Context, fp string) (b []byte, err error) {
	logs.WithContext(ctx).Debug("GetStoreByteArray - Start")
	if fp == "" {
		fp = getStoreSaveFilePath()
	}
	storeData, err := os.ReadFile(fp)
	if err != nil {
		logs.WithContext(ctx).Info(fmt.Sprint("creating new blank config file at ", fp))
		err = store.SaveStore(ctx, fp, store)
		if err == nil {
			storeData, err = json.Marshal(store)
			if err != nil {
				logs.WithContext(ctx).Error(err.Error())
				return nil, err
			}
		}
	}
	return storeData, err
}

func (store *FileStore) LoadStore(ctx context.Context, fp string, ms StoreI) (err error) {
	logs.WithContext(ctx).Debug("LoadStore - Start")
	if fp == "" {
		fp = getStoreSaveFilePath()
	}
	storeData, err := os.ReadFile(fp)
	if err != nil {
		logs.WithContext(ctx).Info(fmt.Sprint("creating new blank config file at ", fp))
		_ = store.SaveStore(ctx, fp, nil)
		return err
	}
	err = json.Unmarshal(storeData, ms)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (store *FileStore) SaveStore(ctx context.Context, fp string, ms StoreI) (err error) {
	logs.WithContext(ctx).Debug("SaveStore - Start")
	if fp == "" {
		fp = getStoreSaveFilePath()
	}
	storeData, err := json.Marshal(ms)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("marshaling error = ", err.Error()))
		return err
	}
	err = os.WriteFile(fp, storeData, 0644)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("WriteFile error = ", err.Error()))
	}
	return err
}
