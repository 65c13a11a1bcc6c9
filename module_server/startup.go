package module_server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/module_store"
)

const StoreTableName = "signet_config"

func StartUp() (module_store.ModuleStoreI, error) {
	storeType := strings.ToUpper(os.Getenv("STORE_TYPE"))
	if storeType == "" {
		storeType = "STANDALONE"
		logs.WithContext(context.Background()).Info("STORE_TYPE environment variable not found - loading default standlone store")
	}
	var myStore module_store.ModuleStoreI
	switch storeType {
	case "POSTGRES":
		myStore = new(module_store.ModuleDbStore)
		myStore.SetDbType(storeType)
		myStore.SetStoreTableName(StoreTableName)
	case "STANDALONE":
		myStore = new(module_store.ModuleFileStore)
	default:
		return nil, errors.New(fmt.Sprint("Invalid STORE_TYPE ", storeType))
	}
	storeBytes, err := myStore.GetStoreByteArray(context.Background(), "")
	if err == nil {
		err = module_store.UnMarshalStore(context.Background(), storeBytes, myStore)
	} else {
		logs.WithContext(context.Background()).Error(err.Error())
	}
	return myStore, err
}
