package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	logs "github.com/signet-tech/signet/logs"
)

type DbStore struct {
	Store
	DbType         string
	UpdateTime     time.Time
	StoreTableName string
}

func getStoreDbPath() string {
	dbString := os.Getenv("STORE_DB_PATH")
	logs.Logger.Debug(fmt.Sprint("dbString = ", dbString))
	return dbString
}

func (store *DbStore) SetDbType(dbtype string) {
	store.DbType = strings.ToLower(dbtype)
}

func (store *DbStore) SetStoreTableName(tablename string) {
	store.StoreTableName = strings.ToLower(tablename)
}

func (store *DbStore) GetStoreByteArray(ctx context.Context, dbString string) (b []byte, err error) {
	logs.WithContext(ctx).Debug("GetStoreByteArray - Start")
	if dbString == "" {
		dbString = getStoreDbPath()
		if dbString == "" {
			return nil, errors.New("No value found for environment variable STORE_DB_PATH")
		}
	}
	db, err := sqlx.Open(store.DbType, dbString)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryxContext(ctx, fmt.Sprint("select * from ", store.StoreTableName, " limit 1"))
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	mapping := make(map[string]interface{})
	var storeData interface{}
	for rows.Next() {
		err = rows.MapScan(mapping)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		storeData = mapping["config"]
		store.UpdateTime = mapping["create_date"].(time.Time)
	}
	if storeData == nil {
		err = errors.New("no config data retrived from db")
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return storeData.([]byte), err
}

func (store *DbStore) LoadStore(ctx context.Context, dbString string, ms StoreI) (err error) {
	logs.WithContext(ctx).Debug("LoadStore - Start")
	storeData, err := store.GetStoreByteArray(ctx, dbString)
	if err != nil {
		return err
	}
	err = json.Unmarshal(storeData, ms)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (store *DbStore) SaveStore(ctx context.Context, dbString string, ms StoreI) (err error) {
	logs.WithContext(ctx).Debug("SaveStore - Start")
	if dbString == "" {
		dbString = getStoreDbPath()
	}
	db, err := sqlx.Open(store.DbType, dbString)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer db.Close()
	tx := db.MustBegin()
	storeData, err := json.Marshal(ms)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		tx.Rollback()
		return err
	}
	strStoreData := strings.Replace(string(storeData), "'", "''", -1)
	query := fmt.Sprint("update ", store.StoreTableName, " set create_date=current_timestamp , config = '", strStoreData, "' returning create_date")
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("Error in tx.PreparexContext : ", err.Error()))
		tx.Rollback()
		return err
	}
	rw, err := stmt.QueryxContext(ctx)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("Error in stmt.QueryxContext : ", err.Error()))
		tx.Rollback()
		return err
	}
	for rw.Rows.Next() {
		resDoc := make(map[string]interface{})
		err = rw.MapScan(resDoc)
		if err != nil {
			logs.WithContext(ctx).Error(fmt.Sprint("Error in rw.MapScan : ", err.Error()))
			tx.Rollback()
			return err
		}
		store.UpdateTime = resDoc["create_date"].(time.Time)
	}
	err = tx.Commit()
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("Error in tx.Commit : ", err.Error()))
		tx.Rollback()
	}
	return err
}
