package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDbStoreNormalizesSettings(t *testing.T) {
	dbStore := new(DbStore)
	dbStore.SetDbType("POSTGRES")
	assert.Equal(t, "postgres", dbStore.DbType)
	dbStore.SetStoreTableName("SIGNET_CONFIG")
	assert.Equal(t, "signet_config", dbStore.StoreTableName)
}

func TestDbStoreRequiresDbPath(t *testing.T) {
	t.Setenv("STORE_DB_PATH", "")
	dbStore := new(DbStore)
	dbStore.SetDbType("POSTGRES")
	_, err := dbStore.GetStoreByteArray(context.Background(), "")
	assert.Error(t, err)
}
