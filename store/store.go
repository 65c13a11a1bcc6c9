package store

import "context"

type StoreI interface {
	LoadStore(ctx context.Context, fp string, ms StoreI) (err error)
	GetStoreByteArray(ctx context.Context, fp string) (b []byte, err error)
	SaveStore(ctx context.Context, fp string, ms StoreI) (err error)
	SetDbType(dbtype string)
	SetStoreTableName(tablename string)
}

type Store struct {
}

func (store *Store) SetDbType(dbtype string) {
	//do nothing
}

func (store *Store) SetStoreTableName(tablename string) {
	//do nothing
}
