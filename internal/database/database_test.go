package database

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinecarbon/config"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, CATALOG_CACHE_INDEX)
	assert.Equal(t, 1, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
	assert.Nil(t, db.Cache.Catalog)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseName:     "sinecarbon",
		DatabaseUser:     "engine",
		DatabasePassword: "secret",
	})

	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=sinecarbon")
	assert.Contains(t, dsn, "user=engine")
}

func TestCacheBuilder_NilClient(t *testing.T) {
	var target map[string]string

	found, err := NewCacheBuilder(nil, "catalog").WithHash("cards").Get(&target)
	require.ErrorIs(t, err, ErrCacheUnavailable)
	assert.False(t, found)

	err = NewCacheBuilder(nil, "catalog").WithStruct(map[string]string{"a": "b"}).Set()
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestCacheBuilder_Composition(t *testing.T) {
	builder := NewCacheBuilder(nil, "all").WithHash("catalog")
	assert.Equal(t, "catalog:all", builder.Key())

	builder = NewCacheBuilder(nil, "all").WithHash("")
	assert.Equal(t, "all", builder.Key())
}
