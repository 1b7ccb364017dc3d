package database

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"apigen-backend/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestAutoMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, AutoMigrate(db))
}

func TestGenerations(t *testing.T) {
	db := testDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"cliente", "pedido", "item"} {
		rec := &models.GenerationRecord{
			ApiName:    name,
			TableName:  name,
			ApiVersion: "v1",
			ModuleDir:  "cad",
			FieldCount: 1,
			Request:    datatypes.JSON(`{"apiName":"` + name + `"}`),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, SaveGeneration(db, rec))
		assert.Len(t, rec.Id, 36)
	}

	recs, total, err := ListGenerations(db, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, recs, 2)
	assert.Equal(t, "item", recs[0].ApiName)
	assert.Equal(t, "pedido", recs[1].ApiName)

	recs, _, err = ListGenerations(db, 2, 2)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "cliente", recs[0].ApiName)

	found, err := FindGeneration(db, recs[0].Id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"apiName":"cliente"}`, string(found.Request))

	_, err = FindGeneration(db, "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, ErrGenerationNotFound))
}
