package goods

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

func setupGoodsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS unit_measures (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  short_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS goods (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  unit_measure_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS goods_packagings (
  id TEXT PRIMARY KEY,
  goods_id TEXT NOT NULL,
  name TEXT NOT NULL,
  volume_liters NUMERIC NOT NULL,
  units_per_package INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func mustCreateUnitAndSupplier(t *testing.T, db *gorm.DB) (*models.UnitMeasure, *models.Supplier) {
	t.Helper()
	unit := &models.UnitMeasure{ID: uuid.New(), Name: "Liter " + uuid.NewString(), ShortName: "l"}
	require.NoError(t, db.Create(unit).Error)

	supplier := &models.Supplier{
		ID:       uuid.New(),
		Code:     fmt.Sprintf("SUP-%s", uuid.NewString()),
		Name:     "Green Valley Farms",
		IsActive: true,
	}
	require.NoError(t, db.Create(supplier).Error)
	return unit, supplier
}

func TestRepositoryGoodsFlow(t *testing.T) {
	db := setupGoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	unit, supplier := mustCreateUnitAndSupplier(t, db)

	created, err := repo.Create(ctx, &models.Goods{
		ID:            uuid.New(),
		Code:          "MILK-32",
		Name:          "Whole Milk 3.2%",
		UnitMeasureID: unit.ID,
		SupplierID:    supplier.ID,
		IsActive:      true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	packaging, err := repo.CreatePackaging(ctx, &models.GoodsPackaging{
		ID:              uuid.New(),
		GoodsID:         created.ID,
		Name:            "1L bottle x12",
		VolumeLiters:    decimal.NewFromFloat(1.0),
		UnitsPerPackage: 12,
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Whole Milk 3.2%", loaded.Name)
	require.NotNil(t, loaded.UnitMeasure)
	assert.Equal(t, unit.ID, loaded.UnitMeasure.ID)
	require.NotNil(t, loaded.Supplier)
	assert.Equal(t, supplier.ID, loaded.Supplier.ID)
	require.Len(t, loaded.Packagings, 1)
	assert.Equal(t, packaging.ID, loaded.Packagings[0].ID)

	found, err := repo.FindPackaging(ctx, created.ID, packaging.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, found.UnitsPerPackage)

	_, err = repo.FindPackaging(ctx, uuid.New(), packaging.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryGoodsCreatePersistsInactive(t *testing.T) {
	db := setupGoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	unit, supplier := mustCreateUnitAndSupplier(t, db)

	created, err := repo.Create(ctx, &models.Goods{
		ID:            uuid.New(),
		Code:          "BTR-82",
		Name:          "Butter 82%",
		UnitMeasureID: unit.ID,
		SupplierID:    supplier.ID,
		IsActive:      false,
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)
}

func TestRepositoryGoodsListSearch(t *testing.T) {
	db := setupGoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	unit, supplier := mustCreateUnitAndSupplier(t, db)
	names := []string{"Whole Milk", "Skim Milk", "Butter"}
	for i, name := range names {
		_, err := repo.Create(ctx, &models.Goods{
			ID:            uuid.New(),
			Code:          fmt.Sprintf("G-%d", i),
			Name:          name,
			UnitMeasureID: unit.ID,
			SupplierID:    supplier.ID,
			IsActive:      i != 2,
		})
		require.NoError(t, err)
	}

	rows, total, err := repo.List(ctx, "Milk", false, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, "", true, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, row := range rows {
		assert.True(t, row.IsActive)
	}

	rows, _, err = repo.List(ctx, "", false, pagination.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
