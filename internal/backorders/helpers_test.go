package backorders

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/inventory"
	"github.com/milkdist/warehouse-backend/pkg/db"
	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/enums"
	"github.com/milkdist/warehouse-backend/pkg/outbox"
)

func setupBackOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Postgres LIKE is case sensitive; make sqlite match.
	require.NoError(t, conn.Exec("PRAGMA case_sensitive_like = ON").Error)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'operator',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS retailers (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  address TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  deleted_at DATETIME,
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
		`CREATE TABLE IF NOT EXISTS unit_measures (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  short_name TEXT NOT NULL,
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
		`CREATE TABLE IF NOT EXISTS batches (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  goods_id TEXT NOT NULL,
  packaging_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  area_id TEXT NOT NULL,
  storage_condition_id TEXT,
  package_qty INTEGER NOT NULL DEFAULT 0,
  expires_at DATETIME NOT NULL,
  received_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS back_orders (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  retailer_id TEXT NOT NULL,
  goods_id TEXT NOT NULL,
  packaging_id TEXT NOT NULL,
  requested_qty INTEGER NOT NULL,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (retailer_id, goods_id, packaging_id)
);`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

type fixture struct {
	conn     *gorm.DB
	svc      Service
	repo     *Repository
	user     *models.User
	retailer *models.Retailer
	supplier *models.Supplier
	unit     *models.UnitMeasure
}

func newFixture(t *testing.T, scanCap int) *fixture {
	t.Helper()

	conn := setupBackOrdersTestDB(t)
	client := db.NewFromConn(conn)

	invRepo := inventory.NewRepository(conn)
	calc, err := inventory.NewCalculator(invRepo)
	require.NoError(t, err)

	repo := NewRepository(conn)
	events := outbox.NewService(outbox.NewRepository(conn), nil)

	svc, err := NewService(ServiceParams{
		Repo:          repo,
		DBClient:      client,
		Availability:  calc,
		Events:        events,
		StatusScanCap: scanCap,
	})
	require.NoError(t, err)

	f := &fixture{conn: conn, svc: svc, repo: repo}
	f.user = f.mustCreateUser(t, "Dana", "Ivanova")
	f.retailer = f.mustCreateRetailer(t, "Corner Dairy")
	f.supplier = f.mustCreateSupplier(t)
	f.unit = f.mustCreateUnit(t, "Liter")
	return f
}

func (f *fixture) mustCreateUser(t *testing.T, first, last string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    first,
		LastName:     last,
		Role:         enums.UserRoleOperator,
		IsActive:     true,
	}
	require.NoError(t, f.conn.Create(user).Error)
	return user
}

func (f *fixture) mustCreateRetailer(t *testing.T, name string) *models.Retailer {
	t.Helper()
	retailer := &models.Retailer{
		ID:       uuid.New(),
		Code:     fmt.Sprintf("R-%s", uuid.NewString()),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, f.conn.Create(retailer).Error)
	return retailer
}

func (f *fixture) mustCreateSupplier(t *testing.T) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		ID:       uuid.New(),
		Code:     fmt.Sprintf("SUP-%s", uuid.NewString()),
		Name:     "Green Valley Farms",
		IsActive: true,
	}
	require.NoError(t, f.conn.Create(supplier).Error)
	return supplier
}

func (f *fixture) mustCreateUnit(t *testing.T, name string) *models.UnitMeasure {
	t.Helper()
	unit := &models.UnitMeasure{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("%s %s", name, uuid.NewString()[:8]),
		ShortName: "u",
	}
	require.NoError(t, f.conn.Create(unit).Error)
	return unit
}

// mustCreateGoodsWithPackaging seeds one goods row, one packaging variant,
// and returns both ids.
func (f *fixture) mustCreateGoodsWithPackaging(t *testing.T, name string, unit *models.UnitMeasure) (uuid.UUID, uuid.UUID) {
	t.Helper()
	goods := &models.Goods{
		ID:            uuid.New(),
		Code:          fmt.Sprintf("G-%s", uuid.NewString()),
		Name:          name,
		UnitMeasureID: unit.ID,
		SupplierID:    f.supplier.ID,
		IsActive:      true,
	}
	require.NoError(t, f.conn.Omit("UnitMeasure", "Supplier", "Packagings").Create(goods).Error)

	packaging := &models.GoodsPackaging{
		ID:              uuid.New(),
		GoodsID:         goods.ID,
		Name:            "1L bottle x12",
		VolumeLiters:    decimal.NewFromFloat(1.0),
		UnitsPerPackage: 12,
	}
	require.NoError(t, f.conn.Create(packaging).Error)
	return goods.ID, packaging.ID
}

func (f *fixture) mustStock(t *testing.T, goodsID, packagingID uuid.UUID, qty int) {
	t.Helper()
	batch := &models.Batch{
		ID:          uuid.New(),
		Code:        fmt.Sprintf("B-%s", uuid.NewString()),
		GoodsID:     goodsID,
		PackagingID: packagingID,
		SupplierID:  f.supplier.ID,
		AreaID:      uuid.New(),
		PackageQty:  qty,
		ExpiresAt:   time.Now().Add(72 * time.Hour),
		ReceivedAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.conn.Omit("Goods", "Packaging").Create(batch).Error)
}

func (f *fixture) actor() auth.Actor {
	return auth.Actor{UserID: f.user.ID, Role: f.user.Role}
}

func (f *fixture) countBackOrders(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.BackOrder{}).Count(&count).Error)
	return count
}

func (f *fixture) countOutboxEvents(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.OutboxEvent{}).Count(&count).Error)
	return count
}
