package persistence

import (
	"testing"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/inventory"
	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.ProductGroup{},
		&catalog.Unit{},
		&catalog.Product{},
		&catalog.ProductPackage{},
		&party.Counterparty{},
		&party.DeliveryAddress{},
		&party.Warehouse{},
		&party.PriceType{},
		&party.ClientContract{},
		&party.ClientAgreement{},
		&party.BuyerProfile{},
		&inventory.StockBalance{},
		&pricing.SpecialPrice{},
		&pricing.ProductPrice{},
		&order.Order{},
		&order.OrderItem{},
		&syncrun.SyncRun{},
		&syncrun.SyncRunItem{},
	))
	return db
}
