package cart

import (
	"fmt"
	"strings"
	"testing"

	"go-pos-kasir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Cart{},
		&models.Transaction{},
		&models.TransactionDetail{},
		&models.Profit{},
		&models.PaymentSetting{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sellPrice, buyPrice int64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Title:     "Kopi Susu",
		Barcode:   fmt.Sprintf("BRC-%s", strings.ReplaceAll(t.Name(), "/", "-")),
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Stock:     stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestAddLineCreatesNewLine(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 10)
	repo := NewRepository(db)

	line, err := repo.AddLine(1, product.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, uint(1), line.CashierID)
	assert.Equal(t, 2, line.Qty)
	assert.Equal(t, int64(120000), line.Price)

	lines, err := repo.ListLines(1)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddLineBumpsExistingLine(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 10)
	repo := NewRepository(db)

	_, err := repo.AddLine(1, product.ID, 1)
	require.NoError(t, err)

	line, err := repo.AddLine(1, product.ID, 2)
	require.NoError(t, err)

	// One row per (cashier, product): qty bumped, price recomputed.
	assert.Equal(t, 3, line.Qty)
	assert.Equal(t, int64(180000), line.Price)

	lines, err := repo.ListLines(1)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddLineRecomputesPriceFromCurrentSellPrice(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 10)
	repo := NewRepository(db)

	_, err := repo.AddLine(1, product.ID, 1)
	require.NoError(t, err)

	// Price change between adds: the bump re-derives the subtotal from
	// the product's current sell price.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("sell_price", 70000).Error)

	line, err := repo.AddLine(1, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(140000), line.Price)
}

func TestAddLineProductNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	_, err := repo.AddLine(1, 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddLineInsufficientStock(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 1)
	repo := NewRepository(db)

	_, err := repo.AddLine(1, product.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartsAreScopedPerCashier(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 10)
	repo := NewRepository(db)

	_, err := repo.AddLine(1, product.ID, 1)
	require.NoError(t, err)
	_, err = repo.AddLine(2, product.ID, 3)
	require.NoError(t, err)

	lines, err := repo.ListLines(1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Qty)

	lines, err = repo.ListLines(2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Qty)
}

func TestRemoveLineRequiresOwnership(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, 60000, 45000, 10)
	repo := NewRepository(db)

	line, err := repo.AddLine(1, product.ID, 1)
	require.NoError(t, err)

	// Another cashier cannot delete it; to them it does not exist.
	err = repo.RemoveLine(2, line.ID)
	assert.ErrorIs(t, err, ErrLineNotFound)

	require.NoError(t, repo.RemoveLine(1, line.ID))

	lines, err := repo.ListLines(1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoveLineNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	err := repo.RemoveLine(1, 42)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestTotalAndClear(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	first := seedProduct(t, db, 60000, 45000, 10)
	second := models.Product{Title: "Teh Manis", Barcode: "BRC-THM", SellPrice: 5000, BuyPrice: 3000, Stock: 10}
	require.NoError(t, db.Create(&second).Error)

	_, err := repo.AddLine(1, first.ID, 2)
	require.NoError(t, err)
	_, err = repo.AddLine(1, second.ID, 1)
	require.NoError(t, err)

	total, err := repo.Total(1)
	require.NoError(t, err)
	assert.Equal(t, int64(125000), total)

	require.NoError(t, repo.Clear(1))

	total, err = repo.Total(1)
	require.NoError(t, err)
	assert.Zero(t, total)
}
