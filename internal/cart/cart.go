package cart

import (
	"errors"

	"go-pos-kasir/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLineNotFound      = errors.New("cart line not found")
)

// Repository is the per-cashier staging area for a sale. Every method takes
// the owning cashier id explicitly so the checkout path can be exercised
// without a request context.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddLine puts qty units of a product into the cashier's cart. If the
// product is already in the cart the existing line is bumped and its price
// recomputed from the current sell price; otherwise a new line is inserted.
//
// The stock check here is advisory only - it catches the obvious case at
// scan time, but the authoritative check happens again inside the checkout
// transaction.
func (r *Repository) AddLine(cashierID, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		qty = 1
	}

	var product models.Product
	if err := r.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.Stock < qty {
		return nil, ErrInsufficientStock
	}

	var line models.Cart
	err := r.db.Where("cashier_id = ? AND product_id = ?", cashierID, productID).
		First(&line).Error

	switch {
	case err == nil:
		line.Qty += qty
		line.Price = product.SellPrice * int64(line.Qty)
		if err := r.db.Save(&line).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.Cart{
			CashierID: cashierID,
			ProductID: productID,
			Qty:       qty,
			Price:     product.SellPrice * int64(qty),
		}
		if err := r.db.Create(&line).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	line.Product = product
	return &line, nil
}

// RemoveLine deletes one cart line. The line must belong to the calling
// cashier; lines owned by someone else look like they don't exist.
func (r *Repository) RemoveLine(cashierID, lineID uint) error {
	res := r.db.Where("id = ? AND cashier_id = ?", lineID, cashierID).
		Delete(&models.Cart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// ListLines returns the cashier's current cart, product preloaded, newest
// first.
func (r *Repository) ListLines(cashierID uint) ([]models.Cart, error) {
	var lines []models.Cart
	err := r.db.Preload("Product").
		Where("cashier_id = ?", cashierID).
		Order("created_at desc").
		Find(&lines).Error
	return lines, err
}

// Total sums the cashier's line subtotals for the checkout screen.
func (r *Repository) Total(cashierID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Cart{}).
		Where("cashier_id = ?", cashierID).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error
	return total, err
}

// Clear drops every line the cashier owns. The checkout transaction calls
// this as its last step, through its own tx handle.
func (r *Repository) Clear(cashierID uint) error {
	return Clear(r.db, cashierID)
}

// Clear is the tx-scoped variant used inside the checkout transaction.
func Clear(db *gorm.DB, cashierID uint) error {
	return db.Where("cashier_id = ?", cashierID).Delete(&models.Cart{}).Error
}
