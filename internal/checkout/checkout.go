// Package checkout turns a cashier's cart into a permanent transaction:
// header, line items, profit rows, stock decrement and cart clear, all in
// one database transaction. Either every effect lands or none do.
package checkout

import (
	"errors"
	"fmt"

	"go-pos-kasir/internal/cart"
	"go-pos-kasir/internal/models"
	"go-pos-kasir/internal/payment"

	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrTotalMismatch   = errors.New("grand total does not match cart contents")

	// Re-exported cart sentinels so callers only branch on one package.
	ErrProductNotFound   = cart.ErrProductNotFound
	ErrInsufficientStock = cart.ErrInsufficientStock
)

// Input carries everything the checkout needs, explicitly. No ambient
// "current user" - the cashier id is a parameter like any other.
type Input struct {
	CashierID  uint
	CustomerID *uint
	Discount   int64
	GrandTotal int64 // client-declared, verified against the cart
	Cash       int64
	Change     int64
	Gateway    payment.Gateway // zero value means cash settlement
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Checkout commits the sale. On success the cashier's cart is gone, stock
// is decremented and the returned transaction is fully hydrated. On any
// error nothing is written.
//
// Gateway readiness is the caller's job: by the time a gateway name lands
// here the request must already have passed the readiness gate, and the
// actual charge call happens after this commit returns.
func (s *Service) Checkout(in Input) (*models.Transaction, error) {
	if in.Discount < 0 {
		return nil, ErrInvalidDiscount
	}

	var invoice string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Snapshot the cart once; everything below works off this read.
		var lines []models.Cart
		if err := tx.Preload("Product").
			Where("cashier_id = ?", in.CashierID).
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// The client-declared total is re-derived server side and must
		// agree, otherwise the request is stale or tampered with.
		var subtotal int64
		for _, line := range lines {
			subtotal += line.Price
		}
		grandTotal := subtotal - in.Discount
		if grandTotal < 0 {
			return ErrInvalidDiscount
		}
		if grandTotal != in.GrandTotal {
			return ErrTotalMismatch
		}

		var err error
		invoice, err = s.reserveInvoice(tx)
		if err != nil {
			return err
		}

		// Tender bookkeeping: a gateway sale has no physical tender, so
		// cash mirrors the grand total and the sale waits on the link.
		isCash := in.Gateway == ""
		cashAmount := in.Cash
		changeAmount := in.Change
		status := models.PaymentStatusPaid
		method := models.PaymentMethodCash
		if !isCash {
			cashAmount = grandTotal
			changeAmount = 0
			status = models.PaymentStatusPending
			method = string(in.Gateway)
		}

		trx := models.Transaction{
			CashierID:     in.CashierID,
			CustomerID:    in.CustomerID,
			Invoice:       invoice,
			Cash:          cashAmount,
			Change:        changeAmount,
			Discount:      in.Discount,
			GrandTotal:    grandTotal,
			PaymentMethod: method,
			PaymentStatus: status,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.consumeLine(tx, trx.ID, line); err != nil {
				return err
			}
		}

		return cart.Clear(tx, in.CashierID)
	})
	if err != nil {
		return nil, err
	}

	return s.FindByInvoice(invoice)
}

// consumeLine copies one cart line into the transaction: detail row,
// profit row, and the authoritative stock decrement.
func (s *Service) consumeLine(tx *gorm.DB, trxID uint, line models.Cart) error {
	var product models.Product
	if err := tx.First(&product, line.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Product deleted between add-to-cart and checkout.
			return ErrProductNotFound
		}
		return err
	}

	detail := models.TransactionDetail{
		TransactionID: trxID,
		ProductID:     line.ProductID,
		Qty:           line.Qty,
		Price:         line.Price,
	}
	if err := tx.Create(&detail).Error; err != nil {
		return err
	}

	profit := models.Profit{
		TransactionID: trxID,
		Total:         (product.SellPrice - product.BuyPrice) * int64(line.Qty),
	}
	if err := tx.Create(&profit).Error; err != nil {
		return err
	}

	// Single guarded UPDATE so two concurrent checkouts can never both
	// take the last unit: the stock >= qty predicate and the decrement
	// are one atomic statement.
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", line.ProductID, line.Qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", line.Qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// reserveInvoice generates invoice candidates until one is unused. The
// unique index on transactions.invoice backs this up if two commits race
// on the same candidate.
func (s *Service) reserveInvoice(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := NewInvoice()
		var count int64
		if err := tx.Model(&models.Transaction{}).
			Where("invoice = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique invoice number")
}

// AttachPayment records the gateway's reference and payment URL on an
// already-committed transaction. Writes at most once; a second call is a
// no-op because the reference column is already set.
func (s *Service) AttachPayment(trx *models.Transaction, reference, paymentURL string) error {
	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND payment_reference IS NULL", trx.ID).
		Updates(map[string]any{
			"payment_reference": reference,
			"payment_url":       paymentURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		trx.PaymentReference = &reference
		trx.PaymentURL = &paymentURL
	}
	return nil
}

// FindByInvoice loads the hydrated transaction for the invoice/print view.
func (s *Service) FindByInvoice(invoice string) (*models.Transaction, error) {
	var trx models.Transaction
	err := s.db.Preload("Details.Product").
		Preload("Profits").
		Preload("Cashier").
		Preload("Customer").
		Where("invoice = ?", invoice).
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}
