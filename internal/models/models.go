package models

import (
	"time"
)

// User - The cashier (or admin) operating the till
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// Customer - Optional buyer attached to a transaction
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Product - The Inventory
// All money fields are integer currency units (rupiah), the same format
// the payment providers expect on the wire.
type Product struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `json:"title"`
	Barcode   string `gorm:"uniqueIndex;size:50" json:"barcode"`
	ImageURL  string `json:"image_url"`
	BuyPrice  int64  `json:"buy_price"`
	SellPrice int64  `json:"sell_price"`
	Stock     int    `json:"stock"` // must never go negative
}

// Cart - One pending line in a cashier's staging area, prior to checkout.
// One row per (cashier_id, product_id); repeat adds bump Qty and
// recompute Price.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CashierID uint      `gorm:"index:idx_cart_cashier_product,unique" json:"cashier_id"`
	ProductID uint      `gorm:"index:idx_cart_cashier_product,unique" json:"product_id"`
	Product   Product   `json:"product"`
	Qty       int       `json:"qty"`
	Price     int64     `json:"price"` // unit sell_price * qty, not unit price
	CreatedAt time.Time `json:"created_at"`
}

// Payment status values on Transaction
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// PaymentMethodCash marks a transaction settled at the till, no gateway.
const PaymentMethodCash = "cash"

// Transaction - The sale header. Immutable once created, except the
// payment_reference/payment_url/payment_status trio which the gateway
// completion step writes exactly once.
type Transaction struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	CashierID        uint                `json:"cashier_id"`
	Cashier          User                `gorm:"foreignKey:CashierID" json:"cashier"`
	CustomerID       *uint               `json:"customer_id"`
	Customer         *Customer           `json:"customer"`
	Invoice          string              `gorm:"uniqueIndex;size:20" json:"invoice"`
	Cash             int64               `json:"cash"`
	Change           int64               `json:"change"`
	Discount         int64               `json:"discount"`
	GrandTotal       int64               `json:"grand_total"`
	PaymentMethod    string              `json:"payment_method"` // 'cash' or gateway name
	PaymentStatus    string              `json:"payment_status"`
	PaymentReference *string             `json:"payment_reference"`
	PaymentURL       *string             `json:"payment_url"`
	Details          []TransactionDetail `gorm:"foreignKey:TransactionID" json:"details"`
	Profits          []Profit            `gorm:"foreignKey:TransactionID" json:"profits"`
	CreatedAt        time.Time           `json:"created_at"`
}

// TransactionDetail - One consumed cart line. Price is the line subtotal,
// not the unit price.
type TransactionDetail struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TransactionID uint    `json:"transaction_id"`
	ProductID     uint    `json:"product_id"`
	Product       Product `json:"product"`
	Qty           int     `json:"qty"`
	Price         int64   `json:"price"`
}

// Profit - Per line item, (sell_price - buy_price) * qty captured at
// commit time. Later price edits never touch historical rows.
type Profit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `json:"transaction_id"`
	Total         int64     `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentSetting - Singleton row holding per-provider credentials and the
// store-wide default gateway. Written by settings administration, read on
// every gateway checkout.
type PaymentSetting struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	DefaultGateway     string `json:"default_gateway"`
	MidtransEnabled    bool   `json:"midtrans_enabled"`
	MidtransServerKey  string `json:"-"`
	MidtransClientKey  string `json:"-"`
	MidtransProduction bool   `json:"midtrans_production"`
	XenditEnabled      bool   `json:"xendit_enabled"`
	XenditSecretKey    string `json:"-"`
	XenditPublicKey    string `json:"-"`
	XenditProduction   bool   `json:"xendit_production"`
}
