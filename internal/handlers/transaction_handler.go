package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go-pos-kasir/internal/checkout"
	"go-pos-kasir/internal/database"
	"go-pos-kasir/internal/models"
	"go-pos-kasir/internal/payment"

	"github.com/gin-gonic/gin"
)

// PaymentManager is the shared provider registry. Tests swap it for one
// pointed at fake endpoints.
var PaymentManager = payment.NewManager(nil, "")

// CheckoutRequest defines what the till sends when the cashier hits Pay.
type CheckoutRequest struct {
	CustomerID     *uint  `json:"customer_id"`
	Discount       int64  `json:"discount"`
	GrandTotal     int64  `json:"grand_total"`
	Cash           int64  `json:"cash"`
	Change         int64  `json:"change"`
	PaymentGateway string `json:"payment_gateway"`
}

// ProcessCheckout commits the sale and, for gateway settlements, asks the
// provider for a payment link afterwards. The two phases are deliberate:
// the sale is durable before any network call, and a gateway failure
// leaves it committed and pending rather than rolled back.
func ProcessCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cashierID := c.MustGet("userID").(uint)

	// 1. Resolve the requested settlement method. Anything that is not
	// cash must name a known, ready gateway before we write a single row.
	var gw payment.Gateway
	var setting *models.PaymentSetting

	name := strings.ToLower(req.PaymentGateway)
	if name != "" && name != models.PaymentMethodCash {
		parsed, err := payment.ParseGateway(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payment gateway"})
			return
		}

		setting = loadPaymentSetting()
		if !payment.GatewayReady(setting, parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment gateway is not configured"})
			return
		}
		gw = parsed
	}

	// 2. Commit the sale. All-or-nothing; the cart is gone on success.
	svc := checkout.NewService(database.DB)
	trx, err := svc.Checkout(checkout.Input{
		CashierID:  cashierID,
		CustomerID: req.CustomerID,
		Discount:   req.Discount,
		GrandTotal: req.GrandTotal,
		Cash:       req.Cash,
		Change:     req.Change,
		Gateway:    gw,
	})
	if err != nil {
		status, msg := checkoutError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	// 3. Best-effort gateway enrichment, strictly after the commit. A
	// failure here is reported next to the (already valid) invoice, never
	// retried automatically and never a rollback.
	var paymentErr string
	if gw != "" {
		charge, err := PaymentManager.CreatePayment(c.Request.Context(), trx, gw, setting)
		if err != nil {
			paymentErr = err.Error()
		} else if err := svc.AttachPayment(trx, charge.Reference, charge.PaymentURL); err != nil {
			paymentErr = "failed to record payment link"
		}
	}

	resp := gin.H{
		"message":     "Sale successful!",
		"invoice":     trx.Invoice,
		"transaction": trx,
	}
	if paymentErr != "" {
		resp["payment_error"] = paymentErr
	}
	c.JSON(http.StatusOK, resp)
}

// checkoutError maps the checkout sentinels onto HTTP responses.
func checkoutError(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, checkout.ErrInvalidDiscount):
		return http.StatusBadRequest, "Invalid discount"
	case errors.Is(err, checkout.ErrTotalMismatch):
		return http.StatusBadRequest, "Grand total does not match cart contents"
	case errors.Is(err, checkout.ErrInsufficientStock):
		return http.StatusBadRequest, "Insufficient stock"
	case errors.Is(err, checkout.ErrProductNotFound):
		return http.StatusNotFound, "Product no longer exists"
	default:
		return http.StatusInternalServerError, "Failed to process sale"
	}
}

// --- GET: Invoice view for printing ---
func GetTransaction(c *gin.Context) {
	invoice := c.Param("invoice")

	trx, err := checkout.NewService(database.DB).FindByInvoice(invoice)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, trx)
}

// --- GET: Transaction history ---
// Cashiers see their own sales; admins see everything. Filterable by
// invoice fragment and date range.
func GetTransactions(c *gin.Context) {
	cashierID := c.MustGet("userID").(uint)
	role := c.MustGet("role").(string)

	query := database.DB.Model(&models.Transaction{}).
		Preload("Cashier").
		Preload("Customer").
		Order("created_at desc")

	if role != "admin" {
		query = query.Where("cashier_id = ?", cashierID)
	}

	if invoice := c.Query("invoice"); invoice != "" {
		query = query.Where("invoice LIKE ?", "%"+invoice+"%")
	}
	if start := c.Query("start_date"); start != "" {
		query = query.Where("DATE(created_at) >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("DATE(created_at) <= ?", end)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	const perPage = 10

	var transactions []models.Transaction
	if err := query.Limit(perPage).Offset((page - 1) * perPage).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"page":         page,
	})
}

// --- GET: Gateways the till may offer ---
func GetPaymentGateways(c *gin.Context) {
	setting := loadPaymentSetting()

	c.JSON(http.StatusOK, gin.H{
		"gateways": payment.EnabledGateways(setting),
		"default":  payment.DefaultGateway(setting),
	})
}

// loadPaymentSetting fetches the singleton settings row, nil when the
// table is empty (all gateways read as not ready).
func loadPaymentSetting() *models.PaymentSetting {
	var setting models.PaymentSetting
	if err := database.DB.First(&setting).Error; err != nil {
		return nil
	}
	return &setting
}
