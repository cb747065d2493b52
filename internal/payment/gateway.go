// Package payment holds the gateway abstraction: the closed set of
// supported providers, the readiness rules over the PaymentSetting
// singleton, and the HTTP clients that turn a committed transaction into
// a payment link.
//
// Nothing in this package touches the database. Callers invoke it strictly
// after the sale is committed; a failure here leaves the transaction
// pending and is never a reason to roll the sale back.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go-pos-kasir/internal/models"
)

var (
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")
	ErrGatewayNotReady    = errors.New("payment gateway is not configured")
)

// GatewayError wraps a provider-side failure (non-2xx response or
// transport error) so the caller can tell it apart from local mistakes.
type GatewayError struct {
	Gateway Gateway
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Gateway, e.Message)
}

// Gateway identifies one of the supported non-cash providers. Cash never
// reaches this package - it is settled entirely inside the checkout
// transaction.
type Gateway string

const (
	GatewayMidtrans Gateway = "midtrans"
	GatewayXendit   Gateway = "xendit"
)

// ParseGateway maps a request-supplied name onto the closed provider set.
// An empty string or "cash" means no gateway at all.
func ParseGateway(name string) (Gateway, error) {
	switch Gateway(strings.ToLower(name)) {
	case GatewayMidtrans:
		return GatewayMidtrans, nil
	case GatewayXendit:
		return GatewayXendit, nil
	default:
		return "", ErrUnsupportedGateway
	}
}

// Charge is the normalized result of a provider charge creation.
type Charge struct {
	Reference  string
	PaymentURL string
	Token      string
	Raw        map[string]any
}

// Provider creates one charge for one committed transaction. A single
// synchronous call, no retries at this layer.
type Provider interface {
	CreateCharge(ctx context.Context, trx *models.Transaction, setting *models.PaymentSetting) (*Charge, error)
}

// Manager dispatches to the provider registry. Built once at startup and
// shared across requests.
type Manager struct {
	providers map[Gateway]Provider
}

func NewManager(client *http.Client, appBaseURL string) *Manager {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Manager{
		providers: map[Gateway]Provider{
			GatewayMidtrans: &MidtransProvider{Client: client, FinishBaseURL: appBaseURL},
			GatewayXendit:   &XenditProvider{Client: client, RedirectBaseURL: appBaseURL},
		},
	}
}

// NewManagerWithProviders builds a registry from explicit providers.
// Used by tests to point at fake endpoints.
func NewManagerWithProviders(providers map[Gateway]Provider) *Manager {
	return &Manager{providers: providers}
}

// CreatePayment resolves the provider for gw and asks it for a payment
// link. The readiness gate must already have passed; a stale setting that
// slipped through still fails safe inside the provider call.
func (m *Manager) CreatePayment(ctx context.Context, trx *models.Transaction, gw Gateway, setting *models.PaymentSetting) (*Charge, error) {
	provider, ok := m.providers[gw]
	if !ok {
		return nil, ErrUnsupportedGateway
	}
	return provider.CreateCharge(ctx, trx, setting)
}

// printURL is where the provider sends the customer after paying: the
// invoice view for this transaction.
func printURL(base, invoice string) string {
	if base == "" {
		base = os.Getenv("BASE_URL")
	}
	if base == "" {
		base = "http://localhost:8080"
	}
	return strings.TrimRight(base, "/") + "/api/transactions/" + invoice
}

// customerName and friends supply the sentinel values providers require
// when a sale has no attached customer.
func customerName(c *models.Customer) string {
	if c == nil || c.Name == "" {
		return "Customer"
	}
	return c.Name
}

func customerEmail(c *models.Customer) string {
	if c == nil || c.Email == "" {
		if from := os.Getenv("MAIL_FROM_ADDRESS"); from != "" {
			return from
		}
		return "noreply@example.com"
	}
	return c.Email
}

func customerPhone(c *models.Customer) string {
	if c == nil {
		return ""
	}
	return c.Phone
}
