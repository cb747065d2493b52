package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go-pos-kasir/internal/models"
)

const (
	midtransSandboxURL    = "https://app.sandbox.midtrans.com/snap/v1/transactions"
	midtransProductionURL = "https://app.midtrans.com/snap/v1/transactions"
)

// MidtransProvider creates a Snap transaction and returns its redirect
// URL. Auth is HTTP basic with the server key as username and an empty
// password, per the Midtrans API docs.
type MidtransProvider struct {
	Client        *http.Client
	FinishBaseURL string

	// BaseURL overrides both endpoints when set (tests).
	BaseURL string
}

type midtransRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone,omitempty"`
	} `json:"customer_details"`
	Callbacks struct {
		Finish string `json:"finish"`
	} `json:"callbacks"`
}

func (p *MidtransProvider) endpoint(cfg MidtransConfig) string {
	if p.BaseURL != "" {
		return p.BaseURL
	}
	if cfg.Production {
		return midtransProductionURL
	}
	return midtransSandboxURL
}

func (p *MidtransProvider) CreateCharge(ctx context.Context, trx *models.Transaction, setting *models.PaymentSetting) (*Charge, error) {
	if !GatewayReady(setting, GatewayMidtrans) {
		return nil, ErrGatewayNotReady
	}
	cfg := ResolveMidtransConfig(setting)

	// The invoice string is the order id on the provider side - never the
	// numeric row id.
	var payload midtransRequest
	payload.TransactionDetails.OrderID = trx.Invoice
	payload.TransactionDetails.GrossAmount = trx.GrandTotal
	payload.CustomerDetails.FirstName = customerName(trx.Customer)
	payload.CustomerDetails.Email = customerEmail(trx.Customer)
	payload.CustomerDetails.Phone = customerPhone(trx.Customer)
	payload.Callbacks.Finish = printURL(p.FinishBaseURL, trx.Invoice)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(cfg), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(cfg.ServerKey, "")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &GatewayError{Gateway: GatewayMidtrans, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Gateway: GatewayMidtrans, Message: err.Error()}
	}

	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := jsonString(parsed, "status_message")
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw))
		}
		return nil, &GatewayError{Gateway: GatewayMidtrans, Message: msg}
	}

	reference := jsonString(parsed, "order_id")
	if reference == "" {
		reference = trx.Invoice
	}

	return &Charge{
		Reference:  reference,
		PaymentURL: jsonString(parsed, "redirect_url"),
		Token:      jsonString(parsed, "token"),
		Raw:        parsed,
	}, nil
}

func jsonString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
