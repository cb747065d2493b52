package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-kasir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xenditSetting() *models.PaymentSetting {
	return &models.PaymentSetting{
		XenditEnabled:   true,
		XenditSecretKey: "xnd_secret",
		XenditPublicKey: "xnd_public",
	}
}

func TestXenditCreateCharge(t *testing.T) {
	var got map[string]any
	var authUser, authPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		authUser, authPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"inv-63f1a2","invoice_url":"https://checkout.xendit.co/web/inv-63f1a2"}`))
	}))
	defer srv.Close()

	provider := &XenditProvider{
		Client:          srv.Client(),
		BaseURL:         srv.URL,
		RedirectBaseURL: "https://pos.example",
	}

	charge, err := provider.CreateCharge(context.Background(), gatewayTransaction(), xenditSetting())
	require.NoError(t, err)

	// Secret key rides as the basic-auth username, blank password.
	assert.Equal(t, "xnd_secret", authUser)
	assert.Empty(t, authPass)

	assert.Equal(t, "TRX-AB12CD34EF", got["external_id"])
	assert.Equal(t, float64(115000), got["amount"])
	assert.Contains(t, got["description"], "TRX-AB12CD34EF")
	assert.Equal(t, "https://pos.example/api/transactions/TRX-AB12CD34EF", got["success_redirect_url"])

	customer := got["customer"].(map[string]any)
	assert.Equal(t, "Budi", customer["given_names"])
	assert.Equal(t, "budi@example.com", customer["email"])

	assert.Equal(t, "inv-63f1a2", charge.Reference)
	assert.Equal(t, "https://checkout.xendit.co/web/inv-63f1a2", charge.PaymentURL)
}

func TestXenditNonSuccessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Amount is below the minimum"}`))
	}))
	defer srv.Close()

	provider := &XenditProvider{Client: srv.Client(), BaseURL: srv.URL}

	_, err := provider.CreateCharge(context.Background(), gatewayTransaction(), xenditSetting())

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, GatewayXendit, gwErr.Gateway)
	assert.Contains(t, gwErr.Message, "below the minimum")
}

func TestXenditRefusesWhenNotReady(t *testing.T) {
	provider := &XenditProvider{Client: http.DefaultClient}

	setting := xenditSetting()
	setting.XenditEnabled = false

	_, err := provider.CreateCharge(context.Background(), gatewayTransaction(), setting)
	assert.ErrorIs(t, err, ErrGatewayNotReady)
}
