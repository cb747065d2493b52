package payment

import (
	"go-pos-kasir/internal/models"
)

// MidtransConfig is the resolved provider config handed to the Midtrans
// client.
type MidtransConfig struct {
	ServerKey  string
	ClientKey  string
	Production bool
}

// XenditConfig is the resolved provider config handed to the Xendit client.
type XenditConfig struct {
	SecretKey  string
	PublicKey  string
	Production bool
}

// GatewayReady reports whether a provider can actually be charged against:
// its enabled flag is on and every required credential field is non-empty.
func GatewayReady(setting *models.PaymentSetting, gw Gateway) bool {
	if setting == nil {
		return false
	}
	switch gw {
	case GatewayMidtrans:
		return setting.MidtransEnabled &&
			setting.MidtransServerKey != "" &&
			setting.MidtransClientKey != ""
	case GatewayXendit:
		return setting.XenditEnabled &&
			setting.XenditSecretKey != "" &&
			setting.XenditPublicKey != ""
	default:
		return false
	}
}

// GatewayOption is one selectable entry on the checkout screen.
type GatewayOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// EnabledGateways lists the ready non-cash providers in a fixed order for
// the checkout screen.
func EnabledGateways(setting *models.PaymentSetting) []GatewayOption {
	options := []GatewayOption{}

	if GatewayReady(setting, GatewayMidtrans) {
		options = append(options, GatewayOption{
			Value:       string(GatewayMidtrans),
			Label:       "Midtrans",
			Description: "Share a Midtrans Snap payment link with the customer.",
		})
	}

	if GatewayReady(setting, GatewayXendit) {
		options = append(options, GatewayOption{
			Value:       string(GatewayXendit),
			Label:       "Xendit",
			Description: "Create an invoice automatically through Xendit.",
		})
	}

	return options
}

// DefaultGateway returns the stored default, falling back to cash whenever
// the stored choice is a gateway that is not ready. Cash is always ready.
func DefaultGateway(setting *models.PaymentSetting) string {
	if setting == nil || setting.DefaultGateway == "" {
		return models.PaymentMethodCash
	}
	if setting.DefaultGateway == models.PaymentMethodCash {
		return models.PaymentMethodCash
	}

	gw, err := ParseGateway(setting.DefaultGateway)
	if err != nil || !GatewayReady(setting, gw) {
		return models.PaymentMethodCash
	}
	return setting.DefaultGateway
}

// ResolveMidtransConfig extracts the Midtrans credentials from the
// singleton settings row.
func ResolveMidtransConfig(setting *models.PaymentSetting) MidtransConfig {
	return MidtransConfig{
		ServerKey:  setting.MidtransServerKey,
		ClientKey:  setting.MidtransClientKey,
		Production: setting.MidtransProduction,
	}
}

// ResolveXenditConfig extracts the Xendit credentials from the singleton
// settings row.
func ResolveXenditConfig(setting *models.PaymentSetting) XenditConfig {
	return XenditConfig{
		SecretKey:  setting.XenditSecretKey,
		PublicKey:  setting.XenditPublicKey,
		Production: setting.XenditProduction,
	}
}
