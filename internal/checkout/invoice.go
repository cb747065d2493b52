package checkout

import (
	"math/rand"
	"strings"
)

// Digits plus lowercase letters; the suffix is uppercased after drawing,
// so an invoice always matches TRX-[A-Z0-9]{10}.
const invoiceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const invoiceSuffixLen = 10

// NewInvoice draws a fresh candidate invoice number. Uniqueness is
// enforced by the database index plus the regenerate loop in Checkout,
// not by this function.
func NewInvoice() string {
	b := make([]byte, invoiceSuffixLen)
	for i := range b {
		b[i] = invoiceAlphabet[rand.Intn(len(invoiceAlphabet))]
	}
	return "TRX-" + strings.ToUpper(string(b))
}
