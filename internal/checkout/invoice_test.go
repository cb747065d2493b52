package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoiceFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		inv := NewInvoice()
		assert.Regexp(t, invoicePattern, inv)
	}
}
