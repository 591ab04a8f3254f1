package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one selected product with its quantity and the unit price
// snapshotted at add time. A rate change mid-checkout never alters an open
// cart line.
type CartLine struct {
	ProductID   uint            `json:"product_id"`
	ProductUUID uuid.UUID       `json:"product_uuid"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is transient, session-local state. It is never persisted; it is
// discarded on commit or cancel.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
}

// CartTotals aggregates a cart's financial summary.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Totals computes subtotal, tax (half-up rounded to the smallest currency
// unit), and grand total for the cart at the given tax rate.
func (c *Cart) Totals(taxRate decimal.Decimal) CartTotals {
	subtotal := decimal.Zero
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(taxRate).Round(0)
	return CartTotals{
		Subtotal:   subtotal,
		TaxRate:    taxRate,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// FindLine returns the index of the line holding productID, or -1.
func (c *Cart) FindLine(productID uint) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
