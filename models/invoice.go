package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a denormalized, point-in-time snapshot of a committed sale.
// Customer, seller, and line details are frozen as JSONB at build time so
// later edits to products or customers cannot alter a historical invoice.
type Invoice struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	SaleID        uint   `gorm:"not null;uniqueIndex:uk_invoices_sale_id" json:"sale_id"`
	InvoiceNumber string `gorm:"size:40;not null;index:idx_invoices_invoice_number" json:"invoice_number"`

	Customer json.RawMessage `gorm:"type:jsonb;not null" json:"customer"`
	Seller   json.RawMessage `gorm:"type:jsonb;not null" json:"seller"`
	Lines    json.RawMessage `gorm:"type:jsonb;not null" json:"lines"`

	Subtotal   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"tax_rate"`
	TaxAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	GrandTotal decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grand_total"`
	Currency   string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`

	InvoiceDate time.Time `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`

	CreatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceFilter represents filter criteria for invoice queries
type InvoiceFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	SaleID        *uint      `json:"sale_id,omitempty"`
	InvoiceNumber *string    `json:"invoice_number,omitempty"`
}

// BeforeCreate ensures UUID is set
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == uuid.Nil {
		i.UUID = uuid.New()
	}
	return nil
}

// InvoiceCustomer is the frozen customer block embedded in an invoice.
type InvoiceCustomer struct {
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	TaxNumber  string `json:"tax_number,omitempty"`
}

// InvoiceSeller is the frozen company block embedded in an invoice.
type InvoiceSeller struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	TaxNumber  string `json:"tax_number"`
	Website    string `json:"website,omitempty"`
}

// InvoiceLine is one frozen line of an invoice. Placeholder reports whether
// the product lookup failed during assembly and synthetic metadata was used.
type InvoiceLine struct {
	ProductID   uint            `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Placeholder bool            `json:"placeholder,omitempty"`
}
