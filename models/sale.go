package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleStatus tracks a sale attempt through settlement.
// A persisted sale is created in "committed"; the follow-up inventory and
// invoice steps advance it. Validation failures never persist anything, so
// "draft", "validated", and "rejected" exist only in memory.
type SaleStatus string

const (
	SaleStatusDraft            SaleStatus = "draft"
	SaleStatusValidated        SaleStatus = "validated"
	SaleStatusCommitted        SaleStatus = "committed"
	SaleStatusInventoryUpdated SaleStatus = "inventory_updated"
	SaleStatusInvoiced         SaleStatus = "invoiced"
	SaleStatusRejected         SaleStatus = "rejected"
)

// Sale is an immutable financial transaction record. Totals are copied
// verbatim from the cart at commit time and are never recomputed from rates.
// Only Status (and InventoryWarnings, written by the settlement follow-up)
// change after creation.
type Sale struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	InvoiceNumber string `gorm:"size:40;not null;uniqueIndex:uk_sales_invoice_number" json:"invoice_number"`

	CustomerID uint     `gorm:"not null;index:idx_sales_customer_id" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TaxRate       decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"tax_rate"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grand_total"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	PaymentMethod string          `gorm:"size:20;not null;default:'cash'" json:"payment_method"`

	Status SaleStatus `gorm:"type:varchar(20);not null;default:'committed';index:idx_sales_status" json:"status"`

	// Non-fatal issues recorded during the post-commit inventory step
	InventoryWarnings pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"inventory_warnings"`

	SaleDate  time.Time `gorm:"not null;index:idx_sales_sale_date" json:"sale_date"`
	CreatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relationships
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Invoice *Invoice   `gorm:"foreignKey:SaleID" json:"invoice,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale. Name and unit price are snapshots taken
// at cart-add time.
type SaleItem struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID uint `gorm:"not null;index:idx_sale_items_sale_id" json:"sale_id"`

	ProductID   uint            `gorm:"not null;index:idx_sale_items_product_id" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`

	CreatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleFilter represents filter criteria for sale queries
type SaleFilter struct {
	ID            *uint       `json:"id,omitempty"`
	UUID          *uuid.UUID  `json:"uuid,omitempty"`
	InvoiceNumber *string     `json:"invoice_number,omitempty"`
	CustomerID    *uint       `json:"customer_id,omitempty"`
	Status        *SaleStatus `json:"status,omitempty"`
	SoldAfter     *time.Time  `json:"sold_after,omitempty"`
	SoldBefore    *time.Time  `json:"sold_before,omitempty"`
}

// BeforeCreate ensures UUID is set
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	return nil
}
