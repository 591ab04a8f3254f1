package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStatus represents the inventory lifecycle state of a product
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "Available" // In stock and sellable
	ProductStatusReserved  ProductStatus = "Reserved"  // Held for a customer
	ProductStatusSold      ProductStatus = "Sold"      // Sold through a committed sale
)

// Product represents a jewelry item in inventory.
// Price is derived from the current rate tables plus the item's physical
// attributes and is recomputed whenever those inputs change; it is never
// entered by hand.
type Product struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;not null;index:idx_products_category" json:"category"`

	// Metal component
	MetalGrade  string          `gorm:"size:20;index:idx_products_metal_grade" json:"metal_grade"`
	MetalWeight decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"metal_weight"` // grams

	// Stone component (optional)
	StoneCut     string          `gorm:"size:50" json:"stone_cut,omitempty"`
	StoneQuality string          `gorm:"size:20" json:"stone_quality,omitempty"`
	StoneColor   string          `gorm:"size:20" json:"stone_color,omitempty"`
	StoneWeight  decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"stone_weight"` // carats

	// Flat additive charges
	MakingCharge decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"making_charge"`
	LabourCharge decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"labour_charge"`

	// Derived, cached sale price (smallest currency unit, half-up rounded)
	Price decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`

	Status  ProductStatus `gorm:"type:varchar(20);not null;default:'Available';index:idx_products_status" json:"status"`
	Barcode string        `gorm:"size:32;not null;uniqueIndex:uk_products_barcode" json:"barcode"`

	LastSoldAt *time.Time `json:"last_sold_at,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_products_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID            *uint          `json:"id,omitempty"`
	UUID          *uuid.UUID     `json:"uuid,omitempty"`
	Category      *string        `json:"category,omitempty"`
	MetalGrade    *string        `json:"metal_grade,omitempty"`
	Status        *ProductStatus `json:"status,omitempty"`
	Barcode       *string        `json:"barcode,omitempty"`
	CreatedAfter  *time.Time     `json:"created_after,omitempty"`
	CreatedBefore *time.Time     `json:"created_before,omitempty"`
}

// BeforeCreate ensures UUID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// HasStone reports whether the stone component participates in pricing.
func (p *Product) HasStone() bool {
	return p.StoneCut != "" && p.StoneWeight.IsPositive()
}

// IsAvailable reports whether the product can be added to a cart.
func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusAvailable
}
