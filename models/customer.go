// Package models contains domain entities and business models for the inventory and sales system
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a CRM record. Contact, address, and tax fields are
// copied verbatim onto invoices at commit time; later edits never alter a
// historical invoice.
type Customer struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Mobile    string `gorm:"size:15;not null;uniqueIndex:uk_customers_mobile" json:"mobile"`
	Email     string `gorm:"size:255;index:idx_customers_email" json:"email,omitempty"`

	Address    string `gorm:"size:255" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"size:10" json:"postal_code,omitempty"`

	// GST registration number, printed on invoices when present
	TaxNumber string `gorm:"size:20" json:"tax_number,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"sales,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Mobile        *string    `json:"mobile,omitempty"`
	Email         *string    `json:"email,omitempty"`
	City          *string    `json:"city,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// BeforeCreate ensures UUID is set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// FullName returns the display name used on invoices.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
