// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// ProductRepository defines operations for inventory products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Product, error)
	ByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdatePrice(ctx context.Context, productID uint, price decimal.Decimal) error
	UpdateStatus(ctx context.Context, productID uint, status models.ProductStatus, soldAt *time.Time) error
	Delete(ctx context.Context, productID uint) error
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ByMobile(ctx context.Context, mobile string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
}

// SaleRepository defines operations for sales
type SaleRepository interface {
	Repository[models.Sale, models.SaleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Sale, error)
	ByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Sale, error)
	CreateWithItems(ctx context.Context, sale *models.Sale, items []models.SaleItem) error
	ItemsBySale(ctx context.Context, saleID uint) ([]*models.SaleItem, error)
	UpdateStatus(ctx context.Context, saleID uint, status models.SaleStatus) error
	AppendInventoryWarnings(ctx context.Context, saleID uint, warnings []string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error)
}

// InvoiceRepository defines operations for invoice snapshots
type InvoiceRepository interface {
	Repository[models.Invoice, models.InvoiceFilter]
	BySaleID(ctx context.Context, saleID uint) (*models.Invoice, error)
}

// RateTableRepository defines the persistence boundary for rate tables.
// Each kind maps to a single document; writes replace the whole document.
type RateTableRepository interface {
	Repository[models.RateTable, models.RateTableFilter]
	ByKind(ctx context.Context, kind models.RateKind) (*models.RateTable, error)
	Upsert(ctx context.Context, table *models.RateTable) error
}
