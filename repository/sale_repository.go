// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SaleRepositoryImpl implements SaleRepository interface
type SaleRepositoryImpl struct {
	*BaseRepository[models.Sale, models.SaleFilter]
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &SaleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Sale, models.SaleFilter](db),
	}
}

// ByUUID retrieves a sale with its items by UUID
func (r *SaleRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Sale, error) {
	db := r.getDB(ctx)

	var sale models.Sale
	err := db.Where("uuid = ?", uuidStr).
		Preload("Items").
		Preload("Invoice").
		First(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sale by UUID: %w", err)
	}

	return &sale, nil
}

// ByInvoiceNumber retrieves a sale by its invoice number
func (r *SaleRepositoryImpl) ByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Sale, error) {
	db := r.getDB(ctx)

	var sale models.Sale
	err := db.Where("invoice_number = ?", invoiceNumber).
		Preload("Items").
		First(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sale by invoice number: %w", err)
	}

	return &sale, nil
}

// CreateWithItems persists the sale header and its line items together.
// Callers run this inside WithTransaction so the rows land atomically.
func (r *SaleRepositoryImpl) CreateWithItems(ctx context.Context, sale *models.Sale, items []models.SaleItem) error {
	db := r.getDB(ctx)

	if err := db.Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	for i := range items {
		items[i].SaleID = sale.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}
	}
	sale.Items = items

	return nil
}

// ItemsBySale retrieves the line items of a sale
func (r *SaleRepositoryImpl) ItemsBySale(ctx context.Context, saleID uint) ([]*models.SaleItem, error) {
	db := r.getDB(ctx)

	var items []*models.SaleItem
	err := db.Where("sale_id = ?", saleID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}

	return items, nil
}

// UpdateStatus advances the sale through its lifecycle
func (r *SaleRepositoryImpl) UpdateStatus(ctx context.Context, saleID uint, status models.SaleStatus) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Sale{}).
		Where("id = ?", saleID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update sale status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("sale %d not found", saleID)
	}

	return nil
}

// AppendInventoryWarnings records stock update failures on the sale row
func (r *SaleRepositoryImpl) AppendInventoryWarnings(ctx context.Context, saleID uint, warnings []string) error {
	if len(warnings) == 0 {
		return nil
	}

	db := r.getDB(ctx)

	var sale models.Sale
	if err := db.Select("id", "inventory_warnings").First(&sale, saleID).Error; err != nil {
		return fmt.Errorf("failed to load sale %d: %w", saleID, err)
	}

	merged := append(sale.InventoryWarnings, warnings...)
	result := db.Model(&models.Sale{}).
		Where("id = ?", saleID).
		Updates(map[string]any{
			"inventory_warnings": pq.StringArray(merged),
			"updated_at":         utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to append inventory warnings: %w", result.Error)
	}

	return nil
}

// ListBetween retrieves sales whose sale date falls in [from, to)
func (r *SaleRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	db := r.getDB(ctx)

	var sales []*models.Sale
	err := db.Where("sale_date >= ? AND sale_date < ?", from, to).
		Order("sale_date ASC").
		Preload("Items").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales between dates: %w", err)
	}

	return sales, nil
}

// ByFilter retrieves sales based on filter criteria
func (r *SaleRepositoryImpl) ByFilter(ctx context.Context, filter models.SaleFilter, orderBy string, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	var sales []*models.Sale

	query := db.Model(&models.Sale{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Preload("Items").Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// Count returns the number of sales matching the filter
func (r *SaleRepositoryImpl) Count(ctx context.Context, filter models.SaleFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Sale{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepositoryImpl) applyFilter(query *gorm.DB, filter models.SaleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.InvoiceNumber != nil {
		query = query.Where("invoice_number = ?", *filter.InvoiceNumber)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SoldAfter != nil {
		query = query.Where("sale_date >= ?", *filter.SoldAfter)
	}
	if filter.SoldBefore != nil {
		query = query.Where("sale_date < ?", *filter.SoldBefore)
	}
	return query
}
