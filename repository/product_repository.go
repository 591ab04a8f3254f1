// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByUUID retrieves a product by its UUID
func (r *ProductRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Product, error) {
	db := r.getDB(ctx)

	var product models.Product
	err := db.Where("uuid = ?", uuidStr).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by UUID: %w", err)
	}

	return &product, nil
}

// ByBarcode retrieves a product by its barcode
func (r *ProductRepositoryImpl) ByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	filter := models.ProductFilter{Barcode: &barcode}
	products, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by barcode: %w", err)
	}

	if len(products) == 0 {
		return nil, nil
	}

	return products[0], nil
}

// ListAll retrieves every product that has not been soft deleted
func (r *ProductRepositoryImpl) ListAll(ctx context.Context) ([]*models.Product, error) {
	db := r.getDB(ctx)

	var products []*models.Product
	err := db.Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Update persists the full product record
func (r *ProductRepositoryImpl) Update(ctx context.Context, product *models.Product) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	product.UpdatedAt = utils.UTCNow()
	err = db.Save(product).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// UpdatePrice sets only the stored price of a product
func (r *ProductRepositoryImpl) UpdatePrice(ctx context.Context, productID uint, price decimal.Decimal) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"price":      price,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d not found", productID)
	}

	return nil
}

// UpdateStatus transitions the product lifecycle status
func (r *ProductRepositoryImpl) UpdateStatus(ctx context.Context, productID uint, status models.ProductStatus, soldAt *time.Time) error {
	db := r.getDB(ctx)

	updates := map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	}
	if soldAt != nil {
		updates["last_sold_at"] = *soldAt
	}

	result := db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update product status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d not found", productID)
	}

	return nil
}

// Delete soft deletes a product
func (r *ProductRepositoryImpl) Delete(ctx context.Context, productID uint) error {
	db := r.getDB(ctx)

	result := db.Delete(&models.Product{}, productID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d not found", productID)
	}

	return nil
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	var products []*models.Product

	query := db.Model(&models.Product{})
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

	err := query.Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Product{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.MetalGrade != nil {
		query = query.Where("metal_grade = ?", *filter.MetalGrade)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Barcode != nil {
		query = query.Where("barcode = ?", *filter.Barcode)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
