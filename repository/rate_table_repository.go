// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateTableRepositoryImpl implements RateTableRepository interface
type RateTableRepositoryImpl struct {
	*BaseRepository[models.RateTable, models.RateTableFilter]
}

// NewRateTableRepository creates a new rate table repository
func NewRateTableRepository(db *gorm.DB) RateTableRepository {
	return &RateTableRepositoryImpl{
		BaseRepository: NewBaseRepository[models.RateTable, models.RateTableFilter](db),
	}
}

// ByKind retrieves the rate document for a kind
func (r *RateTableRepositoryImpl) ByKind(ctx context.Context, kind models.RateKind) (*models.RateTable, error) {
	db := r.getDB(ctx)

	var table models.RateTable
	err := db.Where("kind = ?", kind).First(&table).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find rate table for kind %s: %w", kind, err)
	}

	return &table, nil
}

// Upsert writes the rate document for a kind, replacing any existing row
func (r *RateTableRepositoryImpl) Upsert(ctx context.Context, table *models.RateTable) error {
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

	table.LastUpdated = utils.UTCNow()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"rates", "last_updated", "updated_at"}),
	}).Create(table).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rate table: %w", err)
	}

	return nil
}

// ByFilter retrieves rate tables based on filter criteria
func (r *RateTableRepositoryImpl) ByFilter(ctx context.Context, filter models.RateTableFilter, orderBy string, limit, offset int) ([]*models.RateTable, error) {
	db := r.getDB(ctx)
	var tables []*models.RateTable

	query := db.Model(&models.RateTable{})
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

	err := query.Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// Count returns the number of rate tables matching the filter
func (r *RateTableRepositoryImpl) Count(ctx context.Context, filter models.RateTableFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.RateTable{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RateTableRepositoryImpl) applyFilter(query *gorm.DB, filter models.RateTableFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	return query
}
