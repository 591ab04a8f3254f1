package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/config"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PricingFlow defines rate management and price computation operations.
type PricingFlow interface {
	GetRates(ctx context.Context) (*dto.GetRatesResponse, error)
	UpdateRates(ctx context.Context, req *dto.UpdateRatesRequest, metadata *ClientMetadata) (*dto.UpdateRatesResponse, error)
	ComputePrice(ctx context.Context, req *dto.ComputePriceRequest) (*dto.ComputePriceResponse, error)
	RecalculateAll(ctx context.Context, metadata *ClientMetadata) (*dto.RecalculateAllResponse, error)
	Snapshot(ctx context.Context) (*RateSnapshot, error)
}

// PricingFlowImpl implements PricingFlow.
type PricingFlowImpl struct {
	rateRepo    repository.RateTableRepository
	productRepo repository.ProductRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

// NewPricingFlow creates a new pricing flow.
func NewPricingFlow(
	rateRepo repository.RateTableRepository,
	productRepo repository.ProductRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) PricingFlow {
	return &PricingFlowImpl{
		rateRepo:    rateRepo,
		productRepo: productRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// Snapshot loads every rate table into one immutable view. The snapshot is
// served from redis when available and rebuilt from the database otherwise.
func (f *PricingFlowImpl) Snapshot(ctx context.Context) (*RateSnapshot, error) {
	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		cacheKey := redisKey(*f.cacheConfig, utils.RateSnapshotCacheKey)
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var snapshot RateSnapshot
			if err := json.Unmarshal(bs, &snapshot); err == nil {
				return &snapshot, nil
			}
		}
	}

	snapshot := &RateSnapshot{TakenAt: utils.UTCNow()}
	for _, kind := range models.AllRateKinds() {
		table, err := f.rateRepo.ByKind(ctx, kind)
		if err != nil {
			return nil, NewBusinessError("RATE_TABLE_READ_FAILED", "failed to load rate table", err)
		}

		rates := models.DefaultRates(kind)
		if table != nil {
			rates = table.Rates
		}

		switch kind {
		case models.RateKindMetal:
			snapshot.Metal = rates
		case models.RateKindStone:
			snapshot.Stone = rates
		case models.RateKindStoneQuality:
			snapshot.StoneQuality = rates
		case models.RateKindStoneColor:
			snapshot.StoneColor = rates
		}
	}

	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		cacheKey := redisKey(*f.cacheConfig, utils.RateSnapshotCacheKey)
		if bs, err := json.Marshal(snapshot); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheConfig.DefaultTTL).Err()
		}
	}

	return snapshot, nil
}

// GetRates returns every stored rate table
func (f *PricingFlowImpl) GetRates(ctx context.Context) (*dto.GetRatesResponse, error) {
	tables := make([]dto.RateTableDTO, 0, len(models.AllRateKinds()))
	for _, kind := range models.AllRateKinds() {
		table, err := f.rateRepo.ByKind(ctx, kind)
		if err != nil {
			return nil, NewBusinessError("RATE_TABLE_READ_FAILED", "failed to load rate table", err)
		}

		rates := models.DefaultRates(kind)
		lastUpdated := time.Time{}
		if table != nil {
			rates = table.Rates
			lastUpdated = table.LastUpdated
		}

		out := make(map[string]string, len(rates))
		for key, rate := range rates {
			out[key] = rate.String()
		}
		tables = append(tables, dto.RateTableDTO{
			Kind:        string(kind),
			Rates:       out,
			LastUpdated: lastUpdated.Format(time.RFC3339),
		})
	}

	return &dto.GetRatesResponse{Tables: tables}, nil
}

// UpdateRates merges the submitted keys into the stored table for a kind.
// Keys not present in the request keep their current values. Every rate must
// parse as a non-negative decimal or the whole update is rejected.
func (f *PricingFlowImpl) UpdateRates(ctx context.Context, req *dto.UpdateRatesRequest, metadata *ClientMetadata) (*dto.UpdateRatesResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	kind := models.RateKind(req.Kind)
	valid := false
	for _, known := range models.AllRateKinds() {
		if kind == known {
			valid = true
			break
		}
	}
	if !valid {
		return nil, NewBusinessError("UNKNOWN_RATE_KIND", fmt.Sprintf("rate kind %q is not recognized", req.Kind), ErrUnknownRateKind)
	}

	incoming := make(map[string]decimal.Decimal, len(req.Rates))
	for key, raw := range req.Rates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, NewBusinessErrorf("INVALID_RATE", "rate for %q is not a number", ErrInvalidRate, key)
		}
		if rate.IsNegative() {
			return nil, NewBusinessErrorf("INVALID_RATE", "rate for %q is negative", ErrInvalidRate, key)
		}
		incoming[key] = rate
	}

	table, err := f.rateRepo.ByKind(ctx, kind)
	if err != nil {
		return nil, NewBusinessError("RATE_TABLE_READ_FAILED", "failed to load rate table", err)
	}
	if table == nil {
		table = &models.RateTable{
			Kind:  kind,
			Rates: models.DefaultRates(kind),
		}
	}

	for key, rate := range incoming {
		table.Rates[key] = rate
	}

	if err := f.rateRepo.Upsert(ctx, table); err != nil {
		return nil, NewBusinessError("RATE_TABLE_WRITE_FAILED", "failed to store rate table", err)
	}

	f.invalidateSnapshot(ctx)

	out := make(map[string]string, len(table.Rates))
	for key, rate := range table.Rates {
		out[key] = rate.String()
	}

	return &dto.UpdateRatesResponse{
		Message: "Rates updated successfully",
		Table: dto.RateTableDTO{
			Kind:        string(kind),
			Rates:       out,
			LastUpdated: table.LastUpdated.Format(time.RFC3339),
		},
	}, nil
}

// ComputePrice prices a single product against the current snapshot
func (f *PricingFlowImpl) ComputePrice(ctx context.Context, req *dto.ComputePriceRequest) (*dto.ComputePriceResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	product, err := f.productRepo.ByUUID(ctx, req.ProductUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}

	snapshot, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := ComputeProductPrice(product, snapshot)
	if err != nil {
		return nil, err
	}

	return &dto.ComputePriceResponse{
		Breakdown: dto.PriceBreakdownDTO{
			ProductID:    breakdown.ProductID,
			MetalCost:    breakdown.MetalCost.String(),
			StoneCost:    breakdown.StoneCost.String(),
			MakingCharge: breakdown.MakingCharge.String(),
			LabourCharge: breakdown.LabourCharge.String(),
			Total:        breakdown.Total.String(),
		},
	}, nil
}

// RecalculateAll reprices every product against a single snapshot. Products
// whose stored price already matches the recomputed total are untouched, so
// running the operation twice in a row updates nothing on the second pass.
// Individual failures are recorded and do not stop the run.
func (f *PricingFlowImpl) RecalculateAll(ctx context.Context, metadata *ClientMetadata) (*dto.RecalculateAllResponse, error) {
	started := utils.UTCNow()

	snapshot, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	products, err := f.productRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "failed to list products", err)
	}

	updated := 0
	failed := 0
	var updatedSKUs []string
	var failedSKUs []string
	for _, product := range products {
		// Only priced inventory participates: items without a metal
		// component were never valued from the rate tables.
		if product.MetalGrade == "" || !product.MetalWeight.IsPositive() {
			continue
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		if err != nil {
			failed++
			failedSKUs = append(failedSKUs, product.Barcode)
			log.Printf("recalculate: skipping product %d (%s): %v", product.ID, product.Barcode, err)
			continue
		}

		if product.Price.Equal(breakdown.Total) {
			continue
		}

		if err := f.productRepo.UpdatePrice(ctx, product.ID, breakdown.Total); err != nil {
			failed++
			failedSKUs = append(failedSKUs, product.Barcode)
			log.Printf("recalculate: failed to store price for product %d: %v", product.ID, err)
			continue
		}
		updated++
		updatedSKUs = append(updatedSKUs, product.Barcode)
		recalcUpdatesTotal.Inc()
	}

	completed := utils.UTCNow()
	return &dto.RecalculateAllResponse{
		Message:     "Recalculation completed",
		Scanned:     len(products),
		Updated:     updated,
		UpdatedSKUs: updatedSKUs,
		Failed:      failed,
		FailedSKUs:  failedSKUs,
		DurationMs:  completed.Sub(started).Milliseconds(),
		CompletedAt: completed.Format(time.RFC3339),
	}, nil
}

func (f *PricingFlowImpl) invalidateSnapshot(ctx context.Context) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return
	}
	cacheKey := redisKey(*f.cacheConfig, utils.RateSnapshotCacheKey)
	_ = f.rc.Del(ctx, cacheKey).Err()
}
