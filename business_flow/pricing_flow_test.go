package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingTestFlow() (*fakeRateTableRepo, *fakeProductRepo, PricingFlow) {
	rateRepo := newFakeRateTableRepo()
	productRepo := newFakeProductRepo()
	flow := NewPricingFlow(rateRepo, productRepo, nil, nil)
	return rateRepo, productRepo, flow
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("127.0.0.1", "jewelcore-tests")
}

func TestPricingFlowSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Falls Back To Defaults When No Tables Stored", func(t *testing.T) {
		_, _, flow := newPricingTestFlow()

		snapshot, err := flow.Snapshot(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)

		assert.True(t, snapshot.Metal["18k"].Equal(decimal.NewFromInt(4800)))
		assert.True(t, snapshot.Stone["round-brilliant"].Equal(decimal.NewFromInt(125000)))
		assert.True(t, snapshot.StoneQuality["IF"].Equal(decimal.RequireFromString("2.2")))
		assert.True(t, snapshot.StoneColor["G-H"].Equal(decimal.RequireFromString("0.9")))
		assert.False(t, snapshot.TakenAt.IsZero())
	})

	t.Run("Reflects Stored Tables", func(t *testing.T) {
		rateRepo, _, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		require.NoError(t, rateRepo.Upsert(ctx, &models.RateTable{
			Kind:  models.RateKindMetal,
			Rates: map[string]decimal.Decimal{"18k": decimal.NewFromInt(5100)},
		}))

		snapshot, err := flow.Snapshot(ctx)
		require.NoError(t, err)

		assert.True(t, snapshot.Metal["18k"].Equal(decimal.NewFromInt(5100)))
	})
}

func TestPricingFlowUpdateRates(t *testing.T) {
	ctx := context.Background()

	t.Run("Merges Submitted Keys And Keeps The Rest", func(t *testing.T) {
		rateRepo, _, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		resp, err := flow.UpdateRates(ctx, &dto.UpdateRatesRequest{
			Kind:  "metal",
			Rates: map[string]string{"18k": "5000"},
		}, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, resp)

		table, err := rateRepo.ByKind(ctx, models.RateKindMetal)
		require.NoError(t, err)
		require.NotNil(t, table)
		assert.True(t, table.Rates["18k"].Equal(decimal.NewFromInt(5000)))
		assert.True(t, table.Rates["14k"].Equal(decimal.NewFromInt(4200)), "untouched key must keep its value")
		assert.False(t, table.LastUpdated.IsZero())
	})

	t.Run("Seeds Defaults For A Kind Never Stored", func(t *testing.T) {
		rateRepo, _, flow := newPricingTestFlow()

		_, err := flow.UpdateRates(ctx, &dto.UpdateRatesRequest{
			Kind:  "stone",
			Rates: map[string]string{"round-brilliant": "130000"},
		}, testMetadata())
		require.NoError(t, err)

		table, err := rateRepo.ByKind(ctx, models.RateKindStone)
		require.NoError(t, err)
		require.NotNil(t, table)
		assert.True(t, table.Rates["round-brilliant"].Equal(decimal.NewFromInt(130000)))
		assert.True(t, table.Rates["marquise"].Equal(decimal.NewFromInt(108000)))
	})

	t.Run("Rejects Unknown Kind", func(t *testing.T) {
		_, _, flow := newPricingTestFlow()

		_, err := flow.UpdateRates(ctx, &dto.UpdateRatesRequest{
			Kind:  "plastic",
			Rates: map[string]string{"x": "1"},
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownRateKind))
	})

	t.Run("Rejects Negative And Non Numeric Rates", func(t *testing.T) {
		rateRepo, _, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		_, err := flow.UpdateRates(ctx, &dto.UpdateRatesRequest{
			Kind:  "metal",
			Rates: map[string]string{"18k": "-5"},
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidRate(err))

		_, err = flow.UpdateRates(ctx, &dto.UpdateRatesRequest{
			Kind:  "metal",
			Rates: map[string]string{"18k": "not-a-number"},
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidRate(err))

		// The whole update was rejected, nothing was written
		table, err := rateRepo.ByKind(ctx, models.RateKindMetal)
		require.NoError(t, err)
		assert.True(t, table.Rates["18k"].Equal(decimal.NewFromInt(4800)))
	})
}

func TestPricingFlowComputePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("Prices A Stored Product", func(t *testing.T) {
		_, productRepo, flow := newPricingTestFlow()
		product := productRepo.add(&models.Product{
			Name:         "Solitaire Ring",
			MetalGrade:   "18k",
			MetalWeight:  decimal.RequireFromString("4.5"),
			StoneCut:     "round-brilliant",
			StoneQuality: "VS",
			StoneColor:   "F-G",
			StoneWeight:  decimal.RequireFromString("0.5"),
			MakingCharge: decimal.NewFromInt(2500),
			LabourCharge: decimal.NewFromInt(800),
			Status:       models.ProductStatusAvailable,
		})

		resp, err := flow.ComputePrice(ctx, &dto.ComputePriceRequest{ProductUUID: product.UUID.String()})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "112400", resp.Breakdown.Total)
		assert.Equal(t, "21600", resp.Breakdown.MetalCost)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		_, _, flow := newPricingTestFlow()

		_, err := flow.ComputePrice(ctx, &dto.ComputePriceRequest{ProductUUID: "3f1c0d58-0000-0000-0000-000000000000"})
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))
	})
}

func TestPricingFlowRecalculateAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates Stale Prices Then Becomes Idempotent", func(t *testing.T) {
		rateRepo, productRepo, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		ring := productRepo.add(&models.Product{
			Name:         "Solitaire Ring",
			Barcode:      "4CD000000001",
			MetalGrade:   "18k",
			MetalWeight:  decimal.RequireFromString("4.5"),
			StoneCut:     "round-brilliant",
			StoneQuality: "VS",
			StoneColor:   "F-G",
			StoneWeight:  decimal.RequireFromString("0.5"),
			MakingCharge: decimal.NewFromInt(2500),
			LabourCharge: decimal.NewFromInt(800),
			Price:        decimal.NewFromInt(50000),
			Status:       models.ProductStatusAvailable,
		})
		chain := productRepo.add(&models.Product{
			Name:        "Silver Chain",
			Barcode:     "4CD000000002",
			MetalGrade:  "silver",
			MetalWeight: decimal.NewFromInt(20),
			Price:       decimal.NewFromInt(1700),
			Status:      models.ProductStatusAvailable,
		})

		resp, err := flow.RecalculateAll(ctx, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Scanned)
		assert.Equal(t, 2, resp.Updated)
		assert.ElementsMatch(t, []string{"4CD000000001", "4CD000000002"}, resp.UpdatedSKUs)
		assert.Equal(t, 0, resp.Failed)

		stored, err := productRepo.ByID(ctx, ring.ID)
		require.NoError(t, err)
		assert.True(t, stored.Price.Equal(decimal.NewFromInt(112400)), stored.Price.String())

		stored, err = productRepo.ByID(ctx, chain.ID)
		require.NoError(t, err)
		assert.True(t, stored.Price.Equal(decimal.NewFromInt(1600)), stored.Price.String())

		// Second pass finds every price already current
		resp, err = flow.RecalculateAll(ctx, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Scanned)
		assert.Equal(t, 0, resp.Updated)
		assert.Empty(t, resp.UpdatedSKUs)
	})

	t.Run("Skips Items Without A Metal Component", func(t *testing.T) {
		rateRepo, productRepo, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		loose := productRepo.add(&models.Product{
			Name:        "Loose Stone",
			Barcode:     "4CD000000004",
			StoneCut:    "round-brilliant",
			StoneWeight: decimal.RequireFromString("0.5"),
			Price:       decimal.NewFromInt(1),
			Status:      models.ProductStatusAvailable,
		})

		resp, err := flow.RecalculateAll(ctx, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Scanned)
		assert.Equal(t, 0, resp.Updated)

		stored, err := productRepo.ByID(ctx, loose.ID)
		require.NoError(t, err)
		assert.True(t, stored.Price.Equal(decimal.NewFromInt(1)), "unvalued item keeps its price")
	})

	t.Run("Records Failures Without Stopping The Run", func(t *testing.T) {
		rateRepo, productRepo, flow := newPricingTestFlow()
		rateRepo.seedDefaults()

		productRepo.add(&models.Product{
			Name:         "Broken Item",
			Barcode:      "4CD000000666",
			MetalGrade:   "18k",
			MetalWeight:  decimal.NewFromInt(1),
			MakingCharge: decimal.NewFromInt(-100),
			Status:       models.ProductStatusAvailable,
		})
		good := productRepo.add(&models.Product{
			Name:        "Silver Chain",
			Barcode:     "4CD000000003",
			MetalGrade:  "silver",
			MetalWeight: decimal.NewFromInt(20),
			Price:       decimal.NewFromInt(1),
			Status:      models.ProductStatusAvailable,
		})

		resp, err := flow.RecalculateAll(ctx, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Scanned)
		assert.Equal(t, 1, resp.Updated)
		assert.Equal(t, 1, resp.Failed)
		assert.Equal(t, []string{"4CD000000003"}, resp.UpdatedSKUs)
		assert.Contains(t, resp.FailedSKUs, "4CD000000666")

		stored, err := productRepo.ByID(ctx, good.ID)
		require.NoError(t, err)
		assert.True(t, stored.Price.Equal(decimal.NewFromInt(1600)))
	})
}
