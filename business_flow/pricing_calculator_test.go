package businessflow

import (
	"testing"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProductPrice(t *testing.T) {
	snapshot := defaultSnapshot()

	t.Run("Stone Ring Combines All Components", func(t *testing.T) {
		product := &models.Product{
			ID:           1,
			Name:         "Solitaire Ring",
			MetalGrade:   "18k",
			MetalWeight:  decimal.RequireFromString("4.5"),
			StoneCut:     "round-brilliant",
			StoneQuality: "VS",
			StoneColor:   "F-G",
			StoneWeight:  decimal.RequireFromString("0.5"),
			MakingCharge: decimal.NewFromInt(2500),
			LabourCharge: decimal.NewFromInt(800),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)
		require.NotNil(t, breakdown)

		// 4.5g x 4800 + 0.5ct x 125000 x 1.4 x 1.0 + 2500 + 800
		assert.True(t, breakdown.MetalCost.Equal(decimal.NewFromInt(21600)), breakdown.MetalCost.String())
		assert.True(t, breakdown.StoneCost.Equal(decimal.NewFromInt(87500)), breakdown.StoneCost.String())
		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(112400)), breakdown.Total.String())
		assert.Equal(t, uint(1), breakdown.ProductID)
	})

	t.Run("Gold Band Without Stone", func(t *testing.T) {
		product := &models.Product{
			Name:         "Gold Band",
			MetalGrade:   "18k",
			MetalWeight:  decimal.NewFromInt(5),
			MakingCharge: decimal.NewFromInt(500),
			LabourCharge: decimal.NewFromInt(200),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(24700)), breakdown.Total.String())
	})

	t.Run("Plain Metal Item Has No Stone Cost", func(t *testing.T) {
		product := &models.Product{
			Name:        "Silver Chain",
			MetalGrade:  "silver",
			MetalWeight: decimal.NewFromInt(20),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		assert.True(t, breakdown.StoneCost.IsZero())
		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(1600)), breakdown.Total.String())
	})

	t.Run("Deterministic For Same Inputs", func(t *testing.T) {
		product := &models.Product{
			MetalGrade:   "22k",
			MetalWeight:  decimal.RequireFromString("3.25"),
			StoneCut:     "marquise",
			StoneQuality: "VVS",
			StoneColor:   "E-F",
			StoneWeight:  decimal.RequireFromString("0.35"),
			MakingCharge: decimal.NewFromInt(1200),
		}

		first, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)
		second, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		assert.True(t, first.Total.Equal(second.Total))
		assert.True(t, first.StoneCost.Equal(second.StoneCost))
	})

	t.Run("Unknown Metal Grade Contributes Zero", func(t *testing.T) {
		product := &models.Product{
			MetalGrade:   "10k",
			MetalWeight:  decimal.NewFromInt(5),
			MakingCharge: decimal.NewFromInt(900),
			LabourCharge: decimal.NewFromInt(100),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		assert.True(t, breakdown.MetalCost.IsZero())
		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(1000)), breakdown.Total.String())
	})

	t.Run("Unknown Stone Cut Contributes Zero", func(t *testing.T) {
		product := &models.Product{
			MetalGrade:   "18k",
			MetalWeight:  decimal.NewFromInt(2),
			StoneCut:     "heart",
			StoneQuality: "VS",
			StoneWeight:  decimal.RequireFromString("0.4"),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		assert.True(t, breakdown.StoneCost.IsZero())
		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(9600)), breakdown.Total.String())
	})

	t.Run("Unknown Quality And Color Fall Back To Neutral Multiplier", func(t *testing.T) {
		product := &models.Product{
			StoneCut:     "baguette",
			StoneQuality: "ungraded",
			StoneColor:   "ungraded",
			StoneWeight:  decimal.RequireFromString("0.2"),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		// 0.2ct x 95000 with both multipliers at 1
		assert.True(t, breakdown.StoneCost.Equal(decimal.NewFromInt(19000)), breakdown.StoneCost.String())
	})

	t.Run("Total Rounds Half Up To Whole Rupees", func(t *testing.T) {
		product := &models.Product{
			MetalGrade:  "silver",
			MetalWeight: decimal.RequireFromString("1.00625"),
		}

		breakdown, err := ComputeProductPrice(product, snapshot)
		require.NoError(t, err)

		// 1.00625g x 80 = 80.5, rounds up
		assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(81)), breakdown.Total.String())
	})

	t.Run("Nil Inputs Rejected", func(t *testing.T) {
		_, err := ComputeProductPrice(nil, snapshot)
		require.Error(t, err)

		_, err = ComputeProductPrice(&models.Product{}, nil)
		require.Error(t, err)
	})

	t.Run("Negative Attribute Rejected", func(t *testing.T) {
		product := &models.Product{
			MetalGrade:   "18k",
			MetalWeight:  decimal.NewFromInt(2),
			MakingCharge: decimal.NewFromInt(-50),
		}

		_, err := ComputeProductPrice(product, snapshot)
		require.Error(t, err)
		assert.True(t, IsInvalidAttribute(err))
	})

	t.Run("Negative Metal Rate Rejected", func(t *testing.T) {
		bad := defaultSnapshot()
		bad.Metal["18k"] = decimal.NewFromInt(-4800)

		product := &models.Product{
			MetalGrade:  "18k",
			MetalWeight: decimal.NewFromInt(1),
		}

		_, err := ComputeProductPrice(product, bad)
		require.Error(t, err)
		assert.True(t, IsInvalidRate(err))
	})

	t.Run("Negative Stone Rate Rejected", func(t *testing.T) {
		bad := defaultSnapshot()
		bad.Stone["princess"] = decimal.NewFromInt(-1)

		product := &models.Product{
			StoneCut:    "princess",
			StoneWeight: decimal.RequireFromString("0.3"),
		}

		_, err := ComputeProductPrice(product, bad)
		require.Error(t, err)
		assert.True(t, IsInvalidRate(err))
	})
}
