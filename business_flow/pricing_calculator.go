package businessflow

import (
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
)

// RateSnapshot is an immutable view of every rate table, taken at a single
// point in time so one pricing run never mixes old and new rates.
type RateSnapshot struct {
	Metal        map[string]decimal.Decimal `json:"metal"`
	Stone        map[string]decimal.Decimal `json:"stone"`
	StoneQuality map[string]decimal.Decimal `json:"stone_quality"`
	StoneColor   map[string]decimal.Decimal `json:"stone_color"`
	TakenAt      time.Time                  `json:"taken_at"`
}

// Table returns the map backing a rate kind
func (s *RateSnapshot) Table(kind models.RateKind) map[string]decimal.Decimal {
	switch kind {
	case models.RateKindMetal:
		return s.Metal
	case models.RateKindStone:
		return s.Stone
	case models.RateKindStoneQuality:
		return s.StoneQuality
	case models.RateKindStoneColor:
		return s.StoneColor
	}
	return nil
}

// PriceBreakdown itemizes the components of a computed product price.
// Total is rounded to the nearest rupee; the components are kept exact.
type PriceBreakdown struct {
	ProductID    uint
	MetalCost    decimal.Decimal
	StoneCost    decimal.Decimal
	MakingCharge decimal.Decimal
	LabourCharge decimal.Decimal
	Total        decimal.Decimal
}

var multiplierOne = decimal.NewFromInt(1)

// ComputeProductPrice derives a product price from its attributes and the
// given snapshot. The function is deterministic: the same product and
// snapshot always produce the same breakdown.
//
// Unknown metal grades and stone cuts contribute zero cost. Unknown quality
// and color grades fall back to a neutral multiplier of 1, so a product with
// an unrecognized grading still gets priced from its base stone rate.
func ComputeProductPrice(product *models.Product, snapshot *RateSnapshot) (*PriceBreakdown, error) {
	if product == nil || snapshot == nil {
		return nil, NewBusinessError("PRICING_INPUT_NIL", "product and rate snapshot are required", nil)
	}

	if product.MetalWeight.IsNegative() || product.StoneWeight.IsNegative() ||
		product.MakingCharge.IsNegative() || product.LabourCharge.IsNegative() {
		return nil, NewBusinessError("PRICING_INVALID_ATTRIBUTE", "product has negative weight or charge", ErrInvalidAttribute)
	}

	metalCost := decimal.Zero
	if rate, ok := snapshot.Metal[product.MetalGrade]; ok {
		if rate.IsNegative() {
			return nil, NewBusinessError("PRICING_INVALID_RATE", "metal rate is negative", ErrInvalidRate)
		}
		metalCost = product.MetalWeight.Mul(rate)
	}

	stoneCost := decimal.Zero
	if product.HasStone() {
		base := decimal.Zero
		if rate, ok := snapshot.Stone[product.StoneCut]; ok {
			if rate.IsNegative() {
				return nil, NewBusinessError("PRICING_INVALID_RATE", "stone rate is negative", ErrInvalidRate)
			}
			base = rate
		}

		quality := multiplierOne
		if m, ok := snapshot.StoneQuality[product.StoneQuality]; ok {
			quality = m
		}
		color := multiplierOne
		if m, ok := snapshot.StoneColor[product.StoneColor]; ok {
			color = m
		}

		stoneCost = product.StoneWeight.Mul(base).Mul(quality).Mul(color)
	}

	total := metalCost.Add(stoneCost).Add(product.MakingCharge).Add(product.LabourCharge)

	return &PriceBreakdown{
		ProductID:    product.ID,
		MetalCost:    metalCost,
		StoneCost:    stoneCost,
		MakingCharge: product.MakingCharge,
		LabourCharge: product.LabourCharge,
		Total:        total.Round(0),
	}, nil
}
