package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateKind identifies one of the commodity rate tables.
type RateKind string

const (
	RateKindMetal        RateKind = "metal"         // per-gram metal rates keyed by grade ("18k", "silver")
	RateKindStone        RateKind = "stone"         // per-carat base stone rates keyed by cut ("round-brilliant")
	RateKindStoneQuality RateKind = "stone_quality" // multipliers keyed by clarity grade ("VS", "IF")
	RateKindStoneColor   RateKind = "stone_color"   // multipliers keyed by color grade ("F-G")
)

// RateTable stores one complete rate table as a single document.
// Partial updates merge into Rates; the full map is rewritten atomically and
// LastUpdated is stamped on every successful write.
// Table: rate_tables
type RateTable struct {
	ID          uint                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind        RateKind                   `gorm:"type:varchar(20);not null;uniqueIndex:uk_rate_tables_kind" json:"kind"`
	Rates       map[string]decimal.Decimal `gorm:"type:jsonb;serializer:json;not null;default:'{}'" json:"rates"`
	LastUpdated time.Time                  `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"last_updated"`
	CreatedAt   time.Time                  `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time                  `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (RateTable) TableName() string {
	return "rate_tables"
}

// RateTableFilter represents filter criteria for rate table queries
type RateTableFilter struct {
	ID   *uint     `json:"id,omitempty"`
	Kind *RateKind `json:"kind,omitempty"`
}

// DefaultRates returns the seed table for a rate kind. Values mirror the
// store's long-standing price list and are only used when no table has been
// persisted yet.
func DefaultRates(kind RateKind) map[string]decimal.Decimal {
	switch kind {
	case RateKindMetal:
		return map[string]decimal.Decimal{
			"14k":    decimal.NewFromInt(4200),
			"18k":    decimal.NewFromInt(4800),
			"22k":    decimal.NewFromInt(5200),
			"24k":    decimal.NewFromInt(5600),
			"silver": decimal.NewFromInt(80),
		}
	case RateKindStone:
		return map[string]decimal.Decimal{
			"round-brilliant": decimal.NewFromInt(125000),
			"marquise":        decimal.NewFromInt(108000),
			"princess":        decimal.NewFromInt(110000),
			"baguette":        decimal.NewFromInt(95000),
		}
	case RateKindStoneQuality:
		return map[string]decimal.Decimal{
			"SI":     decimal.NewFromFloat(1.0),
			"VS-SI":  decimal.NewFromFloat(1.2),
			"VS":     decimal.NewFromFloat(1.4),
			"VS-VVS": decimal.NewFromFloat(1.6),
			"VVS":    decimal.NewFromFloat(1.8),
			"IF":     decimal.NewFromFloat(2.2),
		}
	case RateKindStoneColor:
		return map[string]decimal.Decimal{
			"F-G": decimal.NewFromFloat(1.0),
			"G-H": decimal.NewFromFloat(0.9),
			"E-F": decimal.NewFromFloat(1.3),
		}
	}
	return map[string]decimal.Decimal{}
}

// AllRateKinds lists every rate table kind in seed order.
func AllRateKinds() []RateKind {
	return []RateKind{RateKindMetal, RateKindStone, RateKindStoneQuality, RateKindStoneColor}
}
