package dto

// RateTableDTO is a single rate kind and its key to rate mapping
type RateTableDTO struct {
	Kind        string            `json:"kind"`
	Rates       map[string]string `json:"rates"`
	LastUpdated string            `json:"last_updated"`
}

// GetRatesResponse returns every rate table currently in effect
type GetRatesResponse struct {
	Tables []RateTableDTO `json:"tables"`
}

// UpdateRatesRequest carries a partial rate update for one kind.
// Keys absent from Rates keep their stored values.
type UpdateRatesRequest struct {
	Kind  string            `json:"kind" validate:"required,oneof=metal stone stone_quality stone_color"`
	Rates map[string]string `json:"rates" validate:"required,min=1"`
}

// UpdateRatesResponse represents the response to a rate update
type UpdateRatesResponse struct {
	Message string       `json:"message"`
	Table   RateTableDTO `json:"table"`
}

// PriceBreakdownDTO itemizes how a product price was derived
type PriceBreakdownDTO struct {
	ProductID    uint   `json:"product_id"`
	MetalCost    string `json:"metal_cost"`
	StoneCost    string `json:"stone_cost"`
	MakingCharge string `json:"making_charge"`
	LabourCharge string `json:"labour_charge"`
	Total        string `json:"total"`
}

// ComputePriceRequest asks for a price quote for a single product
type ComputePriceRequest struct {
	ProductUUID string `json:"product_uuid" validate:"required,uuid"`
}

// ComputePriceResponse represents the response to a price computation
type ComputePriceResponse struct {
	Breakdown PriceBreakdownDTO `json:"breakdown"`
}

// RecalculateAllResponse summarizes a bulk repricing run
type RecalculateAllResponse struct {
	Message     string   `json:"message"`
	Scanned     int      `json:"scanned"`
	Updated     int      `json:"updated"`
	UpdatedSKUs []string `json:"updated_skus,omitempty"`
	Failed      int      `json:"failed"`
	FailedSKUs  []string `json:"failed_skus,omitempty"`
	DurationMs  int64    `json:"duration_ms"`
	CompletedAt string   `json:"completed_at"`
}
