package dto

// SalesSummaryRequest asks for sale aggregates over a date window
type SalesSummaryRequest struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"required,datetime=2006-01-02"`
}

// SalesSummaryResponse represents sale aggregates for the window
type SalesSummaryResponse struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	SaleCount  int    `json:"sale_count"`
	ItemCount  int    `json:"item_count"`
	Subtotal   string `json:"subtotal"`
	TaxAmount  string `json:"tax_amount"`
	GrandTotal string `json:"grand_total"`
}

// ExportSalesRequest asks for a spreadsheet export of sales in a date window
type ExportSalesRequest struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"required,datetime=2006-01-02"`
}

// ExportSalesResponse carries the generated spreadsheet
type ExportSalesResponse struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}
