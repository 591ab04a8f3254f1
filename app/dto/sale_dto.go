package dto

// CartLineDTO represents a line in the working cart
type CartLineDTO struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// CartDTO represents the working cart with running totals
type CartDTO struct {
	SessionID  string        `json:"session_id"`
	Lines      []CartLineDTO `json:"lines"`
	Subtotal   string        `json:"subtotal"`
	TaxRate    string        `json:"tax_rate"`
	TaxAmount  string        `json:"tax_amount"`
	GrandTotal string        `json:"grand_total"`
}

// AddCartLineRequest adds a product to the cart or bumps its quantity
type AddCartLineRequest struct {
	SessionID   string `json:"-"`
	ProductUUID string `json:"product_uuid" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1"`
}

// SetCartQuantityRequest sets the quantity of a cart line.
// A quantity of zero or below removes the line.
type SetCartQuantityRequest struct {
	SessionID string `json:"-"`
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CartResponse represents the cart after a mutation
type CartResponse struct {
	Message string  `json:"message"`
	Cart    CartDTO `json:"cart"`
}

// SaleItemDTO represents a settled sale line
type SaleItemDTO struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// SaleDTO represents a settled sale in responses
type SaleDTO struct {
	ID                uint          `json:"id"`
	UUID              string        `json:"uuid"`
	InvoiceNumber     string        `json:"invoice_number"`
	CustomerID        uint          `json:"customer_id"`
	Subtotal          string        `json:"subtotal"`
	TaxRate           string        `json:"tax_rate"`
	TaxAmount         string        `json:"tax_amount"`
	GrandTotal        string        `json:"grand_total"`
	Currency          string        `json:"currency"`
	PaymentMethod     string        `json:"payment_method"`
	Status            string        `json:"status"`
	InventoryWarnings []string      `json:"inventory_warnings,omitempty"`
	SaleDate          string        `json:"sale_date"`
	Items             []SaleItemDTO `json:"items"`
}

// CommitSaleRequest finalizes the cart into a persisted sale
type CommitSaleRequest struct {
	SessionID     string `json:"-"`
	CustomerUUID  string `json:"customer_uuid" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card upi bank_transfer"`
}

// CommitSaleResponse represents the response to sale settlement
type CommitSaleResponse struct {
	Message string  `json:"message"`
	Sale    SaleDTO `json:"sale"`
}

// ListSalesRequest carries sale listing filters
type ListSalesRequest struct {
	CustomerID *uint   `query:"customer_id"`
	Status     *string `query:"status" validate:"omitempty,oneof=draft validated committed inventory_updated invoiced rejected"`
	Page       int     `query:"page"`
	PageSize   int     `query:"page_size"`
}

// ListSalesResponse represents a page of sales
type ListSalesResponse struct {
	Items []SaleDTO `json:"items"`
	Total int64     `json:"total"`
}

// InvoiceDTO represents a frozen invoice snapshot
type InvoiceDTO struct {
	ID            uint   `json:"id"`
	UUID          string `json:"uuid"`
	SaleID        uint   `json:"sale_id"`
	InvoiceNumber string `json:"invoice_number"`
	Customer      any    `json:"customer"`
	Seller        any    `json:"seller"`
	Lines         any    `json:"lines"`
	Subtotal      string `json:"subtotal"`
	TaxAmount     string `json:"tax_amount"`
	GrandTotal    string `json:"grand_total"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`
}

// GetInvoiceResponse represents the response to an invoice lookup
type GetInvoiceResponse struct {
	Invoice InvoiceDTO `json:"invoice"`
}
