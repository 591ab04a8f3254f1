package dto

// ProductDTO represents a product in responses
type ProductDTO struct {
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category"`
	MetalGrade   string `json:"metal_grade"`
	MetalWeight  string `json:"metal_weight"`
	StoneCut     string `json:"stone_cut,omitempty"`
	StoneQuality string `json:"stone_quality,omitempty"`
	StoneColor   string `json:"stone_color,omitempty"`
	StoneWeight  string `json:"stone_weight"`
	MakingCharge string `json:"making_charge"`
	LabourCharge string `json:"labour_charge"`
	Price        string `json:"price"`
	Status       string `json:"status"`
	Barcode      string `json:"barcode"`
	CreatedAt    string `json:"created_at"`
}

// CreateProductRequest represents the request to register a new product
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category     string `json:"category" validate:"required,min=1,max=100"`
	MetalGrade   string `json:"metal_grade" validate:"required,min=1,max=20"`
	MetalWeight  string `json:"metal_weight" validate:"required"`
	StoneCut     string `json:"stone_cut,omitempty" validate:"omitempty,max=50"`
	StoneQuality string `json:"stone_quality,omitempty" validate:"omitempty,max=20"`
	StoneColor   string `json:"stone_color,omitempty" validate:"omitempty,max=20"`
	StoneWeight  string `json:"stone_weight,omitempty"`
	MakingCharge string `json:"making_charge,omitempty"`
	LabourCharge string `json:"labour_charge,omitempty"`
	Barcode      string `json:"barcode,omitempty" validate:"omitempty,max=64"`
}

// CreateProductResponse represents the response to product registration
type CreateProductResponse struct {
	Message string     `json:"message"`
	Product ProductDTO `json:"product"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	UUID         string  `json:"-"`
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category     *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	MetalGrade   *string `json:"metal_grade,omitempty" validate:"omitempty,min=1,max=20"`
	MetalWeight  *string `json:"metal_weight,omitempty"`
	StoneCut     *string `json:"stone_cut,omitempty" validate:"omitempty,max=50"`
	StoneQuality *string `json:"stone_quality,omitempty" validate:"omitempty,max=20"`
	StoneColor   *string `json:"stone_color,omitempty" validate:"omitempty,max=20"`
	StoneWeight  *string `json:"stone_weight,omitempty"`
	MakingCharge *string `json:"making_charge,omitempty"`
	LabourCharge *string `json:"labour_charge,omitempty"`
}

// UpdateProductResponse represents the response to a product update
type UpdateProductResponse struct {
	Message string     `json:"message"`
	Product ProductDTO `json:"product"`
}

// ListProductsRequest carries product listing filters
type ListProductsRequest struct {
	Category   *string `query:"category"`
	MetalGrade *string `query:"metal_grade"`
	Status     *string `query:"status" validate:"omitempty,oneof=available reserved sold"`
	Page       int     `query:"page"`
	PageSize   int     `query:"page_size"`
}

// ListProductsResponse represents a page of products
type ListProductsResponse struct {
	Items []ProductDTO `json:"items"`
	Total int64        `json:"total"`
}
