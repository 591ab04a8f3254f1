package businessflow

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/shopspring/decimal"
)

// ProductFlow manages the product catalog.
type ProductFlow interface {
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.CreateProductResponse, error)
	UpdateProduct(ctx context.Context, req *dto.UpdateProductRequest, metadata *ClientMetadata) (*dto.UpdateProductResponse, error)
	GetProduct(ctx context.Context, productUUID string) (*dto.ProductDTO, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*dto.ProductDTO, error)
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	DeleteProduct(ctx context.Context, productUUID string) error
}

// ProductFlowImpl implements ProductFlow.
type ProductFlowImpl struct {
	productRepo repository.ProductRepository
	pricingFlow PricingFlow
}

// NewProductFlow creates a new product flow.
func NewProductFlow(productRepo repository.ProductRepository, pricingFlow PricingFlow) ProductFlow {
	return &ProductFlowImpl{
		productRepo: productRepo,
		pricingFlow: pricingFlow,
	}
}

func parseWeight(raw, field string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, NewBusinessErrorf("INVALID_ATTRIBUTE", "%s is not a number", ErrInvalidAttribute, field)
	}
	if d.IsNegative() {
		return decimal.Zero, NewBusinessErrorf("INVALID_ATTRIBUTE", "%s cannot be negative", ErrInvalidAttribute, field)
	}
	return d, nil
}

// CreateProduct registers a product and prices it from the current rates.
// A barcode is generated when the request does not supply one.
func (f *ProductFlowImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.CreateProductResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	metalWeight, err := parseWeight(req.MetalWeight, "metal weight")
	if err != nil {
		return nil, err
	}
	stoneWeight, err := parseWeight(req.StoneWeight, "stone weight")
	if err != nil {
		return nil, err
	}
	makingCharge, err := parseWeight(req.MakingCharge, "making charge")
	if err != nil {
		return nil, err
	}
	labourCharge, err := parseWeight(req.LabourCharge, "labour charge")
	if err != nil {
		return nil, err
	}

	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		barcode = f.generateBarcode()
	}

	existing, err := f.productRepo.ByBarcode(ctx, barcode)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to check barcode", err)
	}
	if existing != nil {
		return nil, NewBusinessError("BARCODE_TAKEN", "barcode already assigned to another product", ErrBarcodeTaken)
	}

	product := &models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		MetalGrade:   req.MetalGrade,
		MetalWeight:  metalWeight,
		StoneCut:     req.StoneCut,
		StoneQuality: req.StoneQuality,
		StoneColor:   req.StoneColor,
		StoneWeight:  stoneWeight,
		MakingCharge: makingCharge,
		LabourCharge: labourCharge,
		Status:       models.ProductStatusAvailable,
		Barcode:      barcode,
	}

	snapshot, err := f.pricingFlow.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := ComputeProductPrice(product, snapshot)
	if err != nil {
		return nil, err
	}
	product.Price = breakdown.Total

	if err := f.productRepo.Save(ctx, product); err != nil {
		// The ByBarcode pre-check does not hold a lock, so a concurrent
		// insert can still trip the unique index.
		if repository.IsDuplicateKey(err) {
			return nil, NewBusinessError("BARCODE_TAKEN", "barcode already assigned to another product", ErrBarcodeTaken)
		}
		return nil, NewBusinessError("PRODUCT_WRITE_FAILED", "failed to store product", err)
	}

	return &dto.CreateProductResponse{
		Message: "Product registered successfully",
		Product: ToProductDTO(*product),
	}, nil
}

// UpdateProduct applies a partial update and reprices the product when any
// pricing attribute changed.
func (f *ProductFlowImpl) UpdateProduct(ctx context.Context, req *dto.UpdateProductRequest, metadata *ClientMetadata) (*dto.UpdateProductResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	product, err := f.productRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}

	repriceNeeded := false

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.MetalGrade != nil {
		product.MetalGrade = *req.MetalGrade
		repriceNeeded = true
	}
	if req.MetalWeight != nil {
		w, err := parseWeight(*req.MetalWeight, "metal weight")
		if err != nil {
			return nil, err
		}
		product.MetalWeight = w
		repriceNeeded = true
	}
	if req.StoneCut != nil {
		product.StoneCut = *req.StoneCut
		repriceNeeded = true
	}
	if req.StoneQuality != nil {
		product.StoneQuality = *req.StoneQuality
		repriceNeeded = true
	}
	if req.StoneColor != nil {
		product.StoneColor = *req.StoneColor
		repriceNeeded = true
	}
	if req.StoneWeight != nil {
		w, err := parseWeight(*req.StoneWeight, "stone weight")
		if err != nil {
			return nil, err
		}
		product.StoneWeight = w
		repriceNeeded = true
	}
	if req.MakingCharge != nil {
		c, err := parseWeight(*req.MakingCharge, "making charge")
		if err != nil {
			return nil, err
		}
		product.MakingCharge = c
		repriceNeeded = true
	}
	if req.LabourCharge != nil {
		c, err := parseWeight(*req.LabourCharge, "labour charge")
		if err != nil {
			return nil, err
		}
		product.LabourCharge = c
		repriceNeeded = true
	}

	if repriceNeeded {
		snapshot, err := f.pricingFlow.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		breakdown, err := ComputeProductPrice(product, snapshot)
		if err != nil {
			return nil, err
		}
		product.Price = breakdown.Total
	}

	if err := f.productRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_WRITE_FAILED", "failed to update product", err)
	}

	return &dto.UpdateProductResponse{
		Message: "Product updated successfully",
		Product: ToProductDTO(*product),
	}, nil
}

// GetProduct returns a product by UUID
func (f *ProductFlowImpl) GetProduct(ctx context.Context, productUUID string) (*dto.ProductDTO, error) {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}

	out := ToProductDTO(*product)
	return &out, nil
}

// GetProductByBarcode returns a product by its barcode, the counter scan path
func (f *ProductFlowImpl) GetProductByBarcode(ctx context.Context, barcode string) (*dto.ProductDTO, error) {
	product, err := f.productRepo.ByBarcode(ctx, barcode)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}

	out := ToProductDTO(*product)
	return &out, nil
}

// ListProducts returns a page of products
func (f *ProductFlowImpl) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	if req == nil {
		req = &dto.ListProductsRequest{}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.ProductFilter{
		Category:   req.Category,
		MetalGrade: req.MetalGrade,
	}
	if req.Status != nil {
		status := models.ProductStatus(*req.Status)
		filter.Status = &status
	}

	products, err := f.productRepo.ByFilter(ctx, filter, "id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "failed to list products", err)
	}

	total, err := f.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_COUNT_FAILED", "failed to count products", err)
	}

	items := make([]dto.ProductDTO, 0, len(products))
	for _, product := range products {
		items = append(items, ToProductDTO(*product))
	}

	return &dto.ListProductsResponse{Items: items, Total: total}, nil
}

// DeleteProduct soft deletes a product
func (f *ProductFlowImpl) DeleteProduct(ctx context.Context, productUUID string) error {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}

	if err := f.productRepo.Delete(ctx, product.ID); err != nil {
		return NewBusinessError("PRODUCT_WRITE_FAILED", "failed to delete product", err)
	}
	return nil
}

func (f *ProductFlowImpl) generateBarcode() string {
	return fmt.Sprintf("%s%0*d", utils.BarcodePrefix, utils.BarcodeSuffixDigits, rand.Intn(1_000_000_000))
}
