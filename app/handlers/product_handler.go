// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	businessflow "github.com/fourcdiamonds/jewelcore/business_flow"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProductHandlerInterface defines the contract for product handlers
type ProductHandlerInterface interface {
	CreateProduct(c fiber.Ctx) error
	UpdateProduct(c fiber.Ctx) error
	GetProduct(c fiber.Ctx) error
	GetProductByBarcode(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
	DeleteProduct(c fiber.Ctx) error
}

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	productFlow businessflow.ProductFlow
	validator   *validator.Validate
}

func (h *ProductHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProductHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewProductHandler creates a new product handler
func NewProductHandler(productFlow businessflow.ProductFlow) *ProductHandler {
	return &ProductHandler{
		productFlow: productFlow,
		validator:   validator.New(),
	}
}

// CreateProduct handles product registration
// @Summary Create Product
// @Description Register a new product and price it from current rates
// @Tags Products
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product registration data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateProductResponse} "Product registered successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid attribute"
// @Failure 409 {object} dto.APIResponse "Barcode already taken"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(c fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.productFlow.CreateProduct(h.createRequestContext(c, "/api/v1/products"), &req, metadata)
	if err != nil {
		if businessflow.IsBarcodeTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Barcode already taken", "BARCODE_TAKEN", nil)
		}
		if businessflow.IsInvalidAttribute(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product attributes are invalid", "INVALID_ATTRIBUTE", err.Error())
		}

		log.Println("Product registration failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product registration failed", "PRODUCT_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Product registered successfully", result)
}

// UpdateProduct handles partial product updates
// @Summary Update Product
// @Description Update product attributes and reprice when pricing inputs change
// @Tags Products
// @Accept json
// @Produce json
// @Param uuid path string true "Product UUID"
// @Param request body dto.UpdateProductRequest true "Product update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProductResponse} "Product updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products/{uuid} [put]
func (h *ProductHandler) UpdateProduct(c fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.productFlow.UpdateProduct(h.createRequestContext(c, "/api/v1/products/:uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidAttribute(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product attributes are invalid", "INVALID_ATTRIBUTE", err.Error())
		}

		log.Println("Product update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product update failed", "PRODUCT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product updated successfully", result)
}

// GetProduct handles product retrieval by UUID
// @Summary Get Product
// @Description Retrieve a product by UUID
// @Tags Products
// @Produce json
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Product retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products/{uuid} [get]
func (h *ProductHandler) GetProduct(c fiber.Ctx) error {
	result, err := h.productFlow.GetProduct(h.createRequestContext(c, "/api/v1/products/:uuid"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}

		log.Println("Product retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product retrieval failed", "PRODUCT_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product retrieved successfully", result)
}

// GetProductByBarcode handles the counter scan path
// @Summary Get Product By Barcode
// @Description Retrieve a product by its barcode
// @Tags Products
// @Produce json
// @Param code path string true "Product barcode"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Product retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products/barcode/{code} [get]
func (h *ProductHandler) GetProductByBarcode(c fiber.Ctx) error {
	result, err := h.productFlow.GetProductByBarcode(h.createRequestContext(c, "/api/v1/products/barcode/:code"), c.Params("code"))
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}

		log.Println("Product retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product retrieval failed", "PRODUCT_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product retrieved successfully", result)
}

// ListProducts handles product listing with filters
// @Summary List Products
// @Description List products with optional category, grade, and status filters
// @Tags Products
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListProductsResponse} "Products retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.productFlow.ListProducts(h.createRequestContext(c, "/api/v1/products"), &req)
	if err != nil {
		log.Println("Product listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product listing failed", "PRODUCT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Products retrieved successfully", result)
}

// DeleteProduct handles product removal
// @Summary Delete Product
// @Description Soft delete a product from the catalog
// @Tags Products
// @Produce json
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse "Product deleted successfully"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/products/{uuid} [delete]
func (h *ProductHandler) DeleteProduct(c fiber.Ctx) error {
	err := h.productFlow.DeleteProduct(h.createRequestContext(c, "/api/v1/products/:uuid"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}

		log.Println("Product deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product deletion failed", "PRODUCT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product deleted successfully", nil)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *ProductHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
