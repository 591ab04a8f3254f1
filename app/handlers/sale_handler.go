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

// SaleHandlerInterface defines the contract for cart and sale handlers
type SaleHandlerInterface interface {
	AddCartLine(c fiber.Ctx) error
	SetCartQuantity(c fiber.Ctx) error
	GetCart(c fiber.Ctx) error
	ClearCart(c fiber.Ctx) error
	CommitSale(c fiber.Ctx) error
	GetSale(c fiber.Ctx) error
	ListSales(c fiber.Ctx) error
	GetInvoice(c fiber.Ctx) error
	RebuildInvoice(c fiber.Ctx) error
}

// SaleHandler handles cart and sale HTTP requests
type SaleHandler struct {
	cartFlow    businessflow.CartFlow
	saleFlow    businessflow.SaleFlow
	invoiceFlow businessflow.InvoiceFlow
	validator   *validator.Validate
}

func (h *SaleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SaleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(cartFlow businessflow.CartFlow, saleFlow businessflow.SaleFlow, invoiceFlow businessflow.InvoiceFlow) *SaleHandler {
	return &SaleHandler{
		cartFlow:    cartFlow,
		saleFlow:    saleFlow,
		invoiceFlow: invoiceFlow,
		validator:   validator.New(),
	}
}

// sessionID resolves the cart session for the request. The terminal sends a
// stable X-Session-ID header; requests without one share the default counter
// session.
func (h *SaleHandler) sessionID(c fiber.Ctx) string {
	if sid := c.Get("X-Session-ID"); sid != "" {
		return sid
	}
	return "counter"
}

// AddCartLine handles adding a product to the cart
// @Summary Add Cart Line
// @Description Add a product to the working cart, bumping quantity when already present
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body dto.AddCartLineRequest true "Cart line data"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Product added to cart"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 409 {object} dto.APIResponse "Product not available"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart/lines [post]
func (h *SaleHandler) AddCartLine(c fiber.Ctx) error {
	var req dto.AddCartLineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SessionID = h.sessionID(c)

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.cartFlow.AddLine(h.createRequestContext(c, "/api/v1/cart/lines"), &req)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		if businessflow.IsProductNotAvailable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Product is not available for sale", "PRODUCT_NOT_AVAILABLE", nil)
		}

		log.Println("Cart update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Cart update failed", "CART_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product added to cart", result)
}

// SetCartQuantity handles quantity changes and line removal
// @Summary Set Cart Quantity
// @Description Set the quantity of a cart line; zero or below removes the line
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body dto.SetCartQuantityRequest true "Quantity data"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart updated"
// @Failure 404 {object} dto.APIResponse "Product not in cart"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart/lines [put]
func (h *SaleHandler) SetCartQuantity(c fiber.Ctx) error {
	var req dto.SetCartQuantityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SessionID = h.sessionID(c)

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.cartFlow.SetQuantity(h.createRequestContext(c, "/api/v1/cart/lines"), &req)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product is not in the cart", "PRODUCT_NOT_FOUND", nil)
		}

		log.Println("Cart update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Cart update failed", "CART_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cart updated", result)
}

// GetCart handles cart retrieval
// @Summary Get Cart
// @Description Retrieve the working cart with running totals
// @Tags Sales
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart [get]
func (h *SaleHandler) GetCart(c fiber.Ctx) error {
	result, err := h.cartFlow.GetCart(h.createRequestContext(c, "/api/v1/cart"), h.sessionID(c))
	if err != nil {
		log.Println("Cart retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Cart retrieval failed", "CART_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cart retrieved", result)
}

// ClearCart handles abandoning the cart
// @Summary Clear Cart
// @Description Drop every line from the working cart
// @Tags Sales
// @Produce json
// @Success 200 {object} dto.APIResponse "Cart cleared"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart [delete]
func (h *SaleHandler) ClearCart(c fiber.Ctx) error {
	if err := h.cartFlow.ClearCart(h.createRequestContext(c, "/api/v1/cart"), h.sessionID(c)); err != nil {
		log.Println("Cart clear failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Cart clear failed", "CART_CLEAR_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cart cleared", nil)
}

// CommitSale handles sale settlement
// @Summary Commit Sale
// @Description Settle the working cart into a sale, update stock, and generate the invoice
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body dto.CommitSaleRequest true "Settlement data"
// @Success 201 {object} dto.APIResponse{data=dto.CommitSaleResponse} "Sale committed successfully"
// @Failure 400 {object} dto.APIResponse "Incomplete sale"
// @Failure 409 {object} dto.APIResponse "Product no longer available"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales [post]
func (h *SaleHandler) CommitSale(c fiber.Ctx) error {
	var req dto.CommitSaleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SessionID = h.sessionID(c)

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.saleFlow.CommitSale(h.createRequestContext(c, "/api/v1/sales"), &req, metadata)
	if err != nil {
		if businessflow.IsIncompleteSale(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Sale is incomplete", "INCOMPLETE_SALE", err.Error())
		}
		if businessflow.IsProductNotAvailable(err) || businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "A cart product is no longer available", "PRODUCT_NOT_AVAILABLE", err.Error())
		}

		log.Println("Sale settlement failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Sale settlement failed", "SALE_COMMIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Sale committed successfully", result)
}

// GetSale handles sale retrieval by UUID
// @Summary Get Sale
// @Description Retrieve a settled sale with its items
// @Tags Sales
// @Produce json
// @Param uuid path string true "Sale UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO} "Sale retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales/{uuid} [get]
func (h *SaleHandler) GetSale(c fiber.Ctx) error {
	result, err := h.saleFlow.GetSale(h.createRequestContext(c, "/api/v1/sales/:uuid"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}

		log.Println("Sale retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Sale retrieval failed", "SALE_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sale retrieved successfully", result)
}

// ListSales handles sale listing
// @Summary List Sales
// @Description List settled sales, newest first
// @Tags Sales
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListSalesResponse} "Sales retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales [get]
func (h *SaleHandler) ListSales(c fiber.Ctx) error {
	var req dto.ListSalesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.saleFlow.ListSales(h.createRequestContext(c, "/api/v1/sales"), &req)
	if err != nil {
		log.Println("Sale listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Sale listing failed", "SALE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sales retrieved successfully", result)
}

// GetInvoice handles invoice retrieval for a sale
// @Summary Get Invoice
// @Description Retrieve the frozen invoice snapshot of a sale
// @Tags Sales
// @Produce json
// @Param uuid path string true "Sale UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetInvoiceResponse} "Invoice retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales/{uuid}/invoice [get]
func (h *SaleHandler) GetInvoice(c fiber.Ctx) error {
	result, err := h.invoiceFlow.GetInvoice(h.createRequestContext(c, "/api/v1/sales/:uuid/invoice"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}
		if businessflow.IsInvoiceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}

		log.Println("Invoice retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Invoice retrieval failed", "INVOICE_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Invoice retrieved successfully", result)
}

// RebuildInvoice regenerates a missing invoice for a committed sale
// @Summary Rebuild Invoice
// @Description Regenerate the invoice snapshot for a sale whose invoice step failed
// @Tags Sales
// @Produce json
// @Param uuid path string true "Sale UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetInvoiceResponse} "Invoice rebuilt successfully"
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales/{uuid}/invoice [post]
func (h *SaleHandler) RebuildInvoice(c fiber.Ctx) error {
	result, err := h.saleFlow.RebuildInvoice(h.createRequestContext(c, "/api/v1/sales/:uuid/invoice"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}

		log.Println("Invoice rebuild failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Invoice rebuild failed", "INVOICE_REBUILD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Invoice rebuilt successfully", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *SaleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
