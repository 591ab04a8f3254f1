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

// PricingHandlerInterface defines the contract for pricing handlers
type PricingHandlerInterface interface {
	GetRates(c fiber.Ctx) error
	UpdateRates(c fiber.Ctx) error
	ComputePrice(c fiber.Ctx) error
	RecalculateAll(c fiber.Ctx) error
}

// PricingHandler handles rate and pricing HTTP requests
type PricingHandler struct {
	pricingFlow businessflow.PricingFlow
	validator   *validator.Validate
}

func (h *PricingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PricingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingFlow businessflow.PricingFlow) *PricingHandler {
	return &PricingHandler{
		pricingFlow: pricingFlow,
		validator:   validator.New(),
	}
}

// GetRates handles rate table retrieval
// @Summary Get Rates
// @Description Retrieve every rate table currently in effect
// @Tags Pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.GetRatesResponse} "Rates retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/rates [get]
func (h *PricingHandler) GetRates(c fiber.Ctx) error {
	result, err := h.pricingFlow.GetRates(h.createRequestContext(c, "/api/v1/pricing/rates"))
	if err != nil {
		log.Println("Rate retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Rate retrieval failed", "RATE_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rates retrieved successfully", result)
}

// UpdateRates handles partial rate table updates
// @Summary Update Rates
// @Description Merge new rates into the stored table for a rate kind
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.UpdateRatesRequest true "Rate update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateRatesResponse} "Rates updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid rate"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/rates [put]
func (h *PricingHandler) UpdateRates(c fiber.Ctx) error {
	var req dto.UpdateRatesRequest
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

	result, err := h.pricingFlow.UpdateRates(h.createRequestContext(c, "/api/v1/pricing/rates"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidRate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate value", "INVALID_RATE", err.Error())
		}

		log.Println("Rate update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Rate update failed", "RATE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rates updated successfully", result)
}

// ComputePrice handles single-product price computation
// @Summary Compute Price
// @Description Compute the itemized price of a product against current rates
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.ComputePriceRequest true "Price computation data"
// @Success 200 {object} dto.APIResponse{data=dto.ComputePriceResponse} "Price computed successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid attribute"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/compute [post]
func (h *PricingHandler) ComputePrice(c fiber.Ctx) error {
	var req dto.ComputePriceRequest
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

	result, err := h.pricingFlow.ComputePrice(h.createRequestContext(c, "/api/v1/pricing/compute"), &req)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidAttribute(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product attributes are invalid for pricing", "INVALID_ATTRIBUTE", err.Error())
		}

		log.Println("Price computation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price computation failed", "PRICE_COMPUTATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price computed successfully", result)
}

// RecalculateAll handles bulk price recalculation
// @Summary Recalculate All Prices
// @Description Reprice every product against the current rate snapshot
// @Tags Pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecalculateAllResponse} "Recalculation completed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/recalculate [post]
func (h *PricingHandler) RecalculateAll(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Bulk runs over a large catalog can take a while
	ctx := h.createRequestContextWithTimeout(c, "/api/v1/pricing/recalculate", 5*time.Minute)
	result, err := h.pricingFlow.RecalculateAll(ctx, metadata)
	if err != nil {
		log.Println("Recalculation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Recalculation failed", "RECALCULATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Recalculation completed", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *PricingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *PricingHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
