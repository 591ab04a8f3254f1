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

// CustomerHandlerInterface defines the contract for customer handlers
type CustomerHandlerInterface interface {
	CreateCustomer(c fiber.Ctx) error
	UpdateCustomer(c fiber.Ctx) error
	GetCustomer(c fiber.Ctx) error
	ListCustomers(c fiber.Ctx) error
}

// CustomerHandler handles customer book HTTP requests
type CustomerHandler struct {
	customerFlow businessflow.CustomerFlow
	validator    *validator.Validate
}

func (h *CustomerHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CustomerHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerFlow businessflow.CustomerFlow) *CustomerHandler {
	return &CustomerHandler{
		customerFlow: customerFlow,
		validator:    validator.New(),
	}
}

// CreateCustomer handles customer registration
// @Summary Create Customer
// @Description Register a new customer in the customer book
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer registration data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCustomerResponse} "Customer registered successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Mobile already registered"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers [post]
func (h *CustomerHandler) CreateCustomer(c fiber.Ctx) error {
	var req dto.CreateCustomerRequest
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

	result, err := h.customerFlow.CreateCustomer(h.createRequestContext(c, "/api/v1/customers"), &req, metadata)
	if err != nil {
		if businessflow.IsMobileAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Mobile number already registered", "MOBILE_ALREADY_EXISTS", nil)
		}

		log.Println("Customer registration failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Customer registration failed", "CUSTOMER_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Customer registered successfully", result)
}

// UpdateCustomer handles partial customer updates
// @Summary Update Customer
// @Description Update customer contact details
// @Tags Customers
// @Accept json
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Param request body dto.UpdateCustomerRequest true "Customer update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateCustomerResponse} "Customer updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{uuid} [put]
func (h *CustomerHandler) UpdateCustomer(c fiber.Ctx) error {
	var req dto.UpdateCustomerRequest
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

	result, err := h.customerFlow.UpdateCustomer(h.createRequestContext(c, "/api/v1/customers/:uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}

		log.Println("Customer update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Customer update failed", "CUSTOMER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customer updated successfully", result)
}

// GetCustomer handles customer retrieval by UUID
// @Summary Get Customer
// @Description Retrieve a customer by UUID
// @Tags Customers
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerDTO} "Customer retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{uuid} [get]
func (h *CustomerHandler) GetCustomer(c fiber.Ctx) error {
	result, err := h.customerFlow.GetCustomer(h.createRequestContext(c, "/api/v1/customers/:uuid"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}

		log.Println("Customer retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Customer retrieval failed", "CUSTOMER_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customer retrieved successfully", result)
}

// ListCustomers handles customer listing
// @Summary List Customers
// @Description List customers with optional city filter
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListCustomersResponse} "Customers retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) ListCustomers(c fiber.Ctx) error {
	var req dto.ListCustomersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.customerFlow.ListCustomers(h.createRequestContext(c, "/api/v1/customers"), &req)
	if err != nil {
		log.Println("Customer listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Customer listing failed", "CUSTOMER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customers retrieved successfully", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *CustomerHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
