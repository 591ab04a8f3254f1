// Package businessflow contains the core business logic and use cases for pricing and sale workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Rate-related errors
	ErrInvalidRate      = errors.New("rate must be a non-negative number")
	ErrUnknownRateKind  = errors.New("unknown rate kind")
	ErrRateTableMissing = errors.New("rate table not found")

	// Pricing errors
	ErrInvalidAttribute = errors.New("product attribute is invalid for pricing")

	// Product-related errors
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product is not available for sale")
	ErrBarcodeTaken        = errors.New("barcode already assigned to another product")

	// Customer-related errors
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrMobileAlreadyExists = errors.New("mobile number already exists")

	// Cart errors
	ErrCartEmpty       = errors.New("cart has no lines")
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// Sale errors
	ErrIncompleteSale      = errors.New("sale is missing customer, items, or payment details")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrSaleAlreadySettled  = errors.New("sale has already been settled")
	ErrInvoiceNumberTaken  = errors.New("invoice number already in use")
	ErrPaymentMethodNeeded = errors.New("payment method is required")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("invoice not found")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsInvalidRate(err error) bool {
	return errors.Is(err, ErrInvalidRate)
}

func IsInvalidAttribute(err error) bool {
	return errors.Is(err, ErrInvalidAttribute)
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsProductNotAvailable(err error) bool {
	return errors.Is(err, ErrProductNotAvailable)
}

func IsBarcodeTaken(err error) bool {
	return errors.Is(err, ErrBarcodeTaken)
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsMobileAlreadyExists(err error) bool {
	return errors.Is(err, ErrMobileAlreadyExists)
}

func IsCartEmpty(err error) bool {
	return errors.Is(err, ErrCartEmpty)
}

func IsIncompleteSale(err error) bool {
	return errors.Is(err, ErrIncompleteSale)
}

func IsSaleNotFound(err error) bool {
	return errors.Is(err, ErrSaleNotFound)
}

func IsInvoiceNotFound(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}
