package dto

// APIResponse is the envelope every storefront endpoint replies with.
// Data carries the operation payload on success; Error carries an
// ErrorDetail when the request was rejected.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail surfaces a business error code (e.g. BARCODE_TAKEN,
// CART_EMPTY) alongside optional field-level validation details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
