package dto

// CustomerDTO represents a customer in responses
type CustomerDTO struct {
	ID         uint   `json:"id"`
	UUID       string `json:"uuid"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	TaxNumber  string `json:"tax_number,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// CreateCustomerRequest represents the request to register a new customer
type CreateCustomerRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"required,min=1,max=100"`
	Mobile     string `json:"mobile" validate:"required,min=7,max=20"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	TaxNumber  string `json:"tax_number,omitempty" validate:"omitempty,max=30"`
}

// CreateCustomerResponse represents the response to customer registration
type CreateCustomerResponse struct {
	Message  string      `json:"message"`
	Customer CustomerDTO `json:"customer"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	UUID       string  `json:"-"`
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	TaxNumber  *string `json:"tax_number,omitempty" validate:"omitempty,max=30"`
}

// UpdateCustomerResponse represents the response to a customer update
type UpdateCustomerResponse struct {
	Message  string      `json:"message"`
	Customer CustomerDTO `json:"customer"`
}

// ListCustomersRequest carries customer listing filters
type ListCustomersRequest struct {
	City     *string `query:"city"`
	Page     int     `query:"page"`
	PageSize int     `query:"page_size"`
}

// ListCustomersResponse represents a page of customers
type ListCustomersResponse struct {
	Items []CustomerDTO `json:"items"`
	Total int64         `json:"total"`
}
