package businessflow

import (
	"context"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
)

// CustomerFlow manages the customer book.
type CustomerFlow interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CreateCustomerResponse, error)
	UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.UpdateCustomerResponse, error)
	GetCustomer(ctx context.Context, customerUUID string) (*dto.CustomerDTO, error)
	ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error)
}

// CustomerFlowImpl implements CustomerFlow.
type CustomerFlowImpl struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerFlow creates a new customer flow.
func NewCustomerFlow(customerRepo repository.CustomerRepository) CustomerFlow {
	return &CustomerFlowImpl{customerRepo: customerRepo}
}

// CreateCustomer registers a customer. Mobile numbers are unique.
func (f *CustomerFlowImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CreateCustomerResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	existing, err := f.customerRepo.ByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_READ_FAILED", "failed to check mobile", err)
	}
	if existing != nil {
		return nil, NewBusinessError("MOBILE_ALREADY_EXISTS", "mobile number already registered", ErrMobileAlreadyExists)
	}

	customer := &models.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Mobile:     req.Mobile,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		TaxNumber:  req.TaxNumber,
	}

	if err := f.customerRepo.Save(ctx, customer); err != nil {
		return nil, NewBusinessError("CUSTOMER_WRITE_FAILED", "failed to store customer", err)
	}

	return &dto.CreateCustomerResponse{
		Message:  "Customer registered successfully",
		Customer: ToCustomerDTO(*customer),
	}, nil
}

// UpdateCustomer applies a partial update. The mobile number is immutable;
// a new number means a new customer record.
func (f *CustomerFlowImpl) UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.UpdateCustomerResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	customer, err := f.customerRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_READ_FAILED", "failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "customer not found", ErrCustomerNotFound)
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		customer.State = *req.State
	}
	if req.PostalCode != nil {
		customer.PostalCode = *req.PostalCode
	}
	if req.TaxNumber != nil {
		customer.TaxNumber = *req.TaxNumber
	}

	if err := f.customerRepo.Update(ctx, customer); err != nil {
		return nil, NewBusinessError("CUSTOMER_WRITE_FAILED", "failed to update customer", err)
	}

	return &dto.UpdateCustomerResponse{
		Message:  "Customer updated successfully",
		Customer: ToCustomerDTO(*customer),
	}, nil
}

// GetCustomer returns a customer by UUID
func (f *CustomerFlowImpl) GetCustomer(ctx context.Context, customerUUID string) (*dto.CustomerDTO, error) {
	customer, err := f.customerRepo.ByUUID(ctx, customerUUID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_READ_FAILED", "failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "customer not found", ErrCustomerNotFound)
	}

	out := ToCustomerDTO(*customer)
	return &out, nil
}

// ListCustomers returns a page of customers
func (f *CustomerFlowImpl) ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error) {
	if req == nil {
		req = &dto.ListCustomersRequest{}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.CustomerFilter{City: req.City}

	customers, err := f.customerRepo.ByFilter(ctx, filter, "id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LIST_FAILED", "failed to list customers", err)
	}

	total, err := f.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_COUNT_FAILED", "failed to count customers", err)
	}

	items := make([]dto.CustomerDTO, 0, len(customers))
	for _, customer := range customers {
		items = append(items, ToCustomerDTO(*customer))
	}

	return &dto.ListCustomersResponse{Items: items, Total: total}, nil
}
