package businessflow

import (
	"context"
	"testing"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerTestFlow() (*fakeCustomerRepo, CustomerFlow) {
	customerRepo := newFakeCustomerRepo()
	return customerRepo, NewCustomerFlow(customerRepo)
}

func customerCreateRequest() *dto.CreateCustomerRequest {
	return &dto.CreateCustomerRequest{
		FirstName: "Priya",
		LastName:  "Sharma",
		Mobile:    "+919812345678",
		Email:     "priya.sharma@example.com",
		City:      "Mumbai",
		State:     "Maharashtra",
	}
}

func TestCustomerFlowCreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Registers A Customer", func(t *testing.T) {
		customerRepo, flow := newCustomerTestFlow()

		resp, err := flow.CreateCustomer(ctx, customerCreateRequest(), testMetadata())
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "Priya", resp.Customer.FirstName)
		assert.NotEmpty(t, resp.Customer.UUID)

		stored, err := customerRepo.ByMobile(ctx, "+919812345678")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Sharma", stored.LastName)
	})

	t.Run("Rejects Duplicate Mobile", func(t *testing.T) {
		_, flow := newCustomerTestFlow()

		_, err := flow.CreateCustomer(ctx, customerCreateRequest(), testMetadata())
		require.NoError(t, err)

		req := customerCreateRequest()
		req.FirstName = "Another"
		_, err = flow.CreateCustomer(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsMobileAlreadyExists(err))
	})
}

func TestCustomerFlowUpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Partial Updates", func(t *testing.T) {
		_, flow := newCustomerTestFlow()

		created, err := flow.CreateCustomer(ctx, customerCreateRequest(), testMetadata())
		require.NoError(t, err)

		resp, err := flow.UpdateCustomer(ctx, &dto.UpdateCustomerRequest{
			UUID: created.Customer.UUID,
			City: utils.ToPtr("Pune"),
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, "Pune", resp.Customer.City)
		assert.Equal(t, "Priya", resp.Customer.FirstName, "untouched fields keep their values")
		assert.Equal(t, "+919812345678", resp.Customer.Mobile, "mobile is immutable")
	})

	t.Run("Unknown Customer", func(t *testing.T) {
		_, flow := newCustomerTestFlow()

		_, err := flow.UpdateCustomer(ctx, &dto.UpdateCustomerRequest{
			UUID: "3f1c0d58-0000-0000-0000-000000000000",
			City: utils.ToPtr("Pune"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsCustomerNotFound(err))
	})
}

func TestCustomerFlowLookups(t *testing.T) {
	ctx := context.Background()

	_, flow := newCustomerTestFlow()

	created, err := flow.CreateCustomer(ctx, customerCreateRequest(), testMetadata())
	require.NoError(t, err)

	second := customerCreateRequest()
	second.FirstName = "Rahul"
	second.Mobile = "+919876543210"
	second.City = "Delhi"
	_, err = flow.CreateCustomer(ctx, second, testMetadata())
	require.NoError(t, err)

	t.Run("Get Customer", func(t *testing.T) {
		customer, err := flow.GetCustomer(ctx, created.Customer.UUID)
		require.NoError(t, err)
		assert.Equal(t, "Priya", customer.FirstName)
	})

	t.Run("Unknown Customer", func(t *testing.T) {
		_, err := flow.GetCustomer(ctx, "3f1c0d58-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, IsCustomerNotFound(err))
	})

	t.Run("List Filters By City", func(t *testing.T) {
		list, err := flow.ListCustomers(ctx, &dto.ListCustomersRequest{City: utils.ToPtr("Delhi")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), list.Total)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Rahul", list.Items[0].FirstName)
	})

	t.Run("List All", func(t *testing.T) {
		list, err := flow.ListCustomers(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)
	})
}
