package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartTestFlow() (*fakeProductRepo, CartFlow) {
	productRepo := newFakeProductRepo()
	flow := NewCartFlow(productRepo, decimal.RequireFromString("0.03"))
	return productRepo, flow
}

func addCartProduct(repo *fakeProductRepo, name, barcode string, price int64) *models.Product {
	return repo.add(&models.Product{
		Name:    name,
		Barcode: barcode,
		Price:   decimal.NewFromInt(price),
		Status:  models.ProductStatusAvailable,
	})
}

func TestCartFlowAddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds A New Line With Frozen Unit Price", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		ring := addCartProduct(productRepo, "Solitaire Ring", "4CD000000010", 112400)

		resp, err := flow.AddLine(ctx, &dto.AddCartLineRequest{
			SessionID:   "session-1",
			ProductUUID: ring.UUID.String(),
			Quantity:    1,
		})
		require.NoError(t, err)
		require.Len(t, resp.Cart.Lines, 1)
		assert.Equal(t, "112400", resp.Cart.Lines[0].UnitPrice)

		// A later price change must not touch the open cart line
		require.NoError(t, productRepo.UpdatePrice(ctx, ring.ID, decimal.NewFromInt(999999)))
		got, err := flow.GetCart(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "112400", got.Cart.Lines[0].UnitPrice)
	})

	t.Run("Adding The Same Product Bumps Quantity", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		ring := addCartProduct(productRepo, "Solitaire Ring", "4CD000000011", 112400)

		_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: ring.UUID.String(), Quantity: 1})
		require.NoError(t, err)
		resp, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: ring.UUID.String(), Quantity: 2})
		require.NoError(t, err)

		require.Len(t, resp.Cart.Lines, 1)
		assert.Equal(t, 3, resp.Cart.Lines[0].Quantity)
	})

	t.Run("Defaults Quantity To One", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		chain := addCartProduct(productRepo, "Silver Chain", "4CD000000012", 1600)

		resp, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String()})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Cart.Lines[0].Quantity)
	})

	t.Run("Rejects Unknown Or Unavailable Products", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		sold := productRepo.add(&models.Product{
			Name:    "Sold Ring",
			Barcode: "4CD000000013",
			Price:   decimal.NewFromInt(90000),
			Status:  models.ProductStatusSold,
		})

		_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: "3f1c0d58-0000-0000-0000-000000000000"})
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))

		_, err = flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: sold.UUID.String()})
		require.Error(t, err)
		assert.True(t, IsProductNotAvailable(err))
	})
}

func TestCartFlowSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates Quantity", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		chain := addCartProduct(productRepo, "Silver Chain", "4CD000000020", 1600)

		_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String()})
		require.NoError(t, err)

		resp, err := flow.SetQuantity(ctx, &dto.SetCartQuantityRequest{SessionID: "session-1", ProductID: chain.ID, Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Cart.Lines[0].Quantity)
	})

	t.Run("Zero Or Negative Quantity Removes The Line", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		chain := addCartProduct(productRepo, "Silver Chain", "4CD000000021", 1600)

		_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String()})
		require.NoError(t, err)

		resp, err := flow.SetQuantity(ctx, &dto.SetCartQuantityRequest{SessionID: "session-1", ProductID: chain.ID, Quantity: 0})
		require.NoError(t, err)
		assert.Empty(t, resp.Cart.Lines)
	})

	t.Run("Missing Line", func(t *testing.T) {
		_, flow := newCartTestFlow()

		_, err := flow.SetQuantity(ctx, &dto.SetCartQuantityRequest{SessionID: "session-1", ProductID: 42, Quantity: 1})
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))
	})
}

func TestCartFlowTotals(t *testing.T) {
	ctx := context.Background()

	productRepo, flow := newCartTestFlow()
	ring := addCartProduct(productRepo, "Solitaire Ring", "4CD000000030", 112400)
	chain := addCartProduct(productRepo, "Silver Chain", "4CD000000031", 1600)

	_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: ring.UUID.String(), Quantity: 1})
	require.NoError(t, err)
	resp, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String(), Quantity: 2})
	require.NoError(t, err)

	// 112400 + 2 x 1600 = 115600; 3% tax rounds to 3468
	assert.Equal(t, "115600", resp.Cart.Subtotal)
	assert.Equal(t, "3468", resp.Cart.TaxAmount)
	assert.Equal(t, "119068", resp.Cart.GrandTotal)
	assert.Equal(t, "0.03", resp.Cart.TaxRate)
}

func TestCartFlowSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Cart Cannot Be Snapshotted", func(t *testing.T) {
		_, flow := newCartTestFlow()

		_, err := flow.Snapshot(ctx, "session-1")
		require.Error(t, err)
		assert.True(t, IsCartEmpty(err))
		assert.True(t, errors.Is(err, ErrCartEmpty))
	})

	t.Run("Snapshot Is A Deep Copy", func(t *testing.T) {
		productRepo, flow := newCartTestFlow()
		chain := addCartProduct(productRepo, "Silver Chain", "4CD000000040", 1600)

		_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String(), Quantity: 2})
		require.NoError(t, err)

		snapshot, err := flow.Snapshot(ctx, "session-1")
		require.NoError(t, err)
		require.Len(t, snapshot.Lines, 1)

		snapshot.Lines[0].Quantity = 99

		got, err := flow.GetCart(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Cart.Lines[0].Quantity)
	})
}

func TestCartFlowClearCart(t *testing.T) {
	ctx := context.Background()

	productRepo, flow := newCartTestFlow()
	chain := addCartProduct(productRepo, "Silver Chain", "4CD000000050", 1600)

	_, err := flow.AddLine(ctx, &dto.AddCartLineRequest{SessionID: "session-1", ProductUUID: chain.UUID.String()})
	require.NoError(t, err)

	require.NoError(t, flow.ClearCart(ctx, "session-1"))

	got, err := flow.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, got.Cart.Lines)
	assert.Equal(t, "0", got.Cart.Subtotal)
}
