package businessflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductTestFlow() (*fakeProductRepo, ProductFlow) {
	rateRepo := newFakeRateTableRepo()
	rateRepo.seedDefaults()
	productRepo := newFakeProductRepo()
	pricingFlow := NewPricingFlow(rateRepo, productRepo, nil, nil)
	return productRepo, NewProductFlow(productRepo, pricingFlow)
}

func ringCreateRequest() *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		Name:         "Solitaire Ring",
		Description:  "18k gold solitaire",
		Category:     "ring",
		MetalGrade:   "18k",
		MetalWeight:  "4.5",
		StoneCut:     "round-brilliant",
		StoneQuality: "VS",
		StoneColor:   "F-G",
		StoneWeight:  "0.5",
		MakingCharge: "2500",
		LabourCharge: "800",
	}
}

func TestProductFlowCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Prices The Product On Registration", func(t *testing.T) {
		productRepo, flow := newProductTestFlow()

		resp, err := flow.CreateProduct(ctx, ringCreateRequest(), testMetadata())
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "112400", resp.Product.Price)
		assert.Equal(t, string(models.ProductStatusAvailable), resp.Product.Status)
		assert.NotEmpty(t, resp.Product.UUID)

		stored, err := productRepo.ByUUID(ctx, resp.Product.UUID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.Price.Equal(decimal.NewFromInt(112400)))
	})

	t.Run("Generates Barcode When Absent", func(t *testing.T) {
		_, flow := newProductTestFlow()

		resp, err := flow.CreateProduct(ctx, ringCreateRequest(), testMetadata())
		require.NoError(t, err)

		assert.Regexp(t, `^`+utils.BarcodePrefix+`\d{9}$`, resp.Product.Barcode)
	})

	t.Run("Keeps Supplied Barcode And Rejects Duplicates", func(t *testing.T) {
		_, flow := newProductTestFlow()

		req := ringCreateRequest()
		req.Barcode = "4CD000000300"
		resp, err := flow.CreateProduct(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "4CD000000300", resp.Product.Barcode)

		_, err = flow.CreateProduct(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsBarcodeTaken(err))
	})

	t.Run("Maps Unique Violation From A Racing Insert", func(t *testing.T) {
		productRepo, flow := newProductTestFlow()

		// A concurrent insert slips past the ByBarcode pre-check and the
		// database unique index rejects the write instead.
		productRepo.saveErr = fmt.Errorf("failed to save entity: %w",
			&pq.Error{Code: "23505", Constraint: "idx_products_barcode"})

		_, err := flow.CreateProduct(ctx, ringCreateRequest(), testMetadata())
		require.Error(t, err)
		assert.True(t, IsBarcodeTaken(err))
	})

	t.Run("Rejects Bad Weights", func(t *testing.T) {
		_, flow := newProductTestFlow()

		req := ringCreateRequest()
		req.MetalWeight = "-1"
		_, err := flow.CreateProduct(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidAttribute(err))

		req = ringCreateRequest()
		req.StoneWeight = "half a carat"
		_, err = flow.CreateProduct(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidAttribute(err))
	})

	t.Run("Blank Optional Amounts Default To Zero", func(t *testing.T) {
		_, flow := newProductTestFlow()

		resp, err := flow.CreateProduct(ctx, &dto.CreateProductRequest{
			Name:        "Silver Chain",
			Category:    "chain",
			MetalGrade:  "silver",
			MetalWeight: "20",
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "1600", resp.Product.Price)
	})
}

func TestProductFlowUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Reprices When A Pricing Attribute Changes", func(t *testing.T) {
		_, flow := newProductTestFlow()

		created, err := flow.CreateProduct(ctx, ringCreateRequest(), testMetadata())
		require.NoError(t, err)

		resp, err := flow.UpdateProduct(ctx, &dto.UpdateProductRequest{
			UUID:        created.Product.UUID,
			MetalWeight: utils.ToPtr("2"),
		}, testMetadata())
		require.NoError(t, err)

		// 2g x 4800 + 87500 + 2500 + 800
		assert.Equal(t, "100400", resp.Product.Price)
	})

	t.Run("Cosmetic Changes Keep The Stored Price", func(t *testing.T) {
		productRepo, flow := newProductTestFlow()

		created, err := flow.CreateProduct(ctx, ringCreateRequest(), testMetadata())
		require.NoError(t, err)

		// Make the stored price stale so a reprice would be visible
		require.NoError(t, productRepo.UpdatePrice(ctx, created.Product.ID, decimal.NewFromInt(99999)))

		resp, err := flow.UpdateProduct(ctx, &dto.UpdateProductRequest{
			UUID: created.Product.UUID,
			Name: utils.ToPtr("Heritage Solitaire Ring"),
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, "Heritage Solitaire Ring", resp.Product.Name)
		assert.Equal(t, "99999", resp.Product.Price)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		_, flow := newProductTestFlow()

		_, err := flow.UpdateProduct(ctx, &dto.UpdateProductRequest{
			UUID: "3f1c0d58-0000-0000-0000-000000000000",
			Name: utils.ToPtr("x"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))
	})
}

func TestProductFlowLookups(t *testing.T) {
	ctx := context.Background()

	productRepo, flow := newProductTestFlow()

	req := ringCreateRequest()
	req.Barcode = "4CD000000400"
	created, err := flow.CreateProduct(ctx, req, testMetadata())
	require.NoError(t, err)

	t.Run("By UUID", func(t *testing.T) {
		product, err := flow.GetProduct(ctx, created.Product.UUID)
		require.NoError(t, err)
		assert.Equal(t, "Solitaire Ring", product.Name)
	})

	t.Run("By Barcode", func(t *testing.T) {
		product, err := flow.GetProductByBarcode(ctx, "4CD000000400")
		require.NoError(t, err)
		assert.Equal(t, created.Product.UUID, product.UUID)
	})

	t.Run("Unknown Barcode", func(t *testing.T) {
		_, err := flow.GetProductByBarcode(ctx, "4CD999999999")
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))
	})

	t.Run("List Filters By Category", func(t *testing.T) {
		_, err := flow.CreateProduct(ctx, &dto.CreateProductRequest{
			Name:        "Silver Chain",
			Category:    "chain",
			MetalGrade:  "silver",
			MetalWeight: "20",
		}, testMetadata())
		require.NoError(t, err)

		category := "chain"
		list, err := flow.ListProducts(ctx, &dto.ListProductsRequest{Category: &category})
		require.NoError(t, err)
		assert.Equal(t, int64(1), list.Total)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Silver Chain", list.Items[0].Name)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, flow.DeleteProduct(ctx, created.Product.UUID))

		stored, err := productRepo.ByUUID(ctx, created.Product.UUID)
		require.NoError(t, err)
		assert.Nil(t, stored)

		err = flow.DeleteProduct(ctx, created.Product.UUID)
		require.Error(t, err)
		assert.True(t, IsProductNotFound(err))
	})
}
