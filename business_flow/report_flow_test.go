package businessflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedReportSale(t *testing.T, repo *fakeSaleRepo, saleDate time.Time, grandTotal int64, quantity int) *models.Sale {
	t.Helper()

	subtotal := decimal.NewFromInt(grandTotal - grandTotal*3/103)
	tax := decimal.NewFromInt(grandTotal).Sub(subtotal)
	sale := &models.Sale{
		InvoiceNumber: fmt.Sprintf("INV-2026-%09d", repo.nextID+1),
		CustomerID:    1,
		Subtotal:      subtotal,
		TaxRate:       decimal.RequireFromString("0.03"),
		TaxAmount:     tax,
		GrandTotal:    decimal.NewFromInt(grandTotal),
		Currency:      "INR",
		PaymentMethod: "cash",
		Status:        models.SaleStatusInvoiced,
		SaleDate:      saleDate,
	}
	items := []models.SaleItem{
		{
			ProductID:   1,
			ProductName: "Solitaire Ring",
			Quantity:    quantity,
			UnitPrice:   subtotal,
			LineTotal:   subtotal,
		},
	}
	require.NoError(t, repo.CreateWithItems(context.Background(), sale, items))
	return sale
}

func TestReportFlowSalesSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Totals Sales In The Window", func(t *testing.T) {
		saleRepo := newFakeSaleRepo()
		flow := NewReportFlow(saleRepo)

		seedReportSale(t, saleRepo, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), 115772, 1)
		seedReportSale(t, saleRepo, time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC), 1648, 2)
		// Outside the window
		seedReportSale(t, saleRepo, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 5000, 1)

		resp, err := flow.SalesSummary(ctx, &dto.SalesSummaryRequest{StartDate: "2026-01-01", EndDate: "2026-01-31"})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.SaleCount)
		assert.Equal(t, 3, resp.ItemCount)
		assert.Equal(t, "117420", resp.GrandTotal)
	})

	t.Run("End Date Is Inclusive", func(t *testing.T) {
		saleRepo := newFakeSaleRepo()
		flow := NewReportFlow(saleRepo)

		// Late in the evening of the last day of the window
		seedReportSale(t, saleRepo, time.Date(2026, 1, 31, 23, 45, 0, 0, time.UTC), 1648, 1)

		resp, err := flow.SalesSummary(ctx, &dto.SalesSummaryRequest{StartDate: "2026-01-01", EndDate: "2026-01-31"})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.SaleCount)
	})

	t.Run("Empty Window", func(t *testing.T) {
		flow := NewReportFlow(newFakeSaleRepo())

		resp, err := flow.SalesSummary(ctx, &dto.SalesSummaryRequest{StartDate: "2026-01-01", EndDate: "2026-01-31"})
		require.NoError(t, err)
		assert.Zero(t, resp.SaleCount)
		assert.Equal(t, "0", resp.GrandTotal)
	})

	t.Run("Start After End Rejected", func(t *testing.T) {
		flow := NewReportFlow(newFakeSaleRepo())

		_, err := flow.SalesSummary(ctx, &dto.SalesSummaryRequest{StartDate: "2026-02-01", EndDate: "2026-01-01"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStartDateAfterEndDate))
	})

	t.Run("Malformed Dates Rejected", func(t *testing.T) {
		flow := NewReportFlow(newFakeSaleRepo())

		_, err := flow.SalesSummary(ctx, &dto.SalesSummaryRequest{StartDate: "01-01-2026", EndDate: "2026-01-31"})
		require.Error(t, err)
	})
}

func TestReportFlowExportSalesExcel(t *testing.T) {
	ctx := context.Background()

	saleRepo := newFakeSaleRepo()
	flow := NewReportFlow(saleRepo)

	sale := seedReportSale(t, saleRepo, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), 115772, 1)

	filename, content, err := flow.ExportSalesExcel(ctx, &dto.ExportSalesRequest{StartDate: "2026-01-01", EndDate: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "sales_2026-01-01_2026-01-31.xlsx", filename)
	require.NotEmpty(t, content)

	xl, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one item row")
	assert.Equal(t, "invoice_number", rows[0][0])
	assert.Equal(t, sale.InvoiceNumber, rows[1][0])
	assert.Equal(t, "Solitaire Ring", rows[1][6])
	assert.Equal(t, "INR", rows[1][13])
}
