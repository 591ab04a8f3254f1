package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportFlow aggregates settled sales for back-office reporting.
type ReportFlow interface {
	SalesSummary(ctx context.Context, req *dto.SalesSummaryRequest) (*dto.SalesSummaryResponse, error)
	ExportSalesExcel(ctx context.Context, req *dto.ExportSalesRequest) (string, []byte, error)
}

// ReportFlowImpl implements ReportFlow.
type ReportFlowImpl struct {
	saleRepo repository.SaleRepository
}

// NewReportFlow creates a new report flow.
func NewReportFlow(saleRepo repository.SaleRepository) ReportFlow {
	return &ReportFlowImpl{saleRepo: saleRepo}
}

func parseReportWindow(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewBusinessError("INVALID_DATE", "start date must be YYYY-MM-DD", err)
	}
	to, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewBusinessError("INVALID_DATE", "end date must be YYYY-MM-DD", err)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, NewBusinessError("INVALID_DATE_RANGE", "start date cannot be after end date", ErrStartDateAfterEndDate)
	}
	// Window is inclusive of the end date
	return from, to.AddDate(0, 0, 1), nil
}

// SalesSummary totals the sales whose sale date falls in the window
func (f *ReportFlowImpl) SalesSummary(ctx context.Context, req *dto.SalesSummaryRequest) (*dto.SalesSummaryResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	from, to, err := parseReportWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	sales, err := f.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, NewBusinessError("SALE_LIST_FAILED", "failed to list sales", err)
	}

	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	grandTotal := decimal.Zero
	itemCount := 0
	for _, sale := range sales {
		subtotal = subtotal.Add(sale.Subtotal)
		taxAmount = taxAmount.Add(sale.TaxAmount)
		grandTotal = grandTotal.Add(sale.GrandTotal)
		for _, item := range sale.Items {
			itemCount += item.Quantity
		}
	}

	return &dto.SalesSummaryResponse{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		SaleCount:  len(sales),
		ItemCount:  itemCount,
		Subtotal:   subtotal.String(),
		TaxAmount:  taxAmount.String(),
		GrandTotal: grandTotal.String(),
	}, nil
}

// ExportSalesExcel writes the sales in the window to a spreadsheet, one row
// per sale item with the sale header repeated.
func (f *ReportFlowImpl) ExportSalesExcel(ctx context.Context, req *dto.ExportSalesRequest) (string, []byte, error) {
	if req == nil {
		return "", nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	from, to, err := parseReportWindow(req.StartDate, req.EndDate)
	if err != nil {
		return "", nil, err
	}

	sales, err := f.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		return "", nil, NewBusinessError("SALE_LIST_FAILED", "failed to list sales", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Sales"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"invoice_number", "sale_date", "status", "customer_id", "payment_method", "product_id", "product_name", "quantity", "unit_price", "line_total", "sale_subtotal", "sale_tax", "sale_grand_total", "currency"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	row := 2
	for _, sale := range sales {
		for _, item := range sale.Items {
			record := []string{
				sale.InvoiceNumber,
				sale.SaleDate.UTC().Format(time.RFC3339),
				string(sale.Status),
				strconv.FormatUint(uint64(sale.CustomerID), 10),
				sale.PaymentMethod,
				strconv.FormatUint(uint64(item.ProductID), 10),
				item.ProductName,
				strconv.Itoa(item.Quantity),
				item.UnitPrice.String(),
				item.LineTotal.String(),
				sale.Subtotal.String(),
				sale.TaxAmount.String(),
				sale.GrandTotal.String(),
				sale.Currency,
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, row)
			_ = xl.SetSheetRow(sheet, cellRef, &record)
			row++
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("sales_%s_%s.xlsx", req.StartDate, req.EndDate)
	return filename, buf.Bytes(), nil
}
