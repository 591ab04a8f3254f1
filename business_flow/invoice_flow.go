package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/config"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/fourcdiamonds/jewelcore/utils"
)

// InvoiceFlow builds and serves frozen invoice snapshots.
type InvoiceFlow interface {
	BuildInvoice(ctx context.Context, sale *models.Sale, customer *models.Customer) (*models.Invoice, error)
	GetInvoice(ctx context.Context, saleUUID string) (*dto.GetInvoiceResponse, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.GetInvoiceResponse, error)
}

// InvoiceFlowImpl implements InvoiceFlow.
type InvoiceFlowImpl struct {
	invoiceRepo repository.InvoiceRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	company     *config.CompanyConfig
}

// NewInvoiceFlow creates a new invoice flow.
func NewInvoiceFlow(
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	company *config.CompanyConfig,
) InvoiceFlow {
	return &InvoiceFlowImpl{
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		company:     company,
	}
}

// BuildInvoice assembles an invoice snapshot for a committed sale. Product
// lookups that fail produce placeholder lines instead of failing the build,
// so an invoice always covers every sale item.
func (f *InvoiceFlowImpl) BuildInvoice(ctx context.Context, sale *models.Sale, customer *models.Customer) (*models.Invoice, error) {
	if sale == nil || customer == nil {
		return nil, NewBusinessError("INVOICE_INPUT_NIL", "sale and customer are required", nil)
	}

	lines := make([]models.InvoiceLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		line := models.InvoiceLine{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}

		product, err := f.productRepo.ByID(ctx, item.ProductID)
		if err != nil || product == nil {
			if line.Name == "" {
				line.Name = fmt.Sprintf("Product #%d", item.ProductID)
			}
			line.Placeholder = true
		} else {
			line.Description = product.Description
			line.Category = product.Category
			line.Barcode = product.Barcode
		}

		lines = append(lines, line)
	}

	customerBlock, err := json.Marshal(models.InvoiceCustomer{
		Name:       customer.FullName(),
		Mobile:     customer.Mobile,
		Email:      customer.Email,
		Address:    customer.Address,
		City:       customer.City,
		State:      customer.State,
		PostalCode: customer.PostalCode,
		TaxNumber:  customer.TaxNumber,
	})
	if err != nil {
		return nil, NewBusinessError("INVOICE_MARSHAL_FAILED", "failed to freeze customer block", err)
	}

	sellerBlock, err := json.Marshal(models.InvoiceSeller{
		Name:       f.company.Name,
		Address:    f.company.Address,
		City:       f.company.City,
		State:      f.company.State,
		PostalCode: f.company.PostalCode,
		Phone:      f.company.Phone,
		Email:      f.company.Email,
		TaxNumber:  f.company.TaxNumber,
		Website:    f.company.Website,
	})
	if err != nil {
		return nil, NewBusinessError("INVOICE_MARSHAL_FAILED", "failed to freeze seller block", err)
	}

	linesBlock, err := json.Marshal(lines)
	if err != nil {
		return nil, NewBusinessError("INVOICE_MARSHAL_FAILED", "failed to freeze invoice lines", err)
	}

	invoiceDate := sale.SaleDate
	return &models.Invoice{
		SaleID:        sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		Customer:      customerBlock,
		Seller:        sellerBlock,
		Lines:         linesBlock,
		Subtotal:      sale.Subtotal,
		TaxRate:       sale.TaxRate,
		TaxAmount:     sale.TaxAmount,
		GrandTotal:    sale.GrandTotal,
		Currency:      sale.Currency,
		InvoiceDate:   invoiceDate,
		DueDate:       invoiceDate.AddDate(0, 0, utils.InvoiceDueTermDays),
	}, nil
}

// GetInvoice returns the invoice snapshot for a sale
func (f *InvoiceFlowImpl) GetInvoice(ctx context.Context, saleUUID string) (*dto.GetInvoiceResponse, error) {
	sale, err := f.saleRepo.ByUUID(ctx, saleUUID)
	if err != nil {
		return nil, NewBusinessError("SALE_READ_FAILED", "failed to load sale", err)
	}
	if sale == nil {
		return nil, NewBusinessError("SALE_NOT_FOUND", "sale not found", ErrSaleNotFound)
	}

	invoice, err := f.invoiceRepo.BySaleID(ctx, sale.ID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_READ_FAILED", "failed to load invoice", err)
	}
	if invoice == nil {
		return nil, NewBusinessError("INVOICE_NOT_FOUND", "invoice not found", ErrInvoiceNotFound)
	}

	return &dto.GetInvoiceResponse{Invoice: toInvoiceDTO(invoice)}, nil
}

// GetInvoiceByNumber returns the invoice snapshot by its invoice number
func (f *InvoiceFlowImpl) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.GetInvoiceResponse, error) {
	invoices, err := f.invoiceRepo.ByFilter(ctx, models.InvoiceFilter{InvoiceNumber: &invoiceNumber}, "", 1, 0)
	if err != nil {
		return nil, NewBusinessError("INVOICE_READ_FAILED", "failed to load invoice", err)
	}
	if len(invoices) == 0 {
		return nil, NewBusinessError("INVOICE_NOT_FOUND", "invoice not found", ErrInvoiceNotFound)
	}

	return &dto.GetInvoiceResponse{Invoice: toInvoiceDTO(invoices[0])}, nil
}

func toInvoiceDTO(invoice *models.Invoice) dto.InvoiceDTO {
	var customer, seller, lines any
	_ = json.Unmarshal(invoice.Customer, &customer)
	_ = json.Unmarshal(invoice.Seller, &seller)
	_ = json.Unmarshal(invoice.Lines, &lines)

	return dto.InvoiceDTO{
		ID:            invoice.ID,
		UUID:          invoice.UUID.String(),
		SaleID:        invoice.SaleID,
		InvoiceNumber: invoice.InvoiceNumber,
		Customer:      customer,
		Seller:        seller,
		Lines:         lines,
		Subtotal:      invoice.Subtotal.String(),
		TaxAmount:     invoice.TaxAmount.String(),
		GrandTotal:    invoice.GrandTotal.String(),
		InvoiceDate:   invoice.InvoiceDate.Format(time.RFC3339),
		DueDate:       invoice.DueDate.Format(time.RFC3339),
	}
}
