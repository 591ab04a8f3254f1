package businessflow

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleFlow settles carts into persisted sales and drives the post-commit
// inventory and invoice steps.
type SaleFlow interface {
	CommitSale(ctx context.Context, req *dto.CommitSaleRequest, metadata *ClientMetadata) (*dto.CommitSaleResponse, error)
	GetSale(ctx context.Context, saleUUID string) (*dto.SaleDTO, error)
	ListSales(ctx context.Context, req *dto.ListSalesRequest) (*dto.ListSalesResponse, error)
	RebuildInvoice(ctx context.Context, saleUUID string) (*dto.GetInvoiceResponse, error)
}

// SaleFlowImpl implements SaleFlow.
type SaleFlowImpl struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	cartFlow     CartFlow
	invoiceFlow  InvoiceFlow
	taxRate      decimal.Decimal
	db           *gorm.DB
}

// NewSaleFlow creates a new sale flow.
func NewSaleFlow(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	cartFlow CartFlow,
	invoiceFlow InvoiceFlow,
	taxRate decimal.Decimal,
	db *gorm.DB,
) SaleFlow {
	return &SaleFlowImpl{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		cartFlow:     cartFlow,
		invoiceFlow:  invoiceFlow,
		taxRate:      taxRate,
		db:           db,
	}
}

// CommitSale settles the session cart into a sale. The sale header and its
// items are written in one transaction with totals copied verbatim from the
// cart. Inventory updates and invoice generation run after commit and never
// undo the sale: stock failures become warnings on the sale row, and a
// failed invoice leaves the sale committed for a later rebuild.
func (f *SaleFlowImpl) CommitSale(ctx context.Context, req *dto.CommitSaleRequest, metadata *ClientMetadata) (*dto.CommitSaleResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if req.PaymentMethod == "" {
		return nil, NewBusinessError("INCOMPLETE_SALE", "payment method is required", ErrIncompleteSale)
	}

	customer, err := f.customerRepo.ByUUID(ctx, req.CustomerUUID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_READ_FAILED", "failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("INCOMPLETE_SALE", "customer not found", ErrIncompleteSale)
	}

	cart, err := f.cartFlow.Snapshot(ctx, req.SessionID)
	if err != nil {
		if IsCartEmpty(err) {
			return nil, NewBusinessError("INCOMPLETE_SALE", "cart has no lines", ErrIncompleteSale)
		}
		return nil, err
	}

	// Validated: every line must still reference a sellable product
	for _, line := range cart.Lines {
		product, err := f.productRepo.ByID(ctx, line.ProductID)
		if err != nil {
			return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
		}
		if product == nil {
			return nil, NewBusinessErrorf("PRODUCT_NOT_FOUND", "product %d no longer exists", ErrProductNotFound, line.ProductID)
		}
		if !product.IsAvailable() {
			return nil, NewBusinessErrorf("PRODUCT_NOT_AVAILABLE", "product %q is no longer available", ErrProductNotAvailable, product.Name)
		}
	}

	totals := cart.Totals(f.taxRate)

	items := make([]models.SaleItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.SaleItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
		})
	}

	sale := &models.Sale{
		InvoiceNumber: f.nextInvoiceNumber(),
		CustomerID:    customer.ID,
		Subtotal:      totals.Subtotal,
		TaxRate:       totals.TaxRate,
		TaxAmount:     totals.TaxAmount,
		GrandTotal:    totals.GrandTotal,
		Currency:      utils.RupeeCurrency,
		PaymentMethod: req.PaymentMethod,
		Status:        models.SaleStatusCommitted,
		SaleDate:      utils.UTCNow(),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.saleRepo.CreateWithItems(txCtx, sale, items)
	})
	if err != nil {
		salesCommittedTotal.WithLabelValues(string(models.SaleStatusRejected)).Inc()
		return nil, NewBusinessError("SALE_COMMIT_FAILED", "failed to persist sale", err)
	}

	// Committed. The cart is spent regardless of what happens next.
	_ = f.cartFlow.ClearCart(ctx, req.SessionID)

	f.updateInventory(ctx, sale)
	f.generateInvoice(ctx, sale, customer)

	salesCommittedTotal.WithLabelValues(string(sale.Status)).Inc()

	return &dto.CommitSaleResponse{
		Message: "Sale committed successfully",
		Sale:    ToSaleDTO(*sale),
	}, nil
}

// updateInventory marks each sold product, one update per line so a single
// bad product cannot block the rest. Failures are recorded as warnings on
// the sale.
func (f *SaleFlowImpl) updateInventory(ctx context.Context, sale *models.Sale) {
	soldAt := utils.UTCNowPtr()

	var warnings []string
	for _, item := range sale.Items {
		if err := f.productRepo.UpdateStatus(ctx, item.ProductID, models.ProductStatusSold, soldAt); err != nil {
			warnings = append(warnings, fmt.Sprintf("product %d: %v", item.ProductID, err))
			inventoryWarningsTotal.Inc()
		}
	}

	if len(warnings) > 0 {
		sale.InventoryWarnings = append(sale.InventoryWarnings, warnings...)
		if err := f.saleRepo.AppendInventoryWarnings(ctx, sale.ID, warnings); err != nil {
			log.Printf("sale %d: failed to record inventory warnings: %v", sale.ID, err)
		}
	}

	if err := f.saleRepo.UpdateStatus(ctx, sale.ID, models.SaleStatusInventoryUpdated); err != nil {
		log.Printf("sale %d: failed to advance status: %v", sale.ID, err)
		return
	}
	sale.Status = models.SaleStatusInventoryUpdated
}

// generateInvoice builds and stores the invoice snapshot. A failure here is
// logged and counted but never fails the settled sale.
func (f *SaleFlowImpl) generateInvoice(ctx context.Context, sale *models.Sale, customer *models.Customer) {
	invoice, err := f.invoiceFlow.BuildInvoice(ctx, sale, customer)
	if err != nil {
		invoiceFailuresTotal.Inc()
		log.Printf("sale %d: failed to build invoice: %v", sale.ID, err)
		return
	}

	if err := f.invoiceRepo.Save(ctx, invoice); err != nil {
		invoiceFailuresTotal.Inc()
		log.Printf("sale %d: failed to store invoice: %v", sale.ID, err)
		return
	}

	if err := f.saleRepo.UpdateStatus(ctx, sale.ID, models.SaleStatusInvoiced); err != nil {
		log.Printf("sale %d: failed to advance status: %v", sale.ID, err)
		return
	}
	sale.Status = models.SaleStatusInvoiced
	sale.Invoice = invoice
}

// RebuildInvoice regenerates a missing invoice for a committed sale
func (f *SaleFlowImpl) RebuildInvoice(ctx context.Context, saleUUID string) (*dto.GetInvoiceResponse, error) {
	sale, err := f.saleRepo.ByUUID(ctx, saleUUID)
	if err != nil {
		return nil, NewBusinessError("SALE_READ_FAILED", "failed to load sale", err)
	}
	if sale == nil {
		return nil, NewBusinessError("SALE_NOT_FOUND", "sale not found", ErrSaleNotFound)
	}

	existing, err := f.invoiceRepo.BySaleID(ctx, sale.ID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_READ_FAILED", "failed to load invoice", err)
	}
	if existing != nil {
		return f.invoiceFlow.GetInvoice(ctx, saleUUID)
	}

	customer, err := f.customerRepo.ByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_READ_FAILED", "failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "customer not found", ErrCustomerNotFound)
	}

	invoice, err := f.invoiceFlow.BuildInvoice(ctx, sale, customer)
	if err != nil {
		return nil, err
	}
	if err := f.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, NewBusinessError("INVOICE_WRITE_FAILED", "failed to store invoice", err)
	}
	if err := f.saleRepo.UpdateStatus(ctx, sale.ID, models.SaleStatusInvoiced); err != nil {
		log.Printf("sale %d: failed to advance status: %v", sale.ID, err)
	}

	return f.invoiceFlow.GetInvoice(ctx, saleUUID)
}

// GetSale returns a settled sale with its items
func (f *SaleFlowImpl) GetSale(ctx context.Context, saleUUID string) (*dto.SaleDTO, error) {
	sale, err := f.saleRepo.ByUUID(ctx, saleUUID)
	if err != nil {
		return nil, NewBusinessError("SALE_READ_FAILED", "failed to load sale", err)
	}
	if sale == nil {
		return nil, NewBusinessError("SALE_NOT_FOUND", "sale not found", ErrSaleNotFound)
	}

	out := ToSaleDTO(*sale)
	return &out, nil
}

// ListSales returns a page of sales, newest first
func (f *SaleFlowImpl) ListSales(ctx context.Context, req *dto.ListSalesRequest) (*dto.ListSalesResponse, error) {
	if req == nil {
		req = &dto.ListSalesRequest{}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.SaleFilter{CustomerID: req.CustomerID}
	if req.Status != nil {
		status := models.SaleStatus(*req.Status)
		filter.Status = &status
	}

	sales, err := f.saleRepo.ByFilter(ctx, filter, "sale_date DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SALE_LIST_FAILED", "failed to list sales", err)
	}

	total, err := f.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SALE_COUNT_FAILED", "failed to count sales", err)
	}

	items := make([]dto.SaleDTO, 0, len(sales))
	for _, sale := range sales {
		items = append(items, ToSaleDTO(*sale))
	}

	return &dto.ListSalesResponse{Items: items, Total: total}, nil
}

// nextInvoiceNumber builds an INV-<year>-<suffix> number. The random suffix
// is wide enough that collisions are practically impossible; the unique
// index on sales.invoice_number catches the rest.
func (f *SaleFlowImpl) nextInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%09d", utils.UTCNow().Year(), rand.Intn(1_000_000_000))
}
