package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the flow tests. Each fake keeps the same
// not-found semantics as the real layer: missing rows return (nil, nil).

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uint]*models.Product
	nextID   uint

	updateStatusErr map[uint]error
	updatePriceErr  error
	saveErr         error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:        make(map[uint]*models.Product),
		updateStatusErr: make(map[uint]error),
	}
}

func (r *fakeProductRepo) add(p *models.Product) *models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) ByID(ctx context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ByUUID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.UUID.String() == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Product, 0, len(r.products))
	for id := uint(1); id <= r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	all, _ := r.ListAll(ctx)
	var out []*models.Product
	for _, p := range all {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.MetalGrade != nil && p.MetalGrade != *filter.MetalGrade {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Barcode != nil && p.Barcode != *filter.Barcode {
			continue
		}
		out = append(out, p)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, p *models.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.add(p)
	return nil
}

func (r *fakeProductRepo) SaveBatch(ctx context.Context, ps []*models.Product) error {
	for _, p := range ps {
		r.add(p)
	}
	return nil
}

func (r *fakeProductRepo) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdatePrice(ctx context.Context, id uint, price decimal.Decimal) error {
	if r.updatePriceErr != nil {
		return r.updatePriceErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil
	}
	p.Price = price
	return nil
}

func (r *fakeProductRepo) UpdateStatus(ctx context.Context, id uint, status models.ProductStatus, soldAt *time.Time) error {
	if err := r.updateStatusErr[id]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil
	}
	p.Status = status
	if soldAt != nil {
		p.LastSoldAt = soldAt
	}
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uint]*models.Customer
	nextID    uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint]*models.Customer)}
}

func (r *fakeCustomerRepo) add(c *models.Customer) *models.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	r.customers[c.ID] = c
	return c
}

func (r *fakeCustomerRepo) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) ByUUID(ctx context.Context, id string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.UUID.String() == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ByMobile(ctx context.Context, mobile string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Mobile == mobile {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Customer
	for id := uint(1); id <= r.nextID; id++ {
		c, ok := r.customers[id]
		if !ok {
			continue
		}
		if filter.City != nil && c.City != *filter.City {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(ctx context.Context, c *models.Customer) error {
	r.add(c)
	return nil
}

func (r *fakeCustomerRepo) SaveBatch(ctx context.Context, cs []*models.Customer) error {
	for _, c := range cs {
		r.add(c)
	}
	return nil
}

func (r *fakeCustomerRepo) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

type fakeSaleRepo struct {
	mu     sync.Mutex
	sales  map[uint]*models.Sale
	nextID uint

	createErr       error
	updateStatusErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uint]*models.Sale)}
}

func (r *fakeSaleRepo) ByID(ctx context.Context, id uint) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) ByUUID(ctx context.Context, id string) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.UUID.String() == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) ByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.InvoiceNumber == invoiceNumber {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) CreateWithItems(ctx context.Context, sale *models.Sale, items []models.SaleItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sale.ID = r.nextID
	if sale.UUID == uuid.Nil {
		sale.UUID = uuid.New()
	}
	for i := range items {
		items[i].ID = uint(i + 1)
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	cp := *sale
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) ItemsBySale(ctx context.Context, saleID uint) ([]*models.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[saleID]
	if !ok {
		return nil, nil
	}
	out := make([]*models.SaleItem, 0, len(s.Items))
	for i := range s.Items {
		cp := s.Items[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) UpdateStatus(ctx context.Context, saleID uint, status models.SaleStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sales[saleID]; ok {
		s.Status = status
	}
	return nil
}

func (r *fakeSaleRepo) AppendInventoryWarnings(ctx context.Context, saleID uint, warnings []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sales[saleID]; ok {
		s.InventoryWarnings = append(s.InventoryWarnings, warnings...)
	}
	return nil
}

func (r *fakeSaleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Sale
	for id := uint(1); id <= r.nextID; id++ {
		s, ok := r.sales[id]
		if !ok {
			continue
		}
		if s.SaleDate.Before(from) || !s.SaleDate.Before(to) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) ByFilter(ctx context.Context, filter models.SaleFilter, orderBy string, limit, offset int) ([]*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Sale
	for id := uint(1); id <= r.nextID; id++ {
		s, ok := r.sales[id]
		if !ok {
			continue
		}
		if filter.CustomerID != nil && s.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSaleRepo) Save(ctx context.Context, s *models.Sale) error {
	return r.CreateWithItems(ctx, s, s.Items)
}

func (r *fakeSaleRepo) SaveBatch(ctx context.Context, ss []*models.Sale) error {
	for _, s := range ss {
		if err := r.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSaleRepo) Count(ctx context.Context, filter models.SaleFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uint]*models.Invoice
	nextID   uint

	saveErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uint]*models.Invoice)}
}

func (r *fakeInvoiceRepo) ByID(ctx context.Context, id uint) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) BySaleID(ctx context.Context, saleID uint) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.SaleID == saleID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ByFilter(ctx context.Context, filter models.InvoiceFilter, orderBy string, limit, offset int) ([]*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Invoice
	for id := uint(1); id <= r.nextID; id++ {
		inv, ok := r.invoices[id]
		if !ok {
			continue
		}
		if filter.SaleID != nil && inv.SaleID != *filter.SaleID {
			continue
		}
		if filter.InvoiceNumber != nil && inv.InvoiceNumber != *filter.InvoiceNumber {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Save(ctx context.Context, inv *models.Invoice) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	inv.ID = r.nextID
	if inv.UUID == uuid.Nil {
		inv.UUID = uuid.New()
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) SaveBatch(ctx context.Context, invs []*models.Invoice) error {
	for _, inv := range invs {
		if err := r.Save(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) Count(ctx context.Context, filter models.InvoiceFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

type fakeRateTableRepo struct {
	mu     sync.Mutex
	tables map[models.RateKind]*models.RateTable
	nextID uint
}

func newFakeRateTableRepo() *fakeRateTableRepo {
	return &fakeRateTableRepo{tables: make(map[models.RateKind]*models.RateTable)}
}

func (r *fakeRateTableRepo) seedDefaults() {
	for _, kind := range models.AllRateKinds() {
		_ = r.Upsert(context.Background(), &models.RateTable{
			Kind:  kind,
			Rates: models.DefaultRates(kind),
		})
	}
}

func (r *fakeRateTableRepo) ByID(ctx context.Context, id uint) (*models.RateTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tables {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRateTableRepo) ByKind(ctx context.Context, kind models.RateKind) (*models.RateTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[kind]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Rates = make(map[string]decimal.Decimal, len(t.Rates))
	for k, v := range t.Rates {
		cp.Rates[k] = v
	}
	return &cp, nil
}

func (r *fakeRateTableRepo) Upsert(ctx context.Context, table *models.RateTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tables[table.Kind]
	if ok {
		table.ID = existing.ID
	} else {
		r.nextID++
		table.ID = r.nextID
	}
	table.LastUpdated = time.Now().UTC()
	cp := *table
	r.tables[table.Kind] = &cp
	return nil
}

func (r *fakeRateTableRepo) ByFilter(ctx context.Context, filter models.RateTableFilter, orderBy string, limit, offset int) ([]*models.RateTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RateTable
	for _, t := range r.tables {
		if filter.Kind != nil && t.Kind != *filter.Kind {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRateTableRepo) Save(ctx context.Context, t *models.RateTable) error {
	return r.Upsert(ctx, t)
}

func (r *fakeRateTableRepo) SaveBatch(ctx context.Context, ts []*models.RateTable) error {
	for _, t := range ts {
		if err := r.Upsert(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRateTableRepo) Count(ctx context.Context, filter models.RateTableFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

// defaultSnapshot builds a rate snapshot from the seed tables.
func defaultSnapshot() *RateSnapshot {
	return &RateSnapshot{
		Metal:        models.DefaultRates(models.RateKindMetal),
		Stone:        models.DefaultRates(models.RateKindStone),
		StoneQuality: models.DefaultRates(models.RateKindStoneQuality),
		StoneColor:   models.DefaultRates(models.RateKindStoneColor),
		TakenAt:      time.Now().UTC(),
	}
}
