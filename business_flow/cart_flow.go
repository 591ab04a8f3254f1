package businessflow

import (
	"context"
	"sync"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/fourcdiamonds/jewelcore/repository"
	"github.com/shopspring/decimal"
)

// CartFlow defines operations on the working cart. Carts live in memory,
// keyed by session, and hold price snapshots taken when lines are added.
type CartFlow interface {
	AddLine(ctx context.Context, req *dto.AddCartLineRequest) (*dto.CartResponse, error)
	SetQuantity(ctx context.Context, req *dto.SetCartQuantityRequest) (*dto.CartResponse, error)
	GetCart(ctx context.Context, sessionID string) (*dto.CartResponse, error)
	ClearCart(ctx context.Context, sessionID string) error
	// Snapshot hands the current cart to the sale flow without clearing it
	Snapshot(ctx context.Context, sessionID string) (*models.Cart, error)
}

// CartFlowImpl implements CartFlow.
type CartFlowImpl struct {
	mu          sync.Mutex
	carts       map[string]*models.Cart
	productRepo repository.ProductRepository
	taxRate     decimal.Decimal
}

// NewCartFlow creates a new cart flow.
func NewCartFlow(productRepo repository.ProductRepository, taxRate decimal.Decimal) CartFlow {
	return &CartFlowImpl{
		carts:       make(map[string]*models.Cart),
		productRepo: productRepo,
		taxRate:     taxRate,
	}
}

// AddLine puts a product into the cart. Adding a product that is already in
// the cart bumps its quantity instead of creating a second line. The unit
// price is frozen from the product's stored price at add time.
func (f *CartFlowImpl) AddLine(ctx context.Context, req *dto.AddCartLineRequest) (*dto.CartResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := f.productRepo.ByUUID(ctx, req.ProductUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_READ_FAILED", "failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product not found", ErrProductNotFound)
	}
	if !product.IsAvailable() {
		return nil, NewBusinessError("PRODUCT_NOT_AVAILABLE", "product is not available for sale", ErrProductNotAvailable)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.cartLocked(req.SessionID)
	if i := cart.FindLine(product.ID); i >= 0 {
		cart.Lines[i].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:   product.ID,
			ProductUUID: product.UUID,
			Name:        product.Name,
			Barcode:     product.Barcode,
			Quantity:    quantity,
			UnitPrice:   product.Price,
		})
	}

	return f.responseLocked(cart, "Product added to cart"), nil
}

// SetQuantity sets the quantity of an existing cart line. Zero or negative
// quantities remove the line entirely.
func (f *CartFlowImpl) SetQuantity(ctx context.Context, req *dto.SetCartQuantityRequest) (*dto.CartResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.cartLocked(req.SessionID)
	i := cart.FindLine(req.ProductID)
	if i < 0 {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "product is not in the cart", ErrProductNotFound)
	}

	if req.Quantity <= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		return f.responseLocked(cart, "Product removed from cart"), nil
	}

	cart.Lines[i].Quantity = req.Quantity
	return f.responseLocked(cart, "Quantity updated"), nil
}

// GetCart returns the cart for a session, creating an empty one if needed
func (f *CartFlowImpl) GetCart(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.cartLocked(sessionID)
	return f.responseLocked(cart, "Cart retrieved"), nil
}

// ClearCart drops the cart for a session
func (f *CartFlowImpl) ClearCart(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.carts, sessionID)
	return nil
}

// Snapshot returns a deep copy of the session cart so settlement can work on
// totals that cannot change underneath it.
func (f *CartFlowImpl) Snapshot(ctx context.Context, sessionID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.carts[sessionID]
	if !ok || cart.IsEmpty() {
		return nil, NewBusinessError("CART_EMPTY", "cart has no lines", ErrCartEmpty)
	}

	copied := &models.Cart{
		SessionID: cart.SessionID,
		Lines:     make([]models.CartLine, len(cart.Lines)),
	}
	copy(copied.Lines, cart.Lines)
	return copied, nil
}

func (f *CartFlowImpl) cartLocked(sessionID string) *models.Cart {
	cart, ok := f.carts[sessionID]
	if !ok {
		cart = &models.Cart{SessionID: sessionID}
		f.carts[sessionID] = cart
	}
	return cart
}

func (f *CartFlowImpl) responseLocked(cart *models.Cart, message string) *dto.CartResponse {
	totals := cart.Totals(f.taxRate)

	lines := make([]dto.CartLineDTO, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, dto.CartLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Barcode:   line.Barcode,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			LineTotal: line.LineTotal().String(),
		})
	}

	return &dto.CartResponse{
		Message: message,
		Cart: dto.CartDTO{
			SessionID:  cart.SessionID,
			Lines:      lines,
			Subtotal:   totals.Subtotal.String(),
			TaxRate:    totals.TaxRate.String(),
			TaxAmount:  totals.TaxAmount.String(),
			GrandTotal: totals.GrandTotal.String(),
		},
	}
}
