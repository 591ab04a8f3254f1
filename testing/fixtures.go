package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fourcdiamonds/jewelcore/models"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	db *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{db: db}
}

// CreateTestCustomer creates a customer with unique contact details
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	n := rand.Intn(1_000_000_000)
	customer := &models.Customer{
		FirstName:  "Priya",
		LastName:   "Sharma",
		Mobile:     fmt.Sprintf("+91%010d", n),
		Email:      fmt.Sprintf("priya%d@example.com", n),
		Address:    "12 MG Road",
		City:       "Mumbai",
		State:      "Maharashtra",
		PostalCode: "400001",
	}

	if err := tf.db.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// CreateTestProduct creates an available gold ring with a diamond stone
func (tf *TestFixtures) CreateTestProduct() (*models.Product, error) {
	n := rand.Intn(1_000_000_000)
	product := &models.Product{
		Name:         "Solitaire Ring",
		Description:  "18k gold ring with a round brilliant solitaire",
		Category:     "ring",
		MetalGrade:   "18k",
		MetalWeight:  decimal.NewFromFloat(4.5),
		StoneCut:     "round-brilliant",
		StoneQuality: "VS",
		StoneColor:   "F-G",
		StoneWeight:  decimal.NewFromFloat(0.5),
		MakingCharge: decimal.NewFromInt(2500),
		LabourCharge: decimal.NewFromInt(800),
		Price:        decimal.NewFromInt(50000),
		Status:       models.ProductStatusAvailable,
		Barcode:      fmt.Sprintf("JWL%09d", n),
	}

	if err := tf.db.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}

// CreateTestPlainProduct creates an available product without a stone component
func (tf *TestFixtures) CreateTestPlainProduct() (*models.Product, error) {
	n := rand.Intn(1_000_000_000)
	product := &models.Product{
		Name:        "Silver Chain",
		Category:    "chain",
		MetalGrade:  "silver",
		MetalWeight: decimal.NewFromFloat(20),
		Price:       decimal.NewFromInt(1700),
		Status:      models.ProductStatusAvailable,
		Barcode:     fmt.Sprintf("JWL%09d", n),
	}

	if err := tf.db.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}

// CreateTestSale creates a committed single-item sale for the given customer and product
func (tf *TestFixtures) CreateTestSale(customer *models.Customer, product *models.Product) (*models.Sale, error) {
	taxRate := decimal.NewFromFloat(0.03)
	subtotal := product.Price
	taxAmount := subtotal.Mul(taxRate).Round(2)

	sale := &models.Sale{
		InvoiceNumber: fmt.Sprintf("INV-%d-%09d", time.Now().UTC().Year(), rand.Intn(1_000_000_000)),
		CustomerID:    customer.ID,
		Subtotal:      subtotal,
		TaxRate:       taxRate,
		TaxAmount:     taxAmount,
		GrandTotal:    subtotal.Add(taxAmount),
		Currency:      "INR",
		PaymentMethod: "cash",
		Status:        models.SaleStatusCommitted,
		SaleDate:      time.Now().UTC(),
	}

	if err := tf.db.DB.Create(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to create test sale: %w", err)
	}

	item := &models.SaleItem{
		SaleID:      sale.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    1,
		UnitPrice:   product.Price,
		LineTotal:   product.Price,
	}
	if err := tf.db.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test sale item: %w", err)
	}
	sale.Items = []models.SaleItem{*item}

	return sale, nil
}

// CreateMultipleTestProducts creates a small mixed catalog
func (tf *TestFixtures) CreateMultipleTestProducts(count int) ([]*models.Product, error) {
	products := make([]*models.Product, 0, count)
	for i := 0; i < count; i++ {
		var (
			product *models.Product
			err     error
		)
		if i%2 == 0 {
			product, err = tf.CreateTestProduct()
		} else {
			product, err = tf.CreateTestPlainProduct()
		}
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
