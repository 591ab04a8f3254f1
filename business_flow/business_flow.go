// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToProductDTO converts a product model to its response shape
func ToProductDTO(product models.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:           product.ID,
		UUID:         product.UUID.String(),
		Name:         product.Name,
		Description:  product.Description,
		Category:     product.Category,
		MetalGrade:   product.MetalGrade,
		MetalWeight:  product.MetalWeight.String(),
		StoneCut:     product.StoneCut,
		StoneQuality: product.StoneQuality,
		StoneColor:   product.StoneColor,
		StoneWeight:  product.StoneWeight.String(),
		MakingCharge: product.MakingCharge.String(),
		LabourCharge: product.LabourCharge.String(),
		Price:        product.Price.String(),
		Status:       string(product.Status),
		Barcode:      product.Barcode,
		CreatedAt:    product.CreatedAt.Format(time.RFC3339),
	}
}

// ToCustomerDTO converts a customer model to its response shape
func ToCustomerDTO(customer models.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:         customer.ID,
		UUID:       customer.UUID.String(),
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		Mobile:     customer.Mobile,
		Email:      customer.Email,
		Address:    customer.Address,
		City:       customer.City,
		State:      customer.State,
		PostalCode: customer.PostalCode,
		TaxNumber:  customer.TaxNumber,
		CreatedAt:  customer.CreatedAt.Format(time.RFC3339),
	}
}

// ToSaleDTO converts a sale model with its items to the response shape
func ToSaleDTO(sale models.Sale) dto.SaleDTO {
	items := make([]dto.SaleItemDTO, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, dto.SaleItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			LineTotal:   item.LineTotal.String(),
		})
	}

	return dto.SaleDTO{
		ID:                sale.ID,
		UUID:              sale.UUID.String(),
		InvoiceNumber:     sale.InvoiceNumber,
		CustomerID:        sale.CustomerID,
		Subtotal:          sale.Subtotal.String(),
		TaxRate:           sale.TaxRate.String(),
		TaxAmount:         sale.TaxAmount.String(),
		GrandTotal:        sale.GrandTotal.String(),
		Currency:          sale.Currency,
		PaymentMethod:     sale.PaymentMethod,
		Status:            string(sale.Status),
		InventoryWarnings: sale.InventoryWarnings,
		SaleDate:          sale.SaleDate.Format(time.RFC3339),
		Items:             items,
	}
}
