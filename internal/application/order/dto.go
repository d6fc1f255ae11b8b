package order

import (
	"encoding/json"
	"time"

	"github.com/pharmalink/backend/internal/domain/order"
)

// ==================== Requests ====================

// CustomerRequest is the recipient block of an order request
type CustomerRequest struct {
	FullName string `json:"fullName" validate:"required,max=1000"`
	Address  string `json:"address" validate:"required,max=2000"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	ZipCode  string `json:"zipCode" validate:"required,max=100"`
	Country  string `json:"country" validate:"required,max=100"`
}

// CreateOrderRequest represents a request to place an order with a pharmacy
type CreateOrderRequest struct {
	ProductID string          `json:"productId" validate:"required,max=50"`
	Quantity  int             `json:"quantity" validate:"min=1,max=1000"`
	Customer  CustomerRequest `json:"customer" validate:"required"`
}

func (r CreateOrderRequest) toCustomer() order.Customer {
	return order.Customer{
		FullName: r.Customer.FullName,
		Address:  r.Customer.Address,
		City:     r.Customer.City,
		State:    r.Customer.State,
		ZipCode:  r.Customer.ZipCode,
		Country:  r.Customer.Country,
	}
}

// ==================== Responses ====================

// PharmacyResponse is the pharmacy as it was when the order was placed
type PharmacyResponse struct {
	ID              string `json:"id"`
	IntegrationName string `json:"integrationName"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zipcode         string `json:"zipcode"`
	Country         string `json:"country"`
	Fax             string `json:"fax"`
	Phone           string `json:"phone"`
}

// ProductResponse is the ordered product as it was when the order was placed
type ProductResponse struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	IntegrationName string `json:"integrationName"`
}

// CustomerResponse is the recipient of an order
type CustomerResponse struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// OrderResponse is the API view of an order. ExternalResult carries the
// vendor's own representation when it was requested.
type OrderResponse struct {
	ID             string           `json:"id"`
	CreatedAt      time.Time        `json:"createAt"`
	UpdatedAt      time.Time        `json:"updateAt"`
	IntegrationID  string           `json:"integrationId,omitempty"`
	Status         order.Status     `json:"status"`
	Pharmacy       PharmacyResponse `json:"pharmacy"`
	Product        ProductResponse  `json:"product"`
	Quantity       int              `json:"quantity"`
	Customer       CustomerResponse `json:"customer"`
	ExternalResult json.RawMessage  `json:"externalResult,omitempty"`
}

// ToOrderResponse converts a domain order to its API view
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		IntegrationID: o.IntegrationID,
		Status:        o.Status,
		Pharmacy: PharmacyResponse{
			ID:              o.Pharmacy.ID,
			IntegrationName: o.Pharmacy.IntegrationName,
			Name:            o.Pharmacy.Name,
			Address:         o.Pharmacy.Address,
			City:            o.Pharmacy.City,
			State:           o.Pharmacy.State,
			Zipcode:         o.Pharmacy.Zipcode,
			Country:         o.Pharmacy.Country,
			Fax:             o.Pharmacy.Fax,
			Phone:           o.Pharmacy.Phone,
		},
		Product: ProductResponse{
			ID:              o.Product.ID,
			Label:           o.Product.Label,
			IntegrationName: o.Product.IntegrationName,
		},
		Quantity: o.Quantity,
		Customer: CustomerResponse(o.Customer),
	}
}

// ToOrderResponses converts a list of domain orders
func ToOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToOrderResponse(o)
	}
	return out
}
