package order

import (
	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/domain/shared"
)

// Namespace is the store namespace for orders
const Namespace = "order"

// Status is the dispatch state of an order
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusSent      Status = "sent"
)

// Quantity bounds accepted for a single order line
const (
	MinQuantity = 1
	MaxQuantity = 1000
)

// PharmacySnapshot is the pharmacy as it was when the order was created
type PharmacySnapshot struct {
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

// ProductSnapshot is the product as it was when the order was created
type ProductSnapshot struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	IntegrationName string `json:"integrationName"`
}

// Customer is the recipient of an order
type Customer struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// Order is a customer request for a pharmacy product. The pharmacy and product
// are copied at creation and never re-synchronized with the catalog.
type Order struct {
	shared.BaseEntity
	IntegrationID string           `json:"integrationId,omitempty"`
	Status        Status           `json:"status"`
	Pharmacy      PharmacySnapshot `json:"pharmacy"`
	Product       ProductSnapshot  `json:"product"`
	Quantity      int              `json:"quantity"`
	Customer      Customer         `json:"customer"`
}

// New builds an initiated order from resolved catalog data. The id is left
// empty for the store to assign.
func New(p *pharmacy.Pharmacy, product *pharmacy.Product, quantity int, customer Customer) *Order {
	return &Order{
		BaseEntity: shared.NewBaseEntity(""),
		Status:     StatusInitiated,
		Pharmacy: PharmacySnapshot{
			ID:              p.ID,
			IntegrationName: p.IntegrationName,
			Name:            p.Name,
			Address:         p.Address,
			City:            p.City,
			State:           p.State,
			Zipcode:         p.Zipcode,
			Country:         p.Country,
			Fax:             p.Fax,
			Phone:           p.Phone,
		},
		Product: ProductSnapshot{
			ID:              product.ID,
			Label:           product.Label,
			IntegrationName: product.IntegrationName,
		},
		Quantity: quantity,
		Customer: customer,
	}
}

// MarkSent records the vendor-assigned id and moves the order to sent.
func (o *Order) MarkSent(integrationID string) error {
	if o.Status != StatusInitiated {
		return ErrInvalidTransition
	}
	if integrationID == "" {
		return ErrMissingIntegrationID
	}
	o.IntegrationID = integrationID
	o.Status = StatusSent
	return nil
}

// Dispatched reports whether the order has been accepted by its vendor
func (o *Order) Dispatched() bool {
	return o.IntegrationID != ""
}
