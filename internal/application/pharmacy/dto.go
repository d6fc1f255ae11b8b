package pharmacy

import (
	"time"

	"github.com/pharmalink/backend/internal/domain/pharmacy"
)

// ==================== Pharmacy Requests ====================

// CreatePharmacyRequest represents a request to register a pharmacy.
// It is also the shape of each entry served by the seed catalog.
type CreatePharmacyRequest struct {
	IntegrationName string `json:"integrationName" validate:"required,max=100"`
	Name            string `json:"name" validate:"required,max=255"`
	Address         string `json:"address" validate:"required,max=1000"`
	City            string `json:"city" validate:"required,max=100"`
	State           string `json:"state" validate:"required,max=100"`
	Zipcode         string `json:"zipcode" validate:"required,max=20"`
	Country         string `json:"country" validate:"required,max=100"`
	Fax             string `json:"fax" validate:"required,max=20"`
	Phone           string `json:"phone" validate:"required,max=20"`
}

func (r CreatePharmacyRequest) details() pharmacy.Details {
	return pharmacy.Details{
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Zipcode: r.Zipcode,
		Country: r.Country,
		Fax:     r.Fax,
		Phone:   r.Phone,
	}
}

// UpdatePharmacyRequest represents a partial update. Absent fields are kept;
// present fields must not be empty.
type UpdatePharmacyRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=255"`
	Address *string `json:"address" validate:"omitnil,min=1,max=1000"`
	City    *string `json:"city" validate:"omitnil,min=1,max=100"`
	State   *string `json:"state" validate:"omitnil,min=1,max=100"`
	Zipcode *string `json:"zipcode" validate:"omitnil,min=1,max=20"`
	Country *string `json:"country" validate:"omitnil,min=1,max=100"`
	Fax     *string `json:"fax" validate:"omitnil,min=1,max=20"`
	Phone   *string `json:"phone" validate:"omitnil,min=1,max=20"`
}

func (r UpdatePharmacyRequest) patch() pharmacy.Patch {
	return pharmacy.Patch(r)
}

// ==================== Product Requests ====================

// ProductRequest describes a product offered by a pharmacy
type ProductRequest struct {
	Label           string `json:"label" validate:"required,max=255"`
	IntegrationName string `json:"integrationName" validate:"required,max=100"`
}

// productBatch wraps an add-products body so the list itself can be validated
type productBatch struct {
	Products []ProductRequest `json:"products" validate:"min=1,dive"`
}

// ==================== Responses ====================

// ProductResponse is the API view of an active product
type ProductResponse struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	IntegrationName string `json:"integrationName"`
}

// PharmacyResponse is the API view of a pharmacy. Deleted products are omitted.
type PharmacyResponse struct {
	ID              string            `json:"id"`
	CreatedAt       time.Time         `json:"createAt"`
	UpdatedAt       time.Time         `json:"updateAt"`
	Name            string            `json:"name"`
	IntegrationName string            `json:"integrationName"`
	Address         string            `json:"address"`
	City            string            `json:"city"`
	State           string            `json:"state"`
	Zipcode         string            `json:"zipcode"`
	Country         string            `json:"country"`
	Fax             string            `json:"fax"`
	Phone           string            `json:"phone"`
	Products        []ProductResponse `json:"products"`
}

// ToPharmacyResponse converts a domain pharmacy to its API view
func ToPharmacyResponse(p *pharmacy.Pharmacy) PharmacyResponse {
	active := p.ActiveProducts()
	products := make([]ProductResponse, len(active))
	for i, product := range active {
		products[i] = ProductResponse{
			ID:              product.ID,
			Label:           product.Label,
			IntegrationName: product.IntegrationName,
		}
	}

	return PharmacyResponse{
		ID:              p.ID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Name:            p.Name,
		IntegrationName: p.IntegrationName,
		Address:         p.Address,
		City:            p.City,
		State:           p.State,
		Zipcode:         p.Zipcode,
		Country:         p.Country,
		Fax:             p.Fax,
		Phone:           p.Phone,
		Products:        products,
	}
}

// ToPharmacyResponses converts a list of domain pharmacies
func ToPharmacyResponses(pharmacies []*pharmacy.Pharmacy) []PharmacyResponse {
	out := make([]PharmacyResponse, len(pharmacies))
	for i, p := range pharmacies {
		out[i] = ToPharmacyResponse(p)
	}
	return out
}
