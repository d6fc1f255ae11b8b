package pharmacy

import (
	"github.com/pharmalink/backend/internal/domain/shared"
)

// Namespace is the store namespace for pharmacies
const Namespace = "pharmacy"

// Pharmacy is a fulfillment partner. Its id is the integration name, which also
// selects the adapter used to dispatch its orders.
type Pharmacy struct {
	shared.BaseEntity
	IntegrationName string     `json:"integrationName"`
	Name            string     `json:"name"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Zipcode         string     `json:"zipcode"`
	Country         string     `json:"country"`
	Fax             string     `json:"fax"`
	Phone           string     `json:"phone"`
	Products        []*Product `json:"products"`
}

// Product is an item a pharmacy can fulfil
type Product struct {
	ID              string `json:"id"`
	Active          bool   `json:"isActive"`
	Label           string `json:"label"`
	IntegrationName string `json:"integrationName"`
}

// Details groups the descriptive fields of a pharmacy
type Details struct {
	Name    string
	Address string
	City    string
	State   string
	Zipcode string
	Country string
	Fax     string
	Phone   string
}

// New returns an active pharmacy keyed by its integration name
func New(integrationName string, d Details) *Pharmacy {
	p := &Pharmacy{
		BaseEntity:      shared.NewBaseEntity(integrationName),
		IntegrationName: integrationName,
		Products:        []*Product{},
	}
	p.apply(d)
	return p
}

func (p *Pharmacy) apply(d Details) {
	p.Name = d.Name
	p.Address = d.Address
	p.City = d.City
	p.State = d.State
	p.Zipcode = d.Zipcode
	p.Country = d.Country
	p.Fax = d.Fax
	p.Phone = d.Phone
}

// Patch holds optional field changes. Nil fields are left untouched.
// The integration name is not patchable; it is the pharmacy's id.
type Patch struct {
	Name    *string
	Address *string
	City    *string
	State   *string
	Zipcode *string
	Country *string
	Fax     *string
	Phone   *string
}

// Empty reports whether the patch carries no change
func (pt Patch) Empty() bool {
	return pt.Name == nil && pt.Address == nil &&
		pt.City == nil && pt.State == nil && pt.Zipcode == nil &&
		pt.Country == nil && pt.Fax == nil && pt.Phone == nil
}

// ApplyPatch merges the non-nil fields of the patch into the pharmacy
func (p *Pharmacy) ApplyPatch(pt Patch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, pt.Name)
	set(&p.Address, pt.Address)
	set(&p.City, pt.City)
	set(&p.State, pt.State)
	set(&p.Zipcode, pt.Zipcode)
	set(&p.Country, pt.Country)
	set(&p.Fax, pt.Fax)
	set(&p.Phone, pt.Phone)
}

// AddProduct appends a new active product unless an active product with the
// same integration name already exists. It returns nil when the product was skipped.
func (p *Pharmacy) AddProduct(label, integrationName string) *Product {
	for _, existing := range p.Products {
		if existing.Active && existing.IntegrationName == integrationName {
			return nil
		}
	}
	product := &Product{
		ID:              shared.NewID(),
		Active:          true,
		Label:           label,
		IntegrationName: integrationName,
	}
	p.Products = append(p.Products, product)
	return product
}

// ActiveProduct returns the active product with the given id
func (p *Pharmacy) ActiveProduct(productID string) (*Product, bool) {
	for _, product := range p.Products {
		if product.Active && product.ID == productID {
			return product, true
		}
	}
	return nil, false
}

// ActiveProducts returns the products that have not been deleted
func (p *Pharmacy) ActiveProducts() []*Product {
	active := make([]*Product, 0, len(p.Products))
	for _, product := range p.Products {
		if product.Active {
			active = append(active, product)
		}
	}
	return active
}

// RelabelProduct changes the label of an active product. The integration name
// must match the stored one.
func (p *Pharmacy) RelabelProduct(productID, integrationName, label string) error {
	product, ok := p.ActiveProduct(productID)
	if !ok || product.IntegrationName != integrationName {
		return ErrPharmacyProductNotFound
	}
	product.Label = label
	return nil
}

// RemoveProduct soft deletes an active product
func (p *Pharmacy) RemoveProduct(productID string) error {
	product, ok := p.ActiveProduct(productID)
	if !ok {
		return ErrPharmacyProductNotFound
	}
	product.Active = false
	return nil
}
