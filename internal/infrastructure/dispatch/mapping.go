package dispatch

import (
	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/domain/order"
)

// FieldMapping names the JSON fields a vendor uses for the order payload.
// Customer fields are CustomerPrefix followed by Name, Address, City, State,
// Zipcode or Country.
type FieldMapping struct {
	Vendor         integration.Vendor
	Product        string
	Quantity       string
	CustomerObject string
	CustomerPrefix string
	IDField        string
}

var (
	// HealthMartMapping is the HealthMart order wire format
	HealthMartMapping = FieldMapping{
		Vendor:         integration.VendorHealthMart,
		Product:        "healthMartProduct",
		Quantity:       "healthMartQuantity",
		CustomerObject: "healthMartCustomerInfo",
		CustomerPrefix: "healthMartCust",
		IDField:        "healthMartId",
	}

	// CarePlusMapping is the CarePlus order wire format
	CarePlusMapping = FieldMapping{
		Vendor:         integration.VendorCarePlus,
		Product:        "carePlusProduct",
		Quantity:       "carePlusQuantity",
		CustomerObject: "carePlusClientInfo",
		CustomerPrefix: "carePlusClient",
		IDField:        "carePlusId",
	}

	// QuickCareMapping is the QuickCare order wire format
	QuickCareMapping = FieldMapping{
		Vendor:         integration.VendorQuickCare,
		Product:        "quickCareProduct",
		Quantity:       "quickCareQuantity",
		CustomerObject: "quickCareUserData",
		CustomerPrefix: "quickCareUser",
		IDField:        "quickCareId",
	}
)

// MappingFor returns the wire format of a known vendor
func MappingFor(v integration.Vendor) (FieldMapping, bool) {
	switch v {
	case integration.VendorHealthMart:
		return HealthMartMapping, true
	case integration.VendorCarePlus:
		return CarePlusMapping, true
	case integration.VendorQuickCare:
		return QuickCareMapping, true
	}
	return FieldMapping{}, false
}

// Payload renders the order in the vendor's request shape.
func (m FieldMapping) Payload(o *order.Order) map[string]any {
	c := o.Customer
	return map[string]any{
		m.Product:  o.Product.IntegrationName,
		m.Quantity: o.Quantity,
		m.CustomerObject: map[string]string{
			m.CustomerPrefix + "Name":    c.FullName,
			m.CustomerPrefix + "Address": c.Address,
			m.CustomerPrefix + "City":    c.City,
			m.CustomerPrefix + "State":   c.State,
			m.CustomerPrefix + "Zipcode": c.ZipCode,
			m.CustomerPrefix + "Country": c.Country,
		},
	}
}
