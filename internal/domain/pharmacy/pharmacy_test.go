package pharmacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPharmacy() *Pharmacy {
	return New("healthmart", Details{
		Name:    "HealthMart Downtown",
		Address: "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Zipcode: "62701",
		Country: "US",
		Fax:     "555-0100",
		Phone:   "555-0101",
	})
}

func TestNew(t *testing.T) {
	p := newTestPharmacy()

	assert.Equal(t, "healthmart", p.ID)
	assert.Equal(t, "healthmart", p.IntegrationName)
	assert.True(t, p.IsActive())
	assert.Empty(t, p.Products)
	assert.Equal(t, "Springfield", p.City)
}

func TestPharmacy_AddProduct(t *testing.T) {
	p := newTestPharmacy()

	first := p.AddProduct("Aspirin", "asp-100")
	require.NotNil(t, first)
	assert.Len(t, first.ID, 32)
	assert.True(t, first.Active)

	t.Run("skips duplicate integration name", func(t *testing.T) {
		assert.Nil(t, p.AddProduct("Aspirin 2", "asp-100"))
		assert.Len(t, p.Products, 1)
	})

	t.Run("allows reuse after delete", func(t *testing.T) {
		require.NoError(t, p.RemoveProduct(first.ID))
		again := p.AddProduct("Aspirin", "asp-100")
		require.NotNil(t, again)
		assert.NotEqual(t, first.ID, again.ID)
		assert.Len(t, p.ActiveProducts(), 1)
	})
}

func TestPharmacy_RelabelProduct(t *testing.T) {
	p := newTestPharmacy()
	product := p.AddProduct("Aspirin", "asp-100")

	tests := []struct {
		name            string
		productID       string
		integrationName string
		wantErr         error
	}{
		{"matching product", product.ID, "asp-100", nil},
		{"integration name mismatch", product.ID, "other", ErrPharmacyProductNotFound},
		{"unknown product", "missing", "asp-100", ErrPharmacyProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.RelabelProduct(tt.productID, tt.integrationName, "Aspirin Forte")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Aspirin Forte", product.Label)
		})
	}
}

func TestPharmacy_RemoveProduct(t *testing.T) {
	p := newTestPharmacy()
	product := p.AddProduct("Aspirin", "asp-100")

	require.NoError(t, p.RemoveProduct(product.ID))
	assert.False(t, product.Active)
	_, ok := p.ActiveProduct(product.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, p.RemoveProduct(product.ID), ErrPharmacyProductNotFound)
}

func TestPharmacy_ApplyPatch(t *testing.T) {
	p := newTestPharmacy()
	name := "HealthMart Uptown"

	assert.True(t, Patch{}.Empty())

	patch := Patch{Name: &name}
	assert.False(t, patch.Empty())
	p.ApplyPatch(patch)

	assert.Equal(t, "HealthMart Uptown", p.Name)
	assert.Equal(t, "1 Main St", p.Address)
	assert.Equal(t, "healthmart", p.ID)
}
