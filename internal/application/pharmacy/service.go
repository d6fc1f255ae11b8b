// Package pharmacy manages the pharmacy catalog and its products.
package pharmacy

import (
	"context"

	"go.uber.org/zap"

	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/pharmalink/backend/internal/infrastructure/logger"
	"github.com/pharmalink/backend/internal/infrastructure/validation"
)

// Service handles pharmacy catalog operations
type Service struct {
	pharmacies shared.KeyedStore[*pharmacy.Pharmacy]
	validator  *validation.Validator
	logger     *zap.Logger
}

// NewService creates a new pharmacy Service
func NewService(pharmacies shared.KeyedStore[*pharmacy.Pharmacy], log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		pharmacies: pharmacies,
		validator:  validation.New(),
		logger:     log.Named("pharmacy"),
	}
}

// Create registers a pharmacy under its integration name
func (s *Service) Create(ctx context.Context, req CreatePharmacyRequest) (*PharmacyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	created, err := s.pharmacies.Insert(ctx, pharmacy.New(req.IntegrationName, req.details()))
	if err != nil {
		return nil, err
	}

	response := ToPharmacyResponse(created)
	return &response, nil
}

// List returns every active pharmacy
func (s *Service) List(ctx context.Context) ([]PharmacyResponse, error) {
	pharmacies, err := s.pharmacies.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToPharmacyResponses(pharmacies), nil
}

// Get returns a pharmacy by id
func (s *Service) Get(ctx context.Context, id string) (*PharmacyResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPharmacyResponse(p)
	return &response, nil
}

// Update merges the present fields of req into the pharmacy
func (s *Service) Update(ctx context.Context, id string, req UpdatePharmacyRequest) (*PharmacyResponse, error) {
	patch := req.patch()
	if patch.Empty() {
		return nil, shared.NewValidationError(shared.FieldViolation{
			Field:   "body",
			Message: "At least one field is required",
		})
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ApplyPatch(patch)

	return s.save(ctx, p)
}

// Delete soft deletes a pharmacy
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.pharmacies.Delete(ctx, id)
}

// AddProducts adds the given products to a pharmacy. Products whose
// integration name is already active on the pharmacy are skipped, and the
// pharmacy is only written when at least one product was added.
func (s *Service) AddProducts(ctx context.Context, id string, reqs []ProductRequest) (*PharmacyResponse, error) {
	if err := s.validator.Struct(productBatch{Products: reqs}); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	added := 0
	for _, req := range reqs {
		if p.AddProduct(req.Label, req.IntegrationName) == nil {
			logger.Or(ctx, s.logger).Debug("Product already exists, skipped",
				zap.String("pharmacy_id", id),
				zap.String("integration_name", req.IntegrationName),
			)
			continue
		}
		added++
	}

	if added == 0 {
		response := ToPharmacyResponse(p)
		return &response, nil
	}
	return s.save(ctx, p)
}

// UpdateProduct relabels an active product. req.IntegrationName must match
// the stored product; it is an identity check, not a change.
func (s *Service) UpdateProduct(ctx context.Context, id, productID string, req ProductRequest) (*PharmacyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RelabelProduct(productID, req.IntegrationName, req.Label); err != nil {
		return nil, err
	}

	return s.save(ctx, p)
}

// DeleteProduct soft deletes an active product
func (s *Service) DeleteProduct(ctx context.Context, id, productID string) (*PharmacyResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RemoveProduct(productID); err != nil {
		return nil, err
	}

	return s.save(ctx, p)
}

func (s *Service) load(ctx context.Context, id string) (*pharmacy.Pharmacy, error) {
	p, found, err := s.pharmacies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pharmacy.ErrPharmacyNotFound
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p *pharmacy.Pharmacy) (*PharmacyResponse, error) {
	updated, err := s.pharmacies.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	response := ToPharmacyResponse(updated)
	return &response, nil
}
