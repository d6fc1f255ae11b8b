package pharmacy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/domain/shared"
)

// CatalogSource loads the seed catalog document into dst
type CatalogSource interface {
	Fetch(ctx context.Context, dst any) error
}

// Seeder loads the initial set of pharmacies from an external catalog
type Seeder struct {
	source     CatalogSource
	pharmacies shared.KeyedStore[*pharmacy.Pharmacy]
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(source CatalogSource, pharmacies shared.KeyedStore[*pharmacy.Pharmacy], log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		source:     source,
		pharmacies: pharmacies,
		logger:     log.Named("seeder"),
	}
}

// Seed fetches the catalog and inserts every entry as a new pharmacy.
// Entries are stored as served, without request validation. The first insert
// failure stops seeding; pharmacies inserted before it are kept.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	var entries []CreatePharmacyRequest
	if err := s.source.Fetch(ctx, &entries); err != nil {
		return 0, fmt.Errorf("seed pharmacies: %w", err)
	}

	for i, entry := range entries {
		if _, err := s.pharmacies.Insert(ctx, pharmacy.New(entry.IntegrationName, entry.details())); err != nil {
			return i, fmt.Errorf("seed pharmacy %q: %w", entry.IntegrationName, err)
		}
	}

	s.logger.Info("Pharmacies seeded", zap.Int("count", len(entries)))
	return len(entries), nil
}
