package application

import (
	"fmt"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/rules"
)

// ValidateService runs compatibility rules against fleet drones and
// component pairs.
type ValidateService struct {
	catalog domain.CatalogRepository
	fleet   domain.FleetRepository
}

func NewValidateService(catalog domain.CatalogRepository, fleet domain.FleetRepository) *ValidateService {
	return &ValidateService{catalog: catalog, fleet: fleet}
}

// ValidateDrone checks one fleet drone against every loaded constraint.
func (s *ValidateService) ValidateDrone(slug string) (*domain.ValidationReport, error) {
	b, err := s.fleet.Load(slug)
	if err != nil {
		return nil, fmt.Errorf("loading drone %q: %w", slug, err)
	}
	validator, err := s.validator()
	if err != nil {
		return nil, err
	}
	return validator.ValidateBuild(b), nil
}

// CheckPair runs every two-component rule that applies to the pair of
// catalog component IDs. Returns the resolved component types alongside
// the results.
func (s *ValidateService) CheckPair(idA, idB string) (typeA, typeB string, results []domain.ValidationResult, err error) {
	components, err := s.catalog.LoadComponents()
	if err != nil {
		return "", "", nil, fmt.Errorf("loading components: %w", err)
	}

	a := findByID(components, idA)
	if a == nil {
		return "", "", nil, fmt.Errorf("unknown component %q", idA)
	}
	b := findByID(components, idB)
	if b == nil {
		return "", "", nil, fmt.Errorf("unknown component %q", idB)
	}

	validator, err := s.validator()
	if err != nil {
		return "", "", nil, err
	}
	return a.Type, b.Type, validator.CheckPair(a, b), nil
}

func (s *ValidateService) validator() (*rules.Validator, error) {
	constraints, err := s.catalog.LoadConstraints()
	if err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	}
	return rules.NewValidator(constraints), nil
}

func findByID(components map[string][]*domain.Component, id string) *domain.Component {
	for _, list := range components {
		for _, c := range list {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}
