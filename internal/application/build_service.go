package application

import (
	"fmt"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/optimize"
	"github.com/dronedoctor/dronedoctor/internal/domain/perf"
	"github.com/dronedoctor/dronedoctor/internal/domain/rules"
)

// BuildService covers build analysis: performance estimation for fleet
// drones and build suggestions from the component catalog.
type BuildService struct {
	catalog domain.CatalogRepository
	fleet   domain.FleetRepository
}

func NewBuildService(catalog domain.CatalogRepository, fleet domain.FleetRepository) *BuildService {
	return &BuildService{catalog: catalog, fleet: fleet}
}

// Performance estimates the flight envelope of one fleet drone.
func (s *BuildService) Performance(slug string) (*domain.Build, *perf.Report, error) {
	b, err := s.fleet.Load(slug)
	if err != nil {
		return nil, nil, fmt.Errorf("loading drone %q: %w", slug, err)
	}
	report, err := perf.Calculate(b)
	if err != nil {
		return nil, nil, fmt.Errorf("estimating performance for %q: %w", slug, err)
	}
	return b, report, nil
}

// Suggest proposes catalog builds for a class and budget. Nil
// priorities fall back to even weights.
func (s *BuildService) Suggest(droneClass string, budgetUSD float64, priorities map[string]float64) ([]optimize.Suggestion, error) {
	components, err := s.catalog.LoadComponents()
	if err != nil {
		return nil, fmt.Errorf("loading components: %w", err)
	}
	constraints, err := s.catalog.LoadConstraints()
	if err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	}

	suggester := optimize.NewSuggester(components, rules.NewValidator(constraints))
	return suggester.Suggest(optimize.Request{
		DroneClass: droneClass,
		BudgetUSD:  budgetUSD,
		Priorities: priorities,
	}), nil
}
