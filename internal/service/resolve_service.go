package service

import (
	"context"
	"fmt"
	"sync"

	"clinicmap-api/internal/aggregate"
	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/models"

	"github.com/rs/zerolog/log"
)

// GazetteerSource loads the two reference datasets, wherever they live.
type GazetteerSource interface {
	LoadTownEntries(ctx context.Context) ([]models.GazetteerTownEntry, error)
	LoadMunicipalityEntries(ctx context.Context) ([]models.GazetteerMunicipalityEntry, error)
}

// Status describes the gazetteer readiness state for the host dashboard.
type Status struct {
	Ready             bool   `json:"ready"`
	TownCount         int    `json:"townCount"`
	MunicipalityCount int    `json:"municipalityCount"`
	LastLoadError     string `json:"lastLoadError,omitempty"`
}

// ResolveService owns the load-once gazetteer lifecycle and runs the
// resolution pipeline against the current index snapshot. Until a load
// succeeds, resolution runs against an empty index, so every group reports as
// unmatched instead of blocking.
type ResolveService struct {
	source GazetteerSource

	mu      sync.RWMutex
	index   *gazetteer.Index
	ready   bool
	loadErr error
}

// NewResolveService creates a service that is not yet ready; call
// LoadGazetteers to load the reference data.
func NewResolveService(source GazetteerSource) *ResolveService {
	return &ResolveService{
		source: source,
		index:  gazetteer.NewIndex(nil, nil),
	}
}

// LoadGazetteers fetches both datasets and swaps in a freshly built index.
// It is idempotent and safe to retry after a failure; a failed load leaves
// any previously loaded index in place.
func (s *ResolveService) LoadGazetteers(ctx context.Context) error {
	towns, err := s.source.LoadTownEntries(ctx)
	if err != nil {
		s.recordLoadError(err)
		return fmt.Errorf("service: failed to load town gazetteer: %w", err)
	}

	municipalities, err := s.source.LoadMunicipalityEntries(ctx)
	if err != nil {
		s.recordLoadError(err)
		return fmt.Errorf("service: failed to load municipality gazetteer: %w", err)
	}

	index := gazetteer.NewIndex(towns, municipalities)

	s.mu.Lock()
	s.index = index
	s.ready = true
	s.loadErr = nil
	s.mu.Unlock()

	log.Info().
		Int("towns", index.TownCount()).
		Int("municipalities", index.MunicipalityCount()).
		Msg("gazetteer datasets loaded")

	return nil
}

// Ready reports whether a gazetteer snapshot has been loaded.
func (s *ResolveService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Status returns the readiness state, dataset sizes and last load error.
func (s *ResolveService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Ready:             s.ready,
		TownCount:         s.index.TownCount(),
		MunicipalityCount: s.index.MunicipalityCount(),
	}
	if s.loadErr != nil {
		status.LastLoadError = s.loadErr.Error()
	}
	return status
}

// Resolve runs the pipeline over an already-filtered record set against the
// current index snapshot. Concurrent calls share the snapshot; a reload
// during a run never affects it.
func (s *ResolveService) Resolve(ctx context.Context, records []models.RawVisitRecord) (aggregate.Result, error) {
	if err := ctx.Err(); err != nil {
		return aggregate.Result{}, fmt.Errorf("service: resolution cancelled: %w", err)
	}

	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	result := aggregate.Run(index, records)

	log.Info().
		Int("records", result.Coverage.FilteredTotal).
		Int("points", len(result.Points)).
		Float64("coverage", result.Coverage.CoveragePercentage).
		Msg("resolved record set")

	return result, nil
}

func (s *ResolveService) recordLoadError(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}
