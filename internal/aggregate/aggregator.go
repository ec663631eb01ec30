package aggregate

import (
	"math"

	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/models"
	"clinicmap-api/internal/resolver"
)

// cityKeySuffix distinguishes city-granularity grouping keys from town keys.
const cityKeySuffix = ":city"

// LocationAggregator groups segmented records by their canonical key and
// accumulates the count and both histograms. Insertion order is preserved so
// repeated runs over the same input produce identical output.
type LocationAggregator struct {
	byKey map[string]*models.LocationAggregate
	order []string
}

// NewLocationAggregator creates an empty aggregator.
func NewLocationAggregator() *LocationAggregator {
	return &LocationAggregator{byKey: make(map[string]*models.LocationAggregate)}
}

// Add folds one segmented record into its aggregate, creating it on first
// sight. The grouping key prefers the exact town key, then the base-town key,
// then city granularity.
func (a *LocationAggregator) Add(seg models.DerivedSegments, rec models.RawVisitRecord) {
	key := seg.LocationKey
	if key == "" {
		key = seg.BaseLocationKey
	}
	if key == "" {
		key = seg.City + cityKeySuffix
	}

	agg, exists := a.byKey[key]
	if !exists {
		agg = &models.LocationAggregate{
			ID:                  key,
			Segments:            seg,
			DepartmentHistogram: make(map[string]int),
		}
		a.byKey[key] = agg
		a.order = append(a.order, key)
	}

	agg.Total++
	agg.AgeBandHistogram[models.AgeBandOf(rec.PatientAge)]++
	agg.DepartmentHistogram[rec.Department]++
}

// Aggregates returns the aggregates in first-seen order.
func (a *LocationAggregator) Aggregates() []*models.LocationAggregate {
	out := make([]*models.LocationAggregate, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.byKey[key])
	}
	return out
}

// Result is the output of one pipeline run.
type Result struct {
	Points   []models.ResolvedMapPoint `json:"points"`
	Coverage models.CoverageSummary    `json:"coverage"`
}

// Run executes the whole pipeline over an already-filtered record set:
// segment each record, group, resolve each group to a coordinate, and report
// coverage. A failure at any per-record or per-group step only affects that
// item.
func Run(index *gazetteer.Index, records []models.RawVisitRecord) Result {
	segments := resolver.NewSegmentResolver(index)
	coordinates := resolver.NewCoordinateResolver(index)
	aggregator := NewLocationAggregator()

	missing := 0
	for _, rec := range records {
		seg, ok := segments.Resolve(rec)
		if !ok {
			missing++
			continue
		}
		aggregator.Add(seg, rec)
	}

	points := []models.ResolvedMapPoint{}
	matched, unmatched := 0, 0
	for _, agg := range aggregator.Aggregates() {
		coord, ok := coordinates.Resolve(agg.Segments)
		if !ok {
			unmatched += agg.Total
			continue
		}
		matched += agg.Total
		points = append(points, models.ResolvedMapPoint{
			LocationAggregate:    *agg,
			Latitude:             coord.Latitude,
			Longitude:            coord.Longitude,
			MatchedGazetteerName: coord.MatchedName,
			MatchLevel:           coord.MatchLevel,
			DominantAgeBand:      models.DominantAgeBand(agg.AgeBandHistogram),
		})
	}

	return Result{
		Points:   points,
		Coverage: Summarize(len(records), matched, missing, unmatched),
	}
}

// Summarize computes the coverage summary for one run. An empty record set
// reports zero coverage without dividing by zero.
func Summarize(filteredTotal, matchedTotal, missingLocationCount, unmatchedCount int) models.CoverageSummary {
	percentage := 0.0
	if filteredTotal > 0 {
		percentage = round1(float64(matchedTotal) / float64(filteredTotal) * 100)
	}
	return models.CoverageSummary{
		FilteredTotal:        filteredTotal,
		MatchedTotal:         matchedTotal,
		MissingLocationCount: missingLocationCount,
		UnmatchedCount:       unmatchedCount,
		CoveragePercentage:   percentage,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
