package resolver

import (
	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/models"
)

// ResolvedCoordinate is a successful gazetteer match for one aggregate.
type ResolvedCoordinate struct {
	gazetteer.Coordinate
	MatchedName string
	MatchLevel  string
}

// CoordinateResolver maps an aggregate's segments to a coordinate through the
// ordered fallback chain: exact town, base town, aggregated base centroid,
// the same three with the prefecture blanked, then municipality centroids.
type CoordinateResolver struct {
	index *gazetteer.Index
}

// NewCoordinateResolver creates a coordinate resolver over the given index.
func NewCoordinateResolver(index *gazetteer.Index) *CoordinateResolver {
	return &CoordinateResolver{index: index}
}

// Resolve attempts each fallback level in order; the first hit wins. A false
// return means no gazetteer level could place the aggregate.
func (r *CoordinateResolver) Resolve(seg models.DerivedSegments) (ResolvedCoordinate, bool) {
	if lookup, ok := r.townMatch(seg.Prefecture, seg); ok {
		return ResolvedCoordinate{
			Coordinate:  lookup.Coordinate,
			MatchedName: lookup.DisplayTown,
			MatchLevel:  models.MatchLevelTown,
		}, true
	}
	if seg.Prefecture != "" {
		// Retry with the prefecture blanked: covers records whose city+town
		// is unambiguous even though the prefecture text never resolved to a
		// gazetteer spelling.
		if lookup, ok := r.townMatch("", seg); ok {
			return ResolvedCoordinate{
				Coordinate:  lookup.Coordinate,
				MatchedName: lookup.DisplayTown,
				MatchLevel:  models.MatchLevelTown,
			}, true
		}
	}

	if coord, ok := r.index.MunicipalityPrefCity(seg.Prefecture, seg.City); ok {
		return ResolvedCoordinate{
			Coordinate:  coord,
			MatchedName: seg.City,
			MatchLevel:  models.MatchLevelCity,
		}, true
	}
	if lookup, ok := r.index.MunicipalityCityOnly(seg.City); ok {
		return ResolvedCoordinate{
			Coordinate:  lookup.Coordinate,
			MatchedName: seg.City,
			MatchLevel:  models.MatchLevelCity,
		}, true
	}

	return ResolvedCoordinate{}, false
}

func (r *CoordinateResolver) townMatch(prefecture string, seg models.DerivedSegments) (gazetteer.TownLookup, bool) {
	if seg.Town != "" {
		if lookup, ok := r.index.ExactTown(models.LocationKey(prefecture, seg.City, seg.Town)); ok {
			return lookup, true
		}
	}
	if seg.BaseTown != "" {
		if lookup, ok := r.index.ExactTown(models.LocationKey(prefecture, seg.City, seg.BaseTown)); ok {
			return lookup, true
		}
	}
	if seg.Town != "" {
		if lookup, ok := r.index.AggregatedBaseTown(models.LocationKey(prefecture, seg.City, seg.Town)); ok {
			return lookup, true
		}
	}
	if seg.BaseTown != "" {
		if lookup, ok := r.index.AggregatedBaseTown(models.LocationKey(prefecture, seg.City, seg.BaseTown)); ok {
			return lookup, true
		}
	}
	return gazetteer.TownLookup{}, false
}
