package models

// Age band bucket indices. Bands are fixed; every age maps to exactly one.
const (
	AgeBand0to19 = iota
	AgeBand20to39
	AgeBand40to59
	AgeBand60to79
	AgeBand80Plus
	AgeBandUnknown
	NumAgeBands
)

// AgeBandLabels gives the display label for each bucket, youngest first.
var AgeBandLabels = [NumAgeBands]string{"0-19", "20-39", "40-59", "60-79", "80+", "unknown"}

// AgeBandOf maps a patient age to its bucket index. Missing or implausible
// ages (negative, above 120) land in the unknown bucket.
func AgeBandOf(age *int) int {
	if age == nil {
		return AgeBandUnknown
	}
	a := *age
	switch {
	case a < 0 || a > 120:
		return AgeBandUnknown
	case a < 20:
		return AgeBand0to19
	case a < 40:
		return AgeBand20to39
	case a < 60:
		return AgeBand40to59
	case a < 80:
		return AgeBand60to79
	default:
		return AgeBand80Plus
	}
}

// DominantAgeBand picks the winning bucket label, youngest-to-oldest on
// ties. The unknown bucket can only win when it is the sole non-zero bucket.
func DominantAgeBand(hist [NumAgeBands]int) string {
	best := -1
	max := 0
	for i := 0; i < AgeBandUnknown; i++ {
		if hist[i] > max {
			max = hist[i]
			best = i
		}
	}
	if best >= 0 {
		return AgeBandLabels[best]
	}
	return AgeBandLabels[AgeBandUnknown]
}

// LocationAggregate accumulates the visit counts for one resolved location.
// Total always equals the sum of each histogram.
type LocationAggregate struct {
	ID                  string           `json:"id"`
	Segments            DerivedSegments  `json:"segments"`
	Total               int              `json:"total"`
	AgeBandHistogram    [NumAgeBands]int `json:"ageBandHistogram"`
	DepartmentHistogram map[string]int   `json:"departmentHistogram"`
}

// Match levels for a resolved coordinate.
const (
	MatchLevelTown = "town"
	MatchLevelCity = "city"
)

// ResolvedMapPoint is a LocationAggregate that found a coordinate in the
// gazetteer, ready for plotting.
type ResolvedMapPoint struct {
	LocationAggregate
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	MatchedGazetteerName string  `json:"matchedGazetteerName"`
	MatchLevel           string  `json:"matchLevel"`
	DominantAgeBand      string  `json:"dominantAgeBand"`
}

// CoverageSummary reports how much of the filtered record set reached the
// map. missingLocationCount + unmatchedCount + matchedTotal == filteredTotal.
type CoverageSummary struct {
	FilteredTotal        int     `json:"filteredTotal"`
	MatchedTotal         int     `json:"matchedTotal"`
	MissingLocationCount int     `json:"missingLocationCount"`
	UnmatchedCount       int     `json:"unmatchedCount"`
	CoveragePercentage   float64 `json:"coveragePercentage"`
}
