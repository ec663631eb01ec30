package resolver

import (
	"regexp"
	"strings"

	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/models"
	"clinicmap-api/internal/normalize"
)

// Legacy patterns kept as the last address-parsing fallback when no
// municipality candidate matches: a ward-qualified city, then a bare city.
var (
	legacyPrefecture = regexp.MustCompile(`^(.+?[都道府県])`)
	legacyWardCity   = regexp.MustCompile(`^(.+?市.+?区)`)
	legacyCity       = regexp.MustCompile(`^(.+?市)`)
)

// SegmentResolver derives the address segments for one record. Explicit
// fields always win over address-derived values.
type SegmentResolver struct {
	index *gazetteer.Index
}

// NewSegmentResolver creates a segment resolver over the given index.
func NewSegmentResolver(index *gazetteer.Index) *SegmentResolver {
	return &SegmentResolver{index: index}
}

// Resolve derives the segments for a record. The second return is false when
// no city could be determined at all; such records are excluded from
// aggregation and counted as missing.
func (r *SegmentResolver) Resolve(rec models.RawVisitRecord) (models.DerivedSegments, bool) {
	address := ""
	if rec.PatientAddress != nil {
		address = strings.TrimSpace(normalize.NormalizeDashes(normalize.NormalizeDigits(*rec.PatientAddress)))
	}

	prefecture := optional(rec.PatientPrefecture)
	city := optional(rec.PatientCity)

	remainder := ""
	if address != "" {
		if p, c, rest, ok := r.index.MatchMunicipality(address); ok {
			if prefecture == "" {
				prefecture = p
			}
			if city == "" {
				city = c
			}
			remainder = rest
		} else if p, c, rest, ok := legacySegments(address); ok {
			if prefecture == "" {
				prefecture = p
			}
			if city == "" {
				city = c
			}
			remainder = rest
		}
	}

	if city == "" {
		return models.DerivedSegments{}, false
	}

	if prefecture == "" {
		if lookup, ok := r.index.MunicipalityCityOnly(city); ok {
			prefecture = lookup.Prefecture
		}
	}

	town := ""
	townInferred := false
	if explicit := optional(rec.PatientTown); explicit != "" {
		town = normalize.StandardizeTownLabel(explicit)
	} else if remainder != "" {
		if c, inferred, ok := normalize.NormalizeChome(remainder); ok {
			town = c
			townInferred = inferred
		}
	}

	baseTown := optional(rec.PatientBaseTown)
	if baseTown == "" && town != "" {
		baseTown = normalize.RemoveChomeSuffix(town)
	}

	seg := models.DerivedSegments{
		Prefecture:   prefecture,
		City:         city,
		Town:         town,
		BaseTown:     baseTown,
		TownInferred: townInferred,
	}
	if town != "" {
		seg.LocationLabel = city + town
		seg.LocationKey = models.LocationKey(prefecture, city, town)
	} else if baseTown != "" {
		seg.LocationLabel = city + baseTown
	} else {
		seg.LocationLabel = city
	}
	if baseTown != "" {
		seg.BaseLocationKey = models.LocationKey(prefecture, city, baseTown)
	}

	return seg, true
}

func legacySegments(address string) (prefecture, city, remainder string, ok bool) {
	if m := legacyPrefecture.FindStringSubmatch(address); m != nil {
		prefecture = m[1]
		address = address[len(m[1]):]
	}
	for _, re := range []*regexp.Regexp{legacyWardCity, legacyCity} {
		if m := re.FindStringSubmatch(address); m != nil {
			return prefecture, m[1], address[len(m[1]):], true
		}
	}
	return "", "", "", false
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
