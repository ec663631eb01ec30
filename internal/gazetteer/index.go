package gazetteer

import (
	"clinicmap-api/internal/models"
	"clinicmap-api/internal/normalize"
)

// Coordinate is a plain WGS84 point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// TownLookup is the result of a town-level index hit.
type TownLookup struct {
	Coordinate
	DisplayTown string
}

// MunicipalityLookup is the result of a city-only index hit; it carries the
// prefecture so unresolved-prefecture records can be backfilled.
type MunicipalityLookup struct {
	Coordinate
	Prefecture string
}

// Index is the immutable lookup structure over the two reference datasets.
// It is built once per loaded gazetteer snapshot and safe for concurrent
// reads. Town keys pass through the same chome normalization as
// record-derived towns, so both sides compare directly.
type Index struct {
	byExactTown            map[string]TownLookup
	byAggregatedBaseTown   map[string]TownLookup
	byMunicipalityPrefCity map[string]Coordinate
	byMunicipalityCityOnly map[string]MunicipalityLookup
	matcher                *MunicipalityMatcher

	townCount         int
	municipalityCount int
}

type centroidAccumulator struct {
	sumLat, sumLng float64
	n              int
	displayTown    string
}

// NewIndex builds the index from both datasets. Entries missing a required
// field are ignored; sources are expected to have reported them already.
func NewIndex(towns []models.GazetteerTownEntry, municipalities []models.GazetteerMunicipalityEntry) *Index {
	idx := &Index{
		byExactTown:            make(map[string]TownLookup),
		byAggregatedBaseTown:   make(map[string]TownLookup),
		byMunicipalityPrefCity: make(map[string]Coordinate),
		byMunicipalityCityOnly: make(map[string]MunicipalityLookup),
	}

	centroids := make(map[string]*centroidAccumulator)

	for _, entry := range towns {
		if entry.City == "" || entry.Town == "" {
			continue
		}
		idx.townCount++

		town := normalize.StandardizeTownLabel(entry.Town)
		coord := Coordinate{Latitude: entry.Latitude, Longitude: entry.Longitude}
		lookup := TownLookup{Coordinate: coord, DisplayTown: town}

		keys := []string{models.LocationKey(entry.Prefecture, entry.City, town)}
		if entry.Prefecture != "" {
			// Blank-prefecture alias for records whose prefecture never
			// resolved.
			keys = append(keys, models.LocationKey("", entry.City, town))
		}
		for _, key := range keys {
			if _, exists := idx.byExactTown[key]; !exists {
				idx.byExactTown[key] = lookup
			}
		}

		base := normalize.RemoveChomeSuffix(town)
		if base == "" {
			continue
		}
		baseKeys := []string{models.LocationKey(entry.Prefecture, entry.City, base)}
		if entry.Prefecture != "" {
			baseKeys = append(baseKeys, models.LocationKey("", entry.City, base))
		}
		for _, key := range baseKeys {
			acc, exists := centroids[key]
			if !exists {
				acc = &centroidAccumulator{displayTown: base}
				centroids[key] = acc
			}
			acc.sumLat += entry.Latitude
			acc.sumLng += entry.Longitude
			acc.n++
		}
	}

	for key, acc := range centroids {
		idx.byAggregatedBaseTown[key] = TownLookup{
			Coordinate: Coordinate{
				Latitude:  acc.sumLat / float64(acc.n),
				Longitude: acc.sumLng / float64(acc.n),
			},
			DisplayTown: acc.displayTown,
		}
	}

	for _, entry := range municipalities {
		if entry.City == "" {
			continue
		}
		idx.municipalityCount++

		coord := Coordinate{Latitude: entry.Latitude, Longitude: entry.Longitude}
		key := models.LocationKey(entry.Prefecture, entry.City, "")
		if _, exists := idx.byMunicipalityPrefCity[key]; !exists {
			idx.byMunicipalityPrefCity[key] = coord
		}
		if _, exists := idx.byMunicipalityCityOnly[entry.City]; !exists {
			idx.byMunicipalityCityOnly[entry.City] = MunicipalityLookup{
				Coordinate: coord,
				Prefecture: entry.Prefecture,
			}
		}
	}

	idx.matcher = NewMunicipalityMatcher(municipalities)

	return idx
}

// ExactTown looks up a fully qualified (prefecture, city, town) key.
func (idx *Index) ExactTown(key string) (TownLookup, bool) {
	lookup, ok := idx.byExactTown[key]
	return lookup, ok
}

// AggregatedBaseTown looks up the centroid for a (prefecture, city, baseTown)
// key, covering chome-level gaps in the town dataset.
func (idx *Index) AggregatedBaseTown(key string) (TownLookup, bool) {
	lookup, ok := idx.byAggregatedBaseTown[key]
	return lookup, ok
}

// MunicipalityPrefCity looks up a municipality centroid by prefecture and city.
func (idx *Index) MunicipalityPrefCity(prefecture, city string) (Coordinate, bool) {
	coord, ok := idx.byMunicipalityPrefCity[models.LocationKey(prefecture, city, "")]
	return coord, ok
}

// MunicipalityCityOnly looks up the first-seen municipality entry for a bare
// city name. Used only when the prefecture is unresolved.
func (idx *Index) MunicipalityCityOnly(city string) (MunicipalityLookup, bool) {
	lookup, ok := idx.byMunicipalityCityOnly[city]
	return lookup, ok
}

// MatchMunicipality strips the longest known "prefecture+city" or "city"
// literal prefix from a normalized address.
func (idx *Index) MatchMunicipality(address string) (prefecture, city, remainder string, ok bool) {
	return idx.matcher.MatchPrefix(address)
}

// TownCount reports how many town rows were accepted into the index.
func (idx *Index) TownCount() int { return idx.townCount }

// MunicipalityCount reports how many municipality rows were accepted.
func (idx *Index) MunicipalityCount() int { return idx.municipalityCount }
