package models

// RawVisitRecord is a single clinic visit as delivered by the host dashboard,
// already filtered. The patient* fields decompose the Japanese address; any of
// them may be absent, in which case PatientAddress is the only signal.
type RawVisitRecord struct {
	Department        string  `json:"department"`
	ReservationMonth  string  `json:"reservationMonth"`
	PatientAge        *int    `json:"patientAge"`
	PatientPrefecture *string `json:"patientPrefecture,omitempty"`
	PatientCity       *string `json:"patientCity,omitempty"`
	PatientTown       *string `json:"patientTown,omitempty"`
	PatientBaseTown   *string `json:"patientBaseTown,omitempty"`
	PatientAddress    *string `json:"patientAddress"`
}

// DerivedSegments is the resolved address decomposition for one record.
// Empty string means the segment could not be derived. A non-empty
// LocationKey always implies a non-empty City.
type DerivedSegments struct {
	Prefecture      string `json:"prefecture"`
	City            string `json:"city"`
	Town            string `json:"town"`
	BaseTown        string `json:"baseTown"`
	LocationLabel   string `json:"locationLabel"`
	LocationKey     string `json:"locationKey"`
	BaseLocationKey string `json:"baseLocationKey"`
	// TownInferred marks towns produced by the trailing-digit heuristics
	// rather than an explicit 丁目 token or an explicit field. Such labels can
	// misread banchi numbers as chome.
	TownInferred bool `json:"townInferred"`
}

// keySeparator never occurs in Japanese place names, so joined keys are
// collision free.
const keySeparator = "|"

// LocationKey builds the canonical grouping key for a (prefecture, city,
// town) triple. Identical triples always produce identical keys.
func LocationKey(prefecture, city, town string) string {
	return prefecture + keySeparator + city + keySeparator + town
}
