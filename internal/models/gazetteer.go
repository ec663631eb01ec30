package models

// GazetteerTownEntry is one row of the town-level reference dataset. Town
// names use kanji chome numerals (e.g. 北堀江二丁目).
type GazetteerTownEntry struct {
	Prefecture string  `json:"prefecture"`
	City       string  `json:"city"`
	Town       string  `json:"town"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// GazetteerMunicipalityEntry is one row of the municipality-level reference
// dataset, locating a whole city or ward.
type GazetteerMunicipalityEntry struct {
	Prefecture string  `json:"prefecture"`
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}
