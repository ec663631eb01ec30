package resolver

import (
	"testing"

	"clinicmap-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateResolver_ExactTownMatch(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	coord, ok := r.Resolve(models.DerivedSegments{
		Prefecture:  "大阪府",
		City:        "大阪市西区",
		Town:        "北堀江二丁目",
		BaseTown:    "北堀江",
		LocationKey: models.LocationKey("大阪府", "大阪市西区", "北堀江二丁目"),
	})
	require.True(t, ok)

	assert.Equal(t, 34.675, coord.Latitude)
	assert.Equal(t, 135.493, coord.Longitude)
	assert.Equal(t, "北堀江二丁目", coord.MatchedName)
	assert.Equal(t, models.MatchLevelTown, coord.MatchLevel)
}

func TestCoordinateResolver_BaseTownCentroidBeatsMunicipality(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	// 北堀江五丁目 is absent from the exact index, but 北堀江 has an
	// aggregated centroid over chome 1-2. A municipality entry for the same
	// city also exists; the town-level centroid must still win.
	coord, ok := r.Resolve(models.DerivedSegments{
		Prefecture: "大阪府",
		City:       "大阪市西区",
		Town:       "北堀江五丁目",
		BaseTown:   "北堀江",
	})
	require.True(t, ok)

	assert.Equal(t, models.MatchLevelTown, coord.MatchLevel)
	assert.Equal(t, "北堀江", coord.MatchedName)
	assert.InDelta(t, 34.673, coord.Latitude, 1e-9)
	assert.InDelta(t, 135.492, coord.Longitude, 1e-9)
}

func TestCoordinateResolver_BlankPrefectureFallback(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	// A misspelled prefecture misses every qualified key; the blanked
	// retry still finds the town.
	coord, ok := r.Resolve(models.DerivedSegments{
		Prefecture: "大坂府",
		City:       "大阪市西区",
		Town:       "北堀江二丁目",
		BaseTown:   "北堀江",
	})
	require.True(t, ok)

	assert.Equal(t, models.MatchLevelTown, coord.MatchLevel)
	assert.Equal(t, 34.675, coord.Latitude)
}

func TestCoordinateResolver_MunicipalityFallback(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	coord, ok := r.Resolve(models.DerivedSegments{
		Prefecture: "大阪府",
		City:       "堺市美原区",
	})
	require.True(t, ok)

	assert.Equal(t, models.MatchLevelCity, coord.MatchLevel)
	assert.Equal(t, "堺市美原区", coord.MatchedName)
	assert.Equal(t, 34.541, coord.Latitude)
}

func TestCoordinateResolver_CityOnlyMunicipalityFallback(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	coord, ok := r.Resolve(models.DerivedSegments{
		City: "堺市美原区",
	})
	require.True(t, ok)

	assert.Equal(t, models.MatchLevelCity, coord.MatchLevel)
}

func TestCoordinateResolver_NoMatch(t *testing.T) {
	r := NewCoordinateResolver(testIndex())

	_, ok := r.Resolve(models.DerivedSegments{
		Prefecture: "北海道",
		City:       "札幌市中央区",
		Town:       "大通西一丁目",
	})
	assert.False(t, ok)
}
