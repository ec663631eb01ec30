package aggregate

import (
	"testing"

	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func testIndex() *gazetteer.Index {
	towns := []models.GazetteerTownEntry{
		{Prefecture: "大阪府", City: "大阪市西区", Town: "北堀江一丁目", Latitude: 34.671, Longitude: 135.491},
		{Prefecture: "大阪府", City: "大阪市西区", Town: "北堀江二丁目", Latitude: 34.675, Longitude: 135.493},
		{Prefecture: "大阪府", City: "大阪市西区", Town: "北堀江三丁目", Latitude: 34.679, Longitude: 135.495},
		{Prefecture: "大阪府", City: "大阪市西区", Town: "北堀江四丁目", Latitude: 34.683, Longitude: 135.497},
	}
	municipalities := []models.GazetteerMunicipalityEntry{
		{Prefecture: "大阪府", City: "大阪市", Latitude: 34.693, Longitude: 135.502},
		{Prefecture: "大阪府", City: "大阪市西区", Latitude: 34.676, Longitude: 135.486},
		{Prefecture: "大阪府", City: "堺市美原区", Latitude: 34.541, Longitude: 135.557},
	}
	return gazetteer.NewIndex(towns, municipalities)
}

func record(address string, age int, department string) models.RawVisitRecord {
	return models.RawVisitRecord{
		Department:       department,
		ReservationMonth: "2024-04",
		PatientAge:       intPtr(age),
		PatientAddress:   strPtr(address),
	}
}

func TestRun_ExactTownResolution(t *testing.T) {
	result := Run(testIndex(), []models.RawVisitRecord{
		record("大阪府大阪市西区北堀江2丁目1-11", 34, "内科"),
	})

	require.Len(t, result.Points, 1)
	point := result.Points[0]

	assert.Equal(t, 34.675, point.Latitude)
	assert.Equal(t, 135.493, point.Longitude)
	assert.Equal(t, models.MatchLevelTown, point.MatchLevel)
	assert.Equal(t, "北堀江二丁目", point.MatchedGazetteerName)
	assert.Equal(t, "大阪市西区北堀江二丁目", point.Segments.LocationLabel)
	assert.Equal(t, "20-39", point.DominantAgeBand)
	assert.Equal(t, 100.0, result.Coverage.CoveragePercentage)
}

func TestRun_BaseTownCentroidResolution(t *testing.T) {
	// 北堀江五丁目 has no exact row; the 北堀江 centroid over chome 1-4
	// places it at town level anyway.
	result := Run(testIndex(), []models.RawVisitRecord{
		record("大阪市西区北堀江5丁目2-8", 52, "整形外科"),
	})

	require.Len(t, result.Points, 1)
	point := result.Points[0]

	assert.Equal(t, models.MatchLevelTown, point.MatchLevel)
	assert.Equal(t, "北堀江", point.MatchedGazetteerName)
	assert.InDelta(t, 34.677, point.Latitude, 1e-9)
	assert.InDelta(t, 135.494, point.Longitude, 1e-9)
}

func TestRun_MunicipalityResolution(t *testing.T) {
	result := Run(testIndex(), []models.RawVisitRecord{
		record("大阪府堺市美原区黒山21", 67, "皮膚科"),
	})

	require.Len(t, result.Points, 1)
	point := result.Points[0]

	assert.Equal(t, models.MatchLevelCity, point.MatchLevel)
	assert.Equal(t, "堺市美原区", point.MatchedGazetteerName)
	assert.Equal(t, 34.541, point.Latitude)
}

func TestRun_MissingLocation(t *testing.T) {
	result := Run(testIndex(), []models.RawVisitRecord{
		record("認識できない住所テキスト", 40, "内科"),
	})

	assert.Empty(t, result.Points)
	assert.Equal(t, 1, result.Coverage.MissingLocationCount)
	assert.Equal(t, 0, result.Coverage.MatchedTotal)
	assert.Equal(t, 0.0, result.Coverage.CoveragePercentage)
}

func TestRun_EmptyRecordSet(t *testing.T) {
	result := Run(testIndex(), nil)

	assert.Empty(t, result.Points)
	assert.Equal(t, 0.0, result.Coverage.CoveragePercentage)
	assert.Equal(t, 0, result.Coverage.FilteredTotal)
}

func TestRun_GroupingAndHistograms(t *testing.T) {
	records := []models.RawVisitRecord{
		record("大阪府大阪市西区北堀江2丁目1-11", 8, "小児科"),
		record("大阪府大阪市西区北堀江2丁目5-3", 34, "内科"),
		record("大阪府大阪市西区北堀江2丁目9-2", 36, "内科"),
		{
			Department:       "内科",
			ReservationMonth: "2024-04",
			PatientAddress:   strPtr("大阪府大阪市西区北堀江2丁目2-2"),
		},
	}

	result := Run(testIndex(), records)

	require.Len(t, result.Points, 1)
	point := result.Points[0]

	assert.Equal(t, 4, point.Total)
	assert.Equal(t, 1, point.AgeBandHistogram[models.AgeBand0to19])
	assert.Equal(t, 2, point.AgeBandHistogram[models.AgeBand20to39])
	assert.Equal(t, 1, point.AgeBandHistogram[models.AgeBandUnknown])
	assert.Equal(t, map[string]int{"小児科": 1, "内科": 3}, point.DepartmentHistogram)
	assert.Equal(t, "20-39", point.DominantAgeBand)
}

func TestRun_HistogramSumsEqualTotal(t *testing.T) {
	records := []models.RawVisitRecord{
		record("大阪府大阪市西区北堀江1丁目1-1", 25, "内科"),
		record("大阪府大阪市西区北堀江1丁目2-2", 72, "外科"),
		record("大阪府大阪市西区北堀江9丁目3-3", 5, "小児科"),
		record("大阪府堺市美原区黒山21", 88, "皮膚科"),
		{Department: "内科", PatientAddress: strPtr("大阪市西区北堀江3")},
	}

	result := Run(testIndex(), records)

	for _, point := range result.Points {
		ageSum := 0
		for _, n := range point.AgeBandHistogram {
			ageSum += n
		}
		deptSum := 0
		for _, n := range point.DepartmentHistogram {
			deptSum += n
		}
		assert.Equal(t, point.Total, ageSum)
		assert.Equal(t, point.Total, deptSum)
	}
}

func TestRun_CoverageInvariant(t *testing.T) {
	records := []models.RawVisitRecord{
		record("大阪府大阪市西区北堀江2丁目1-11", 30, "内科"), // matched at town level
		record("大阪府堺市美原区黒山21", 60, "内科"),       // matched at city level
		record("北海道札幌市中央区大通西1丁目", 45, "内科"),    // city derived, no gazetteer row
		record("認識できない住所テキスト", 50, "内科"),       // no city at all
		{Department: "内科"}, // no address at all
	}

	result := Run(testIndex(), records)
	cov := result.Coverage

	assert.Equal(t, 5, cov.FilteredTotal)
	assert.Equal(t, 2, cov.MatchedTotal)
	assert.Equal(t, 2, cov.MissingLocationCount)
	assert.Equal(t, 1, cov.UnmatchedCount)
	assert.Equal(t, cov.FilteredTotal, cov.MissingLocationCount+cov.UnmatchedCount+cov.MatchedTotal)
	assert.Equal(t, 40.0, cov.CoveragePercentage)
}

func TestRun_EmptyIndexTreatsEverythingAsUnmatched(t *testing.T) {
	index := gazetteer.NewIndex(nil, nil)

	result := Run(index, []models.RawVisitRecord{
		record("大阪府大阪市西区北堀江2丁目1-11", 30, "内科"),
	})

	// The municipality matcher is empty too, but the legacy regex still
	// derives a city, so the record lands in unmatched rather than missing.
	assert.Empty(t, result.Points)
	assert.Equal(t, 1, result.Coverage.UnmatchedCount)
	assert.Equal(t, 0, result.Coverage.MissingLocationCount)
}

func TestDominantAgeBand_Ties(t *testing.T) {
	tests := []struct {
		name     string
		hist     [models.NumAgeBands]int
		expected string
	}{
		{
			name:     "younger band wins ties",
			hist:     [models.NumAgeBands]int{2, 2, 0, 0, 0, 0},
			expected: "0-19",
		},
		{
			name:     "unknown loses to any known band",
			hist:     [models.NumAgeBands]int{0, 1, 0, 0, 0, 9},
			expected: "20-39",
		},
		{
			name:     "unknown wins only when alone",
			hist:     [models.NumAgeBands]int{0, 0, 0, 0, 0, 3},
			expected: "unknown",
		},
		{
			name:     "oldest band can win outright",
			hist:     [models.NumAgeBands]int{1, 0, 0, 0, 4, 2},
			expected: "80+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.DominantAgeBand(tt.hist))
		})
	}
}

func TestSummarize_Rounding(t *testing.T) {
	cov := Summarize(3, 1, 1, 1)
	assert.Equal(t, 33.3, cov.CoveragePercentage)

	cov = Summarize(6, 4, 1, 1)
	assert.Equal(t, 66.7, cov.CoveragePercentage)
}
