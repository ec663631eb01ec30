package gazetteer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_LoadTownEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"prefecture":"大阪府","city":"大阪市西区","town":"北堀江二丁目","latitude":34.675,"longitude":135.493},
			{"prefecture":"大阪府","city":"","town":"欠損","latitude":34.0,"longitude":135.0},
			{"prefecture":"大阪府","city":"大阪市西区","town":"南堀江一丁目","longitude":135.49}
		]`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, server.URL)
	entries, err := source.LoadTownEntries(context.Background())
	require.NoError(t, err)

	// Rows with a missing city or latitude are skipped; the rest load.
	require.Len(t, entries, 1)
	assert.Equal(t, "北堀江二丁目", entries[0].Town)
	assert.Equal(t, 34.675, entries[0].Latitude)
}

func TestHTTPSource_LoadMunicipalityEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"prefecture":"大阪府","city":"大阪市","latitude":34.693,"longitude":135.502},
			{"city":"堺市美原区","latitude":34.541,"longitude":135.557}
		]`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, server.URL)
	entries, err := source.LoadMunicipalityEntries(context.Background())
	require.NoError(t, err)

	// An empty prefecture is allowed; only city and coordinates are required.
	require.Len(t, entries, 2)
	assert.Equal(t, "堺市美原区", entries[1].City)
}

func TestHTTPSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, server.URL)

	_, err := source.LoadTownEntries(context.Background())
	assert.Error(t, err)

	_, err = source.LoadMunicipalityEntries(context.Background())
	assert.Error(t, err)
}
