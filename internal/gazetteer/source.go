package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clinicmap-api/internal/models"

	"github.com/rs/zerolog/log"
)

// HTTPSource fetches the gazetteer datasets as plain static JSON assets.
// Retry and caching policy belong to the caller.
type HTTPSource struct {
	client          *http.Client
	townURL         string
	municipalityURL string
}

// NewHTTPSource creates a source reading the two dataset URLs.
func NewHTTPSource(townURL, municipalityURL string) *HTTPSource {
	return &HTTPSource{
		client:          &http.Client{Timeout: 30 * time.Second},
		townURL:         townURL,
		municipalityURL: municipalityURL,
	}
}

type townRow struct {
	Prefecture string   `json:"prefecture"`
	City       string   `json:"city"`
	Town       string   `json:"town"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type municipalityRow struct {
	Prefecture string   `json:"prefecture"`
	City       string   `json:"city"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// LoadTownEntries fetches the town-level dataset. Rows missing a required
// field are skipped individually; the rest of the dataset still loads.
func (s *HTTPSource) LoadTownEntries(ctx context.Context) ([]models.GazetteerTownEntry, error) {
	var rows []townRow
	if err := s.fetch(ctx, s.townURL, &rows); err != nil {
		return nil, fmt.Errorf("gazetteer: failed to load town dataset: %w", err)
	}

	entries := make([]models.GazetteerTownEntry, 0, len(rows))
	for i, row := range rows {
		if row.City == "" || row.Town == "" || row.Latitude == nil || row.Longitude == nil {
			log.Warn().Int("row", i).Str("city", row.City).Str("town", row.Town).
				Msg("skipping malformed town gazetteer row")
			continue
		}
		entries = append(entries, models.GazetteerTownEntry{
			Prefecture: row.Prefecture,
			City:       row.City,
			Town:       row.Town,
			Latitude:   *row.Latitude,
			Longitude:  *row.Longitude,
		})
	}
	return entries, nil
}

// LoadMunicipalityEntries fetches the municipality-level dataset with the
// same row-skipping behavior as LoadTownEntries.
func (s *HTTPSource) LoadMunicipalityEntries(ctx context.Context) ([]models.GazetteerMunicipalityEntry, error) {
	var rows []municipalityRow
	if err := s.fetch(ctx, s.municipalityURL, &rows); err != nil {
		return nil, fmt.Errorf("gazetteer: failed to load municipality dataset: %w", err)
	}

	entries := make([]models.GazetteerMunicipalityEntry, 0, len(rows))
	for i, row := range rows {
		if row.City == "" || row.Latitude == nil || row.Longitude == nil {
			log.Warn().Int("row", i).Str("city", row.City).
				Msg("skipping malformed municipality gazetteer row")
			continue
		}
		entries = append(entries, models.GazetteerMunicipalityEntry{
			Prefecture: row.Prefecture,
			City:       row.City,
			Latitude:   *row.Latitude,
			Longitude:  *row.Longitude,
		})
	}
	return entries, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}
