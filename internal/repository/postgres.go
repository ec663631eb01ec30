package repository

import (
	"context"
	"fmt"

	"clinicmap-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads the gazetteer reference datasets from PostgreSQL, for
// deployments where the data is imported (see cmd/importer) instead of
// fetched as static assets. It satisfies the same GazetteerSource contract as
// the HTTP loader.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LoadTownEntries reads the town-level gazetteer. Rows missing a required
// field are filtered out in SQL, matching the skip-and-continue row policy.
func (r *Repository) LoadTownEntries(ctx context.Context) ([]models.GazetteerTownEntry, error) {
	sql := `
		SELECT
			COALESCE(prefecture, ''),
			city,
			town,
			latitude,
			longitude
		FROM gazetteer_towns
		WHERE city IS NOT NULL AND city <> ''
		  AND town IS NOT NULL AND town <> ''
		  AND latitude IS NOT NULL
		  AND longitude IS NOT NULL
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query town gazetteer: %w", err)
	}
	defer rows.Close()

	var entries []models.GazetteerTownEntry
	for rows.Next() {
		var entry models.GazetteerTownEntry
		err := rows.Scan(
			&entry.Prefecture,
			&entry.City,
			&entry.Town,
			&entry.Latitude,
			&entry.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan town entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating town rows: %w", err)
	}

	return entries, nil
}

// LoadMunicipalityEntries reads the municipality-level gazetteer with the
// same filtering policy as LoadTownEntries.
func (r *Repository) LoadMunicipalityEntries(ctx context.Context) ([]models.GazetteerMunicipalityEntry, error) {
	sql := `
		SELECT
			COALESCE(prefecture, ''),
			city,
			latitude,
			longitude
		FROM gazetteer_municipalities
		WHERE city IS NOT NULL AND city <> ''
		  AND latitude IS NOT NULL
		  AND longitude IS NOT NULL
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query municipality gazetteer: %w", err)
	}
	defer rows.Close()

	var entries []models.GazetteerMunicipalityEntry
	for rows.Next() {
		var entry models.GazetteerMunicipalityEntry
		err := rows.Scan(
			&entry.Prefecture,
			&entry.City,
			&entry.Latitude,
			&entry.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan municipality entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating municipality rows: %w", err)
	}

	return entries, nil
}
