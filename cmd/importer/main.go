package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"clinicmap-api/internal/config"

	"github.com/jackc/pgx/v5"
)

type townRecord struct {
	Prefecture string
	City       string
	Town       string
	Lat        float64
	Lon        float64
}

type municipalityRecord struct {
	Prefecture string
	City       string
	Lat        float64
	Lon        float64
}

func main() {
	townsFile := flag.String("towns", "", "Path to the town gazetteer CSV (prefecture,city,town,latitude,longitude)")
	municipalitiesFile := flag.String("municipalities", "", "Path to the municipality gazetteer CSV (prefecture,city,latitude,longitude)")
	flag.Parse()

	if *townsFile == "" || *municipalitiesFile == "" {
		fmt.Println("Error: --towns and --municipalities flags are required")
		os.Exit(1)
	}

	towns, err := parseTownCSV(*townsFile)
	if err != nil {
		fmt.Printf("Error parsing town CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d town records\n", len(towns))

	municipalities, err := parseMunicipalityCSV(*municipalitiesFile)
	if err != nil {
		fmt.Printf("Error parsing municipality CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d municipality records\n", len(municipalities))

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	if err := createTablesIfNotExist(conn); err != nil {
		fmt.Printf("Error creating tables: %v\n", err)
		os.Exit(1)
	}

	if err := insertTowns(conn, towns); err != nil {
		fmt.Printf("Error inserting town records: %v\n", err)
		os.Exit(1)
	}

	if err := insertMunicipalities(conn, municipalities); err != nil {
		fmt.Printf("Error inserting municipality records: %v\n", err)
		os.Exit(1)
	}

	if err := verifyImport(conn, len(towns), len(municipalities)); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d town and %d municipality records\n", len(towns), len(municipalities))
}

func parseTownCSV(filePath string) ([]townRecord, error) {
	rows, err := readCSV(filePath, 5)
	if err != nil {
		return nil, err
	}

	var records []townRecord
	for _, row := range rows {
		lat, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", row[3])
		}
		lon, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", row[4])
		}
		records = append(records, townRecord{
			Prefecture: row[0],
			City:       row[1],
			Town:       row[2],
			Lat:        lat,
			Lon:        lon,
		})
	}
	return records, nil
}

func parseMunicipalityCSV(filePath string) ([]municipalityRecord, error) {
	rows, err := readCSV(filePath, 4)
	if err != nil {
		return nil, err
	}

	var records []municipalityRecord
	for _, row := range rows {
		lat, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", row[2])
		}
		lon, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", row[3])
		}
		records = append(records, municipalityRecord{
			Prefecture: row[0],
			City:       row[1],
			Lat:        lat,
			Lon:        lon,
		})
	}
	return records, nil
}

func readCSV(filePath string, minColumns int) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	_, err = reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(row) < minColumns {
			return nil, fmt.Errorf("invalid record length: %d, expected at least %d columns", len(row), minColumns)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func createTablesIfNotExist(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS gazetteer_towns (
		id BIGSERIAL PRIMARY KEY,
		prefecture VARCHAR(255),
		city VARCHAR(255),
		town VARCHAR(255),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	);
	CREATE TABLE IF NOT EXISTS gazetteer_municipalities (
		id BIGSERIAL PRIMARY KEY,
		prefecture VARCHAR(255),
		city VARCHAR(255),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	);
	CREATE INDEX IF NOT EXISTS gazetteer_towns_city_idx ON gazetteer_towns (city);
	CREATE INDEX IF NOT EXISTS gazetteer_municipalities_city_idx ON gazetteer_municipalities (city);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertTowns(conn *pgx.Conn, records []townRecord) error {
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"gazetteer_towns"},
		[]string{"prefecture", "city", "town", "latitude", "longitude"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Prefecture, r.City, r.Town, r.Lat, r.Lon}, nil
		}),
	)
	return err
}

func insertMunicipalities(conn *pgx.Conn, records []municipalityRecord) error {
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"gazetteer_municipalities"},
		[]string{"prefecture", "city", "latitude", "longitude"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Prefecture, r.City, r.Lat, r.Lon}, nil
		}),
	)
	return err
}

func verifyImport(conn *pgx.Conn, expectedTowns, expectedMunicipalities int) error {
	var towns, municipalities int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM gazetteer_towns").Scan(&towns)
	if err != nil {
		return fmt.Errorf("failed to count town records: %w", err)
	}
	err = conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM gazetteer_municipalities").Scan(&municipalities)
	if err != nil {
		return fmt.Errorf("failed to count municipality records: %w", err)
	}

	if towns != expectedTowns {
		return fmt.Errorf("town record count mismatch: expected %d, got %d", expectedTowns, towns)
	}
	if municipalities != expectedMunicipalities {
		return fmt.Errorf("municipality record count mismatch: expected %d, got %d", expectedMunicipalities, municipalities)
	}

	return nil
}
