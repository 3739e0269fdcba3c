package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/dayglow/internal/models"
)

// ImportStats summarises an Import run.
type ImportStats struct {
	Imported int
	Skipped  int
}

var header = []string{"name", "region", "timezone", "latitude", "longitude", "population"}

// Import upserts cities from CSV with the columns
// name,region,timezone,latitude,longitude[,population]. A header row is
// optional. Rows that do not describe a valid location are skipped and
// counted; the whole import runs in one transaction.
func (db *DB) Import(r io.Reader) (ImportStats, error) {
	var stats ImportStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	tx, err := db.conn.Begin()
	if err != nil {
		return stats, fmt.Errorf("gazetteer: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		return stats, fmt.Errorf("gazetteer: prepare upsert: %w", err)
	}
	defer stmt.Close()

	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("gazetteer: read csv: %w", err)
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		c, ok := parseRow(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		if _, err := stmt.Exec(c.Name, normalize(c.Name), c.Region, normalize(c.Region),
			c.Timezone, c.Latitude, c.Longitude, c.Population); err != nil {
			return stats, fmt.Errorf("gazetteer: insert %s: %w", c.Name, err)
		}
		stats.Imported++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("gazetteer: commit: %w", err)
	}
	return stats, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), header[0])
}

func parseRow(rec []string) (City, bool) {
	if len(rec) < 5 {
		return City{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return City{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
	if err != nil {
		return City{}, false
	}
	c := City{Location: models.Location{
		Name:      strings.TrimSpace(rec[0]),
		Region:    strings.TrimSpace(rec[1]),
		Timezone:  strings.TrimSpace(rec[2]),
		Latitude:  lat,
		Longitude: lon,
	}}
	if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
		pop, err := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)
		if err != nil {
			return City{}, false
		}
		c.Population = pop
	}
	if err := c.Validate(); err != nil {
		return City{}, false
	}
	return c, true
}
