package gazetteer

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/models"
)

// minPrefixLen is the shortest input for which prefix matching is attempted.
const minPrefixLen = 3

// Lookup finds a city by name. A "City, Region" query must match both parts.
// Otherwise an exact name match is tried, then a name prefix that belongs to
// exactly one city name; ties between same-named cities go to the larger
// population. A miss is reported as apperr.ErrNotFound.
func (db *DB) Lookup(name string) (models.Location, error) {
	key := normalize(name)
	if key == "" {
		return models.Location{}, apperr.ErrNotFound
	}

	if city, region, ok := strings.Cut(key, ","); ok {
		return db.queryOne(`
			SELECT name, region, timezone, latitude, longitude FROM cities
			WHERE name_key = ? AND region_key = ?
			ORDER BY population DESC LIMIT 1
		`, strings.TrimSpace(city), strings.TrimSpace(region))
	}

	loc, err := db.byNameKey(key)
	if !errors.Is(err, apperr.ErrNotFound) {
		return loc, err
	}

	if len(key) < minPrefixLen {
		return models.Location{}, apperr.ErrNotFound
	}
	match, err := db.uniquePrefix(key)
	if err != nil {
		return models.Location{}, err
	}
	return db.byNameKey(match)
}

func (db *DB) byNameKey(key string) (models.Location, error) {
	return db.queryOne(`
		SELECT name, region, timezone, latitude, longitude FROM cities
		WHERE name_key = ?
		ORDER BY population DESC LIMIT 1
	`, key)
}

// uniquePrefix returns the only name key starting with prefix.
func (db *DB) uniquePrefix(prefix string) (string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT name_key FROM cities
		WHERE name_key LIKE ? ESCAPE '\'
		LIMIT 2
	`, escapeLike(prefix)+"%")
	if err != nil {
		return "", fmt.Errorf("gazetteer: prefix lookup: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return "", fmt.Errorf("gazetteer: prefix lookup: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("gazetteer: prefix lookup: %w", err)
	}
	if len(keys) != 1 {
		return "", apperr.ErrNotFound
	}
	return keys[0], nil
}

func (db *DB) queryOne(query string, args ...any) (models.Location, error) {
	var loc models.Location
	err := db.conn.QueryRow(query, args...).Scan(&loc.Name, &loc.Region, &loc.Timezone, &loc.Latitude, &loc.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Location{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("gazetteer: lookup: %w", err)
	}
	return loc, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// City is a gazetteer row.
type City struct {
	models.Location
	Population int64
}

const upsertSQL = `
	INSERT INTO cities (name, name_key, region, region_key, timezone, latitude, longitude, population)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name_key, region_key) DO UPDATE SET
		name       = excluded.name,
		region     = excluded.region,
		timezone   = excluded.timezone,
		latitude   = excluded.latitude,
		longitude  = excluded.longitude,
		population = excluded.population
`
