// Package sqlite persists recorded landslide incidents and serves proximity
// lookups for the historical score.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/slopewatch/landslide-risk/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	latitude    REAL NOT NULL,
	longitude   REAL NOT NULL,
	occurred_at TEXT NOT NULL,
	severity    TEXT NOT NULL,
	notes       TEXT
);

CREATE INDEX IF NOT EXISTS idx_incidents_lat_lon ON incidents (latitude, longitude);
`

// Repository stores landslide incidents in SQLite. It implements
// risk.IncidentRepository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the incident database and runs migrations.
func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Insert records one incident.
func (r *Repository) Insert(ctx context.Context, inc domain.Incident) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incidents (latitude, longitude, occurred_at, severity, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		inc.Location.Latitude, inc.Location.Longitude,
		inc.OccurredAt.UTC().Format(time.RFC3339), inc.Severity, inc.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

// FindNearby returns incidents within radiusKm of the coordinate. A
// bounding-box prefilter runs in SQL against the lat/lon index; exact
// great-circle distance is checked in Go.
func (r *Repository) FindNearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]domain.Incident, error) {
	latDelta, lonDelta := boundingBox(c.Latitude, radiusKm)

	rows, err := r.db.QueryContext(ctx,
		`SELECT latitude, longitude, occurred_at, severity, notes
		 FROM incidents
		 WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`,
		c.Latitude-latDelta, c.Latitude+latDelta,
		c.Longitude-lonDelta, c.Longitude+lonDelta,
	)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	var found []domain.Incident
	for rows.Next() {
		var inc domain.Incident
		var occurredAt string
		var notes sql.NullString
		if err := rows.Scan(&inc.Location.Latitude, &inc.Location.Longitude, &occurredAt, &inc.Severity, &notes); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.OccurredAt, err = time.Parse(time.RFC3339, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
		}
		inc.Notes = notes.String

		if domain.HaversineKm(c, inc.Location) <= radiusKm {
			found = append(found, inc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return found, nil
}

// Count returns the total number of recorded incidents.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return n, nil
}

// boundingBox returns lat/lon half-widths in degrees covering radiusKm
// around the given latitude. The longitude width grows toward the poles and
// is clamped to a full hemisphere.
func boundingBox(lat, radiusKm float64) (latDelta, lonDelta float64) {
	const kmPerDegree = 111.32
	latDelta = radiusKm / kmPerDegree

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta = radiusKm / (kmPerDegree * cosLat)
	if lonDelta > 180 {
		lonDelta = 180
	}
	return latDelta, lonDelta
}
