package facilities

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("facility not found")
	ErrReferenced = errors.New("facility referenced by other records")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const facilityColumns = `facility_id, name, address, latitude, longitude, contact, operating_hours, website, created_at`

func (r *Repo) List(ctx context.Context) ([]Facility, error) {
	const q = `
SELECT ` + facilityColumns + `
FROM facilities
ORDER BY name ASC`
	rows, err := r.pg.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := scanInto(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Nearby returns facilities within radiusKm of the point, closest first,
// capped at 200 rows. The haversine argument is clamped to [-1, 1] so acos
// never gets an out-of-range value from floating-point drift.
func (r *Repo) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyFacility, error) {
	const q = `
SELECT ` + facilityColumns + `,
       ROUND((6371 * acos(LEAST(1, GREATEST(-1,
           cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2))
           + sin(radians($1)) * sin(radians(latitude))))))::numeric, 2) AS distance_km
FROM facilities
WHERE 6371 * acos(LEAST(1, GREATEST(-1,
          cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2))
          + sin(radians($1)) * sin(radians(latitude))))) <= $3
ORDER BY distance_km ASC
LIMIT 200`

	rows, err := r.pg.Query(ctx, q, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NearbyFacility
	for rows.Next() {
		var f NearbyFacility
		err := rows.Scan(&f.ID, &f.Name, &f.Address, &f.Latitude, &f.Longitude,
			&f.Contact, &f.OperatingHours, &f.Website, &f.CreatedAt, &f.DistanceKm)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Facility, error) {
	const q = `
SELECT ` + facilityColumns + `
FROM facilities
WHERE facility_id = $1
LIMIT 1`
	var f Facility
	if err := scanInto(r.pg.QueryRow(ctx, q, id), &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (int64, error) {
	const q = `
INSERT INTO facilities (name, address, latitude, longitude, contact, operating_hours, website, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING facility_id`
	var id int64
	err := r.pg.QueryRow(ctx, q,
		in.Name, in.Address, in.Latitude, in.Longitude, in.Contact, in.OperatingHours, in.Website).Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) error {
	const q = `
UPDATE facilities
SET name = $2,
    address = $3,
    latitude = $4,
    longitude = $5,
    contact = $6,
    operating_hours = $7,
    website = $8
WHERE facility_id = $1`
	tag, err := r.pg.Exec(ctx, q,
		id, in.Name, in.Address, in.Latitude, in.Longitude, in.Contact, in.OperatingHours, in.Website)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pg.Exec(ctx, `DELETE FROM facilities WHERE facility_id = $1`, id)
	if err != nil {
		// foreign key violation: history or requests still point here
		type pgErr interface{ SQLState() string }
		if e, ok := err.(pgErr); ok && e.SQLState() == "23503" {
			return ErrReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pg.QueryRow(ctx, `SELECT COUNT(*) FROM facilities`).Scan(&n)
	return n, err
}

func scanInto(row pgx.Row, f *Facility) error {
	return row.Scan(&f.ID, &f.Name, &f.Address, &f.Latitude, &f.Longitude,
		&f.Contact, &f.OperatingHours, &f.Website, &f.CreatedAt)
}
