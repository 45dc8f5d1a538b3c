package devices

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("device not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const deviceColumns = `device_id, model_name, category, gold, silver, copper, credits_value`

func (r *Repo) List(ctx context.Context) ([]Device, error) {
	const q = `
SELECT ` + deviceColumns + `
FROM devices
ORDER BY category ASC, model_name ASC`
	rows, err := r.pg.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Device, error) {
	const q = `
SELECT ` + deviceColumns + `
FROM devices
WHERE device_id = $1
LIMIT 1`
	return scanDevice(r.pg.QueryRow(ctx, q, id))
}

// FindByModelName tries an exact match first, then a substring match.
func (r *Repo) FindByModelName(ctx context.Context, modelName string) (*Device, error) {
	const exact = `
SELECT ` + deviceColumns + `
FROM devices
WHERE model_name = $1
LIMIT 1`
	d, err := scanDevice(r.pg.QueryRow(ctx, exact, modelName))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	const partial = `
SELECT ` + deviceColumns + `
FROM devices
WHERE model_name ILIKE $1
LIMIT 1`
	return scanDevice(r.pg.QueryRow(ctx, partial, "%"+modelName+"%"))
}

// FindByModelNameExact matches the model name case-insensitively with no
// substring fallback. The image-identification flow uses this to avoid
// pricing a wrong device off a loose match.
func (r *Repo) FindByModelNameExact(ctx context.Context, modelName string) (*Device, error) {
	const q = `
SELECT ` + deviceColumns + `
FROM devices
WHERE LOWER(model_name) = LOWER($1)
LIMIT 1`
	return scanDevice(r.pg.QueryRow(ctx, q, modelName))
}

// Search matches model names by substring, optionally restricted to a
// category, capped at 20 rows.
func (r *Repo) Search(ctx context.Context, query, category string) ([]Device, error) {
	q := `
SELECT ` + deviceColumns + `
FROM devices
WHERE model_name ILIKE $1`
	args := []any{"%" + query + "%"}
	if category != "" {
		q += ` AND category = $2`
		args = append(args, category)
	}
	q += `
ORDER BY model_name ASC
LIMIT 20`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func scanDevice(row pgx.Row) (*Device, error) {
	var d Device
	err := row.Scan(&d.ID, &d.ModelName, &d.Category, &d.Gold, &d.Silver, &d.Copper, &d.CreditsValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func collect(rows pgx.Rows) ([]Device, error) {
	var out []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.ModelName, &d.Category, &d.Gold, &d.Silver, &d.Copper, &d.CreditsValue); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
