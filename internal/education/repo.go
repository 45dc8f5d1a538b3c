package education

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("educational content not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const contentColumns = `content_id, title, description, image_url, category, created_at`

// List returns content newest first, optionally filtered by category.
func (r *Repo) List(ctx context.Context, category string) ([]Content, error) {
	q := `
SELECT ` + contentColumns + `
FROM educational_content`
	var args []any
	if category != "" {
		q += `
WHERE category = $1`
		args = append(args, category)
	}
	q += `
ORDER BY created_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		var c Content
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Content, error) {
	const q = `
SELECT ` + contentColumns + `
FROM educational_content
WHERE content_id = $1
LIMIT 1`
	var c Content
	err := r.pg.QueryRow(ctx, q, id).Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// RandomFact picks one content row uniformly at random; ErrNotFound when the
// table is empty.
func (r *Repo) RandomFact(ctx context.Context) (*Content, error) {
	const q = `
SELECT ` + contentColumns + `
FROM educational_content
ORDER BY random()
LIMIT 1`
	var c Content
	err := r.pg.QueryRow(ctx, q).Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Categories(ctx context.Context) ([]CategoryCount, error) {
	const q = `
SELECT category, COUNT(*) AS count
FROM educational_content
GROUP BY category
ORDER BY category ASC`
	rows, err := r.pg.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
