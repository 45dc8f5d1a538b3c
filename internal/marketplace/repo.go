package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("listing not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

// ListActive returns active listings with seller identity, newest first.
func (r *Repo) ListActive(ctx context.Context, f Filter) ([]ListingWithSeller, error) {
	q := `
SELECT l.listing_id, l.user_id, l.device_name, l.condition_type, l.price,
       l.description, l.image_url, l.status, l.created_at,
       u.name AS seller_name, u.email AS seller_email
FROM marketplace_listings l
JOIN users u ON l.user_id = u.user_id
WHERE l.status = 'active'`
	var args []any
	if f.Condition != "" {
		args = append(args, f.Condition)
		q += fmt.Sprintf(" AND l.condition_type = $%d", len(args))
	}
	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		q += fmt.Sprintf(" AND l.price <= $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		q += fmt.Sprintf(" AND (l.device_name ILIKE $%d OR l.description ILIKE $%d)", len(args), len(args))
	}
	q += `
ORDER BY l.created_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithSeller(rows)
}

// AdminList returns listings of any status; status filters when non-empty.
func (r *Repo) AdminList(ctx context.Context, status string) ([]ListingWithSeller, error) {
	q := `
SELECT l.listing_id, l.user_id, l.device_name, l.condition_type, l.price,
       l.description, l.image_url, l.status, l.created_at,
       u.name AS seller_name, u.email AS seller_email
FROM marketplace_listings l
JOIN users u ON l.user_id = u.user_id`
	var args []any
	if status != "" {
		q += `
WHERE l.status = $1`
		args = append(args, status)
	}
	q += `
ORDER BY l.created_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithSeller(rows)
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*ListingWithSeller, error) {
	const q = `
SELECT l.listing_id, l.user_id, l.device_name, l.condition_type, l.price,
       l.description, l.image_url, l.status, l.created_at,
       u.name AS seller_name, u.email AS seller_email
FROM marketplace_listings l
JOIN users u ON l.user_id = u.user_id
WHERE l.listing_id = $1
LIMIT 1`
	var l ListingWithSeller
	err := r.pg.QueryRow(ctx, q, id).Scan(
		&l.ID, &l.UserID, &l.DeviceName, &l.ConditionType, &l.Price,
		&l.Description, &l.ImageURL, &l.Status, &l.CreatedAt,
		&l.SellerName, &l.SellerEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// OwnerOf returns the user_id holding the listing; used for ownership checks
// before update/delete.
func (r *Repo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := r.pg.QueryRow(ctx, `SELECT user_id FROM marketplace_listings WHERE listing_id = $1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return owner, nil
}

func (r *Repo) Create(ctx context.Context, userID int64, deviceName, conditionType string, price float64, description, imageURL *string) (int64, error) {
	const q = `
INSERT INTO marketplace_listings (user_id, device_name, condition_type, price, description, image_url, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', now())
RETURNING listing_id`
	var id int64
	err := r.pg.QueryRow(ctx, q, userID, deviceName, conditionType, price, description, imageURL).Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, id int64, u Update) error {
	const q = `
UPDATE marketplace_listings
SET device_name = COALESCE($2, device_name),
    condition_type = COALESCE($3, condition_type),
    price = COALESCE($4, price),
    description = COALESCE($5, description),
    image_url = COALESCE($6, image_url),
    status = COALESCE($7, status)
WHERE listing_id = $1`
	tag, err := r.pg.Exec(ctx, q, id, u.DeviceName, u.ConditionType, u.Price, u.Description, u.ImageURL, u.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pg.Exec(ctx, `DELETE FROM marketplace_listings WHERE listing_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Listing, error) {
	const q = `
SELECT listing_id, user_id, device_name, condition_type, price, description, image_url, status, created_at
FROM marketplace_listings
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.pg.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		err := rows.Scan(&l.ID, &l.UserID, &l.DeviceName, &l.ConditionType, &l.Price,
			&l.Description, &l.ImageURL, &l.Status, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetStatus moves the listing to the given status; admin approval uses this
// with StatusActive.
func (r *Repo) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pg.Exec(ctx, `UPDATE marketplace_listings SET status = $2 WHERE listing_id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pg.QueryRow(ctx, `SELECT COUNT(*) FROM marketplace_listings WHERE status = $1`, status).Scan(&n)
	return n, err
}

func collectWithSeller(rows pgx.Rows) ([]ListingWithSeller, error) {
	var out []ListingWithSeller
	for rows.Next() {
		var l ListingWithSeller
		err := rows.Scan(&l.ID, &l.UserID, &l.DeviceName, &l.ConditionType, &l.Price,
			&l.Description, &l.ImageURL, &l.Status, &l.CreatedAt,
			&l.SellerName, &l.SellerEmail)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
