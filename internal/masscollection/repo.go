package masscollection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("mass collection request not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const collectionColumns = `
collection_id, org_name, org_type, contact_person, contact_phone, contact_email,
address, pincode, estimated_items,
to_char(scheduled_date, 'YYYY-MM-DD'), scheduled_time,
status, tracking_note, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, p CreateParams) (int64, error) {
	const q = `
INSERT INTO mass_collection_requests
  (org_name, org_type, contact_person, contact_phone, contact_email,
   address, pincode, estimated_items, scheduled_date, scheduled_time,
   status, tracking_note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10,
        'pending', 'Mass collection request received, awaiting review and team assignment', now(), now())
RETURNING collection_id`
	var id int64
	err := r.pg.QueryRow(ctx, q,
		p.OrgName, p.OrgType, p.ContactPerson, p.ContactPhone, p.ContactEmail,
		p.Address, p.Pincode, p.EstimatedItems, p.ScheduledDate, p.ScheduledTime).Scan(&id)
	return id, err
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Collection, error) {
	q := `
SELECT ` + collectionColumns + `
FROM mass_collection_requests`
	var (
		args  []any
		conds []string
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.OrgType != "" {
		args = append(args, f.OrgType)
		conds = append(conds, fmt.Sprintf("org_type = $%d", len(args)))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		conds = append(conds, fmt.Sprintf("scheduled_date = $%d::date", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += "\nWHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += `
ORDER BY created_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Collection, error) {
	const q = `
SELECT ` + collectionColumns + `
FROM mass_collection_requests
WHERE collection_id = $1
LIMIT 1`
	var c Collection
	if err := scanInto(r.pg.QueryRow(ctx, q, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByEmail returns an organization's requests keyed by contact email,
// newest first. Both the tracking endpoint and the logged-in "my requests"
// view use this.
func (r *Repo) ListByEmail(ctx context.Context, email string) ([]Collection, error) {
	const q = `
SELECT ` + collectionColumns + `
FROM mass_collection_requests
WHERE contact_email = $1
ORDER BY created_at DESC`
	rows, err := r.pg.Query(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repo) UpdateStatus(ctx context.Context, id int64, status, trackingNote string) error {
	const q = `
UPDATE mass_collection_requests
SET status = $2, tracking_note = $3, updated_at = now()
WHERE collection_id = $1`
	tag, err := r.pg.Exec(ctx, q, id, status, trackingNote)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInto(row pgx.Row, c *Collection) error {
	return row.Scan(&c.ID, &c.OrgName, &c.OrgType, &c.ContactPerson, &c.ContactPhone, &c.ContactEmail,
		&c.Address, &c.Pincode, &c.EstimatedItems,
		&c.ScheduledDate, &c.ScheduledTime,
		&c.Status, &c.TrackingNote, &c.CreatedAt, &c.UpdatedAt)
}

func collect(rows pgx.Rows) ([]Collection, error) {
	var out []Collection
	for rows.Next() {
		var c Collection
		if err := scanInto(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
