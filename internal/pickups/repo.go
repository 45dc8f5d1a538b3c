package pickups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("pickup request not found")
	ErrNotPending = errors.New("pickup request is not pending")
)

// querier is the slice of pgx shared by *pgxpool.Pool and pgx.Tx, so repo
// methods run the same inside WithDistrictLock transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	pg *pgxpool.Pool
	db querier
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg, db: pg}
}

func (r *Repo) Create(ctx context.Context, p CreateParams) (int64, error) {
	const q = `
INSERT INTO pickup_requests (user_id, device_id, address, district, scheduled_date, scheduled_time, status, tracking_note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::date, $6, 'pending', 'Pickup request received, awaiting processing', now(), now())
RETURNING pickup_id`
	var id int64
	err := r.db.QueryRow(ctx, q,
		p.UserID, p.DeviceID, p.Address, p.District, p.ScheduledDate, p.ScheduledTime).Scan(&id)
	return id, err
}

// CountByDistrictAndDate counts non-cancelled pickups booked for the district
// on the date (YYYY-MM-DD). Satisfies scheduling.BookingCounter.
func (r *Repo) CountByDistrictAndDate(ctx context.Context, district, date string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM pickup_requests
WHERE district = $1 AND scheduled_date = $2::date AND status <> 'cancelled'`
	var n int
	err := r.db.QueryRow(ctx, q, district, date).Scan(&n)
	return n, err
}

// WithDistrictLock runs fn inside a transaction holding a district-scoped
// advisory lock, serializing concurrent bookings for the same district. fn
// receives a transaction-bound repo; the transaction commits when fn returns
// nil.
func (r *Repo) WithDistrictLock(ctx context.Context, district string, fn func(*Repo) error) error {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1)::bigint)`, district); err != nil {
		return fmt.Errorf("acquire district lock: %w", err)
	}
	if err := fn(&Repo{pg: r.pg, db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const userPickupColumns = `
p.pickup_id, p.address, p.district,
to_char(p.scheduled_date, 'YYYY-MM-DD'), p.scheduled_time,
p.status, p.tracking_note, p.created_at, p.updated_at,
d.model_name, d.category, d.credits_value`

// ListByUser returns the user's pickups, most recently updated first.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]UserPickup, error) {
	const q = `
SELECT ` + userPickupColumns + `
FROM pickup_requests p
JOIN devices d ON p.device_id = d.device_id
WHERE p.user_id = $1
ORDER BY p.updated_at DESC, p.created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserPickup
	for rows.Next() {
		var p UserPickup
		err := rows.Scan(&p.ID, &p.Address, &p.District, &p.ScheduledDate, &p.ScheduledTime,
			&p.Status, &p.TrackingNote, &p.CreatedAt, &p.UpdatedAt,
			&p.DeviceName, &p.Category, &p.CreditsValue)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Detail, error) {
	const q = `
SELECT ` + userPickupColumns + `,
       p.user_id, u.name, u.email
FROM pickup_requests p
JOIN devices d ON p.device_id = d.device_id
JOIN users u ON p.user_id = u.user_id
WHERE p.pickup_id = $1
LIMIT 1`
	var p Detail
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Address, &p.District, &p.ScheduledDate, &p.ScheduledTime,
		&p.Status, &p.TrackingNote, &p.CreatedAt, &p.UpdatedAt,
		&p.DeviceName, &p.Category, &p.CreditsValue,
		&p.UserID, &p.UserName, &p.UserEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Cancel moves a pending pickup to cancelled; ErrNotPending when the row
// exists but has progressed past pending. Ownership is the caller's check.
func (r *Repo) Cancel(ctx context.Context, id int64) error {
	const q = `
UPDATE pickup_requests
SET status = 'cancelled', tracking_note = 'Cancelled by user', updated_at = now()
WHERE pickup_id = $1 AND status = 'pending'`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pickup_requests WHERE pickup_id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrNotPending
	}
	return nil
}

// AdminList returns all pickups with owner identity; status and date
// (YYYY-MM-DD) filter when non-empty.
func (r *Repo) AdminList(ctx context.Context, status, date string) ([]Detail, error) {
	q := `
SELECT ` + userPickupColumns + `,
       p.user_id, u.name, u.email
FROM pickup_requests p
JOIN devices d ON p.device_id = d.device_id
JOIN users u ON p.user_id = u.user_id`
	var (
		args  []any
		conds []string
	)
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if date != "" {
		args = append(args, date)
		conds = append(conds, fmt.Sprintf("p.scheduled_date = $%d::date", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += "\nWHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += `
ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var p Detail
		err := rows.Scan(&p.ID, &p.Address, &p.District, &p.ScheduledDate, &p.ScheduledTime,
			&p.Status, &p.TrackingNote, &p.CreatedAt, &p.UpdatedAt,
			&p.DeviceName, &p.Category, &p.CreditsValue,
			&p.UserID, &p.UserName, &p.UserEmail)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus sets status and tracking note, awarding the device's credits
// exactly once when the pickup first reaches completed. The pickup row is
// locked for the duration so a concurrent update cannot double-award.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status, trackingNote string) (StatusChange, error) {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return StatusChange{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `
SELECT p.user_id, p.status, d.model_name, d.credits_value
FROM pickup_requests p
JOIN devices d ON p.device_id = d.device_id
WHERE p.pickup_id = $1
FOR UPDATE OF p`
	var (
		userID     int64
		prevStatus string
		deviceName string
		credits    int
	)
	if err := tx.QueryRow(ctx, sel, id).Scan(&userID, &prevStatus, &deviceName, &credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StatusChange{}, ErrNotFound
		}
		return StatusChange{}, err
	}

	const upd = `
UPDATE pickup_requests
SET status = $2, tracking_note = $3, updated_at = now()
WHERE pickup_id = $1`
	if _, err := tx.Exec(ctx, upd, id, status, trackingNote); err != nil {
		return StatusChange{}, err
	}

	change := StatusChange{UserID: userID, DeviceName: deviceName}
	if status == StatusCompleted && prevStatus != StatusCompleted && credits > 0 {
		const award = `UPDATE users SET credits = COALESCE(credits, 0) + $2 WHERE user_id = $1`
		if _, err := tx.Exec(ctx, award, userID, credits); err != nil {
			return StatusChange{}, err
		}
		change.CreditsAwarded = credits
	}

	if err := tx.Commit(ctx); err != nil {
		return StatusChange{}, err
	}
	return change, nil
}

// RecentPickup backs the admin activity feed.
type RecentPickup struct {
	CreatedAt time.Time
	Status    string
	UserName  string
	ModelName string
}

// RecentPickups lists pickups created within the last `days` days.
func (r *Repo) RecentPickups(ctx context.Context, days, limit int) ([]RecentPickup, error) {
	const q = `
SELECT p.created_at, p.status, u.name, d.model_name
FROM pickup_requests p
JOIN users u ON p.user_id = u.user_id
JOIN devices d ON p.device_id = d.device_id
WHERE p.created_at >= now() - ($1 || ' days')::interval
ORDER BY p.created_at DESC
LIMIT $2`
	rows, err := r.db.Query(ctx, q, days, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentPickup
	for rows.Next() {
		var p RecentPickup
		if err := rows.Scan(&p.CreatedAt, &p.Status, &p.UserName, &p.ModelName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
