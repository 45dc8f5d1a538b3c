package recycling

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("recycling request not found")
	ErrAlreadyProcessed = errors.New("recycling request already processed")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

func (r *Repo) CreateRequest(ctx context.Context, userID, deviceID int64, facilityID *int64, yearOfPurchase *int) (int64, error) {
	const q = `
INSERT INTO recycling_requests (user_id, device_id, facility_id, year_of_purchase, status, submitted_at)
VALUES ($1, $2, $3, $4, 'pending', now())
RETURNING request_id`
	var id int64
	err := r.pg.QueryRow(ctx, q, userID, deviceID, facilityID, yearOfPurchase).Scan(&id)
	return id, err
}

// ListByUser returns the user's requests with joined device fields, newest
// first.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]RequestRow, error) {
	const q = `
SELECT r.request_id, r.year_of_purchase, r.status, r.submitted_at, r.processed_at,
       u.name, u.email,
       d.model_name, d.category, d.credits_value,
       f.name, f.address,
       NULL::text
FROM recycling_requests r
JOIN users u ON r.user_id = u.user_id
JOIN devices d ON r.device_id = d.device_id
LEFT JOIN facilities f ON r.facility_id = f.facility_id
WHERE r.user_id = $1
ORDER BY r.submitted_at DESC`
	rows, err := r.pg.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

// AdminList returns all requests with joined user, device, facility and
// processing-admin fields; status filters when non-empty.
func (r *Repo) AdminList(ctx context.Context, status string) ([]RequestRow, error) {
	q := `
SELECT r.request_id, r.year_of_purchase, r.status, r.submitted_at, r.processed_at,
       u.name, u.email,
       d.model_name, d.category, d.credits_value,
       f.name, f.address,
       admin.name
FROM recycling_requests r
JOIN users u ON r.user_id = u.user_id
JOIN devices d ON r.device_id = d.device_id
LEFT JOIN facilities f ON r.facility_id = f.facility_id
LEFT JOIN users admin ON r.processed_by = admin.user_id`
	var args []any
	if status != "" {
		q += `
WHERE r.status = $1`
		args = append(args, status)
	}
	q += `
ORDER BY r.submitted_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

// Approve marks a pending request approved, records the history entry, and
// credits the user, all in one transaction with the request row locked.
// Returns the credits awarded.
func (r *Repo) Approve(ctx context.Context, requestID, adminID int64) (int, error) {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `
SELECT r.user_id, r.device_id, r.facility_id, d.credits_value
FROM recycling_requests r
JOIN devices d ON r.device_id = d.device_id
WHERE r.request_id = $1 AND r.status = 'pending'
FOR UPDATE OF r`
	var (
		userID     int64
		deviceID   int64
		facilityID *int64
		credits    int
	)
	if err := tx.QueryRow(ctx, sel, requestID).Scan(&userID, &deviceID, &facilityID, &credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAlreadyProcessed
		}
		return 0, err
	}

	const upd = `
UPDATE recycling_requests
SET status = 'approved', processed_by = $2, processed_at = now()
WHERE request_id = $1`
	if _, err := tx.Exec(ctx, upd, requestID, adminID); err != nil {
		return 0, err
	}

	const hist = `
INSERT INTO recycling_history (user_id, device_id, facility_id, credits_earned, recycled_at)
VALUES ($1, $2, $3, $4, now())`
	if _, err := tx.Exec(ctx, hist, userID, deviceID, facilityID, credits); err != nil {
		return 0, err
	}

	const award = `UPDATE users SET credits = COALESCE(credits, 0) + $2 WHERE user_id = $1`
	if _, err := tx.Exec(ctx, award, userID, credits); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return credits, nil
}

// Reject moves a pending request to rejected; ErrAlreadyProcessed when it is
// not pending (or does not exist).
func (r *Repo) Reject(ctx context.Context, requestID, adminID int64) error {
	const q = `
UPDATE recycling_requests
SET status = 'rejected', processed_by = $2, processed_at = now()
WHERE request_id = $1 AND status = 'pending'`
	tag, err := r.pg.Exec(ctx, q, requestID, adminID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// HistoryByUser returns completed recycling records, newest first, with the
// summary aggregate.
func (r *Repo) HistoryByUser(ctx context.Context, userID int64) ([]HistoryEntry, HistorySummary, error) {
	const q = `
SELECT h.history_id, h.credits_earned, h.recycled_at,
       d.model_name, d.category,
       f.name, f.address
FROM recycling_history h
JOIN devices d ON h.device_id = d.device_id
JOIN facilities f ON h.facility_id = f.facility_id
WHERE h.user_id = $1
ORDER BY h.recycled_at DESC`
	rows, err := r.pg.Query(ctx, q, userID)
	if err != nil {
		return nil, HistorySummary{}, err
	}
	defer rows.Close()

	var (
		out     []HistoryEntry
		summary HistorySummary
	)
	for rows.Next() {
		var h HistoryEntry
		err := rows.Scan(&h.ID, &h.CreditsEarned, &h.RecycledAt,
			&h.ModelName, &h.Category, &h.FacilityName, &h.FacilityAddress)
		if err != nil {
			return nil, HistorySummary{}, err
		}
		out = append(out, h)
		summary.TotalDevicesRecycled++
		summary.TotalCreditsEarned += h.CreditsEarned
	}
	return out, summary, rows.Err()
}

func (r *Repo) StatsOverview(ctx context.Context) (Overview, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(credits_earned), 0), COUNT(DISTINCT user_id)
FROM recycling_history`
	var o Overview
	err := r.pg.QueryRow(ctx, q).Scan(&o.TotalRecycledDevices, &o.TotalCreditsIssued, &o.ActiveRecyclers)
	return o, err
}

// MonthlyTrends covers the last 12 months, most recent first.
func (r *Repo) MonthlyTrends(ctx context.Context) ([]MonthlyStat, error) {
	const q = `
SELECT to_char(recycled_at, 'YYYY-MM') AS month,
       COUNT(*),
       COALESCE(SUM(credits_earned), 0)
FROM recycling_history
WHERE recycled_at >= now() - interval '12 months'
GROUP BY to_char(recycled_at, 'YYYY-MM')
ORDER BY month DESC`
	rows, err := r.pg.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyStat
	for rows.Next() {
		var m MonthlyStat
		if err := rows.Scan(&m.Month, &m.DevicesRecycled, &m.CreditsEarned); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) TopFacilities(ctx context.Context, limit int) ([]FacilityStat, error) {
	const q = `
SELECT f.name, f.address, COUNT(h.history_id) AS total_recycled
FROM facilities f
JOIN recycling_history h ON f.facility_id = h.facility_id
GROUP BY f.facility_id
ORDER BY total_recycled DESC
LIMIT $1`
	rows, err := r.pg.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FacilityStat
	for rows.Next() {
		var f FacilityStat
		if err := rows.Scan(&f.Name, &f.Address, &f.TotalRecycled); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pg.QueryRow(ctx, `SELECT COUNT(*) FROM recycling_requests WHERE status = $1`, status).Scan(&n)
	return n, err
}

// RecentRequest backs the admin activity feed.
type RecentRequest struct {
	SubmittedAt time.Time
	Status      string
	UserName    string
	ModelName   string
}

// RecentRequests lists requests submitted within the last `days` days.
func (r *Repo) RecentRequests(ctx context.Context, days, limit int) ([]RecentRequest, error) {
	const q = `
SELECT r.submitted_at, r.status, u.name, d.model_name
FROM recycling_requests r
JOIN users u ON r.user_id = u.user_id
JOIN devices d ON r.device_id = d.device_id
WHERE r.submitted_at >= now() - ($1 || ' days')::interval
ORDER BY r.submitted_at DESC
LIMIT $2`
	rows, err := r.pg.Query(ctx, q, days, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentRequest
	for rows.Next() {
		var rr RecentRequest
		if err := rows.Scan(&rr.SubmittedAt, &rr.Status, &rr.UserName, &rr.ModelName); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func collectRows(rows pgx.Rows) ([]RequestRow, error) {
	var out []RequestRow
	for rows.Next() {
		var rr RequestRow
		err := rows.Scan(&rr.ID, &rr.YearOfPurchase, &rr.Status, &rr.SubmittedAt, &rr.ProcessedAt,
			&rr.UserName, &rr.UserEmail,
			&rr.DeviceName, &rr.Category, &rr.CreditsValue,
			&rr.FacilityName, &rr.FacilityAddress,
			&rr.ProcessedByName)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
