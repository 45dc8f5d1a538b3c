package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

func (r *Repo) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	const q = `
INSERT INTO users (name, email, password_hash, role, credits, created_at)
VALUES ($1, $2, $3, 'user', 0, now())
RETURNING user_id`
	var id int64
	err := r.pg.QueryRow(ctx, q, name, email, passwordHash).Scan(&id)
	if err != nil {
		// pgx returns *pgconn.PgError for server-side errors
		type pgErr interface{ SQLState() string }
		if e, ok := err.(pgErr); ok && e.SQLState() == "23505" {
			return 0, ErrEmailAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, credits, created_at
FROM users
WHERE email = $1
LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, email))
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, credits, created_at
FROM users
WHERE user_id = $1
LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, id))
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Credits, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// AdminList returns users with their recycled-device counts, newest first.
// search filters name or email by substring when non-empty.
func (r *Repo) AdminList(ctx context.Context, search string) ([]AdminRow, error) {
	q := `
SELECT u.user_id, u.name, u.email, u.role, u.credits, u.created_at,
       COUNT(h.history_id) AS devices_recycled
FROM users u
LEFT JOIN recycling_history h ON u.user_id = h.user_id`
	var args []any
	if search != "" {
		q += `
WHERE u.name ILIKE $1 OR u.email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	q += `
GROUP BY u.user_id
ORDER BY u.created_at DESC`

	rows, err := r.pg.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminRow
	for rows.Next() {
		var u AdminRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Credits, &u.CreatedAt, &u.DevicesRecycled); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountByRole backs the admin overview stats.
func (r *Repo) CountByRole(ctx context.Context, role string) (int, error) {
	const q = `SELECT COUNT(*) FROM users WHERE role = $1`
	var n int
	err := r.pg.QueryRow(ctx, q, role).Scan(&n)
	return n, err
}

// RecentRegistrations lists user-role signups within the last `days` days.
func (r *Repo) RecentRegistrations(ctx context.Context, days, limit int) ([]User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, credits, created_at
FROM users
WHERE role = 'user' AND created_at >= now() - ($1 || ' days')::interval
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.pg.Query(ctx, q, days, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Credits, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
