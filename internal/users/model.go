package users

import "time"

// Mirrors DB columns from the `users` table. PasswordHash never leaves the
// package boundary in responses.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminRow is the back-office listing shape: user plus recycled-device count.
type AdminRow struct {
	ID              int64     `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Credits         int       `json:"credits"`
	CreatedAt       time.Time `json:"created_at"`
	DevicesRecycled int       `json:"devices_recycled"`
}
