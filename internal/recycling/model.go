package recycling

import "time"

// Request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Mirrors DB columns from the `recycling_requests` table. FacilityID and
// YearOfPurchase are optional; the two submission flows fill different ones.
type Request struct {
	ID             int64      `json:"request_id"`
	UserID         int64      `json:"user_id"`
	DeviceID       int64      `json:"device_id"`
	FacilityID     *int64     `json:"facility_id"`
	YearOfPurchase *int       `json:"year_of_purchase"`
	Status         string     `json:"status"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	ProcessedBy    *int64     `json:"processed_by"`
	ProcessedAt    *time.Time `json:"processed_at"`
}

// RequestRow is the admin listing shape with joined user and device fields.
type RequestRow struct {
	ID              int64      `json:"request_id"`
	YearOfPurchase  *int       `json:"year_of_purchase"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ProcessedAt     *time.Time `json:"processed_at"`
	UserName        string     `json:"user_name"`
	UserEmail       string     `json:"user_email"`
	DeviceName      string     `json:"device_name"`
	Category        string     `json:"category"`
	CreditsValue    int        `json:"credits_value"`
	FacilityName    *string    `json:"facility_name"`
	FacilityAddress *string    `json:"facility_address"`
	ProcessedByName *string    `json:"processed_by_name"`
}

// HistoryEntry is a completed recycling record with joined device and
// facility fields.
type HistoryEntry struct {
	ID              int64     `json:"history_id"`
	CreditsEarned   int       `json:"credits_earned"`
	RecycledAt      time.Time `json:"recycled_at"`
	ModelName       string    `json:"model_name"`
	Category        string    `json:"category"`
	FacilityName    string    `json:"facility_name"`
	FacilityAddress string    `json:"facility_address"`
}

// HistorySummary aggregates a user's recycling history.
type HistorySummary struct {
	TotalDevicesRecycled int `json:"total_devices_recycled"`
	TotalCreditsEarned   int `json:"total_credits_earned"`
}

// Overview is the platform-wide recycling aggregate.
type Overview struct {
	TotalRecycledDevices int `json:"total_recycled_devices"`
	TotalCreditsIssued   int `json:"total_credits_issued"`
	ActiveRecyclers      int `json:"active_recyclers"`
}

// MonthlyStat is one month of recycling volume (YYYY-MM).
type MonthlyStat struct {
	Month           string `json:"month"`
	DevicesRecycled int    `json:"devices_recycled"`
	CreditsEarned   int    `json:"credits_earned"`
}

// FacilityStat ranks a facility by processed volume.
type FacilityStat struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	TotalRecycled int    `json:"total_recycled"`
}
