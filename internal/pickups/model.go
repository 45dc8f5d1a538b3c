package pickups

import "time"

// Pickup statuses.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusPickedUp  = "picked_up"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is an accepted pickup status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusPickedUp, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DefaultTrackingNote is the customer-facing note applied when an admin
// changes status without supplying one.
func DefaultTrackingNote(status string) string {
	switch status {
	case StatusPending:
		return "Request is pending review"
	case StatusScheduled:
		return "Pickup has been scheduled with our team"
	case StatusPickedUp:
		return "Device has been picked up and is being processed"
	case StatusCompleted:
		return "Pickup completed successfully - credits have been awarded"
	case StatusCancelled:
		return "Pickup request has been cancelled"
	}
	return "Status updated to " + status
}

// CreateParams is the insert payload for a new pickup request. ScheduledDate
// is YYYY-MM-DD; ScheduledTime keeps the assigned "9:00" clock string.
type CreateParams struct {
	UserID        int64
	DeviceID      int64
	Address       string
	District      string
	ScheduledDate string
	ScheduledTime string
}

// UserPickup is a pickup row with joined device fields, as listed to its
// owner.
type UserPickup struct {
	ID            int64     `json:"pickup_id"`
	Address       string    `json:"address"`
	District      string    `json:"district"`
	ScheduledDate string    `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	Status        string    `json:"status"`
	TrackingNote  string    `json:"tracking_note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DeviceName    string    `json:"device_name"`
	Category      string    `json:"category"`
	CreditsValue  int       `json:"credits_value"`
}

// Detail adds the owner identity for single-pickup views and admin listings.
type Detail struct {
	UserPickup
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// StatusChange reports the outcome of an admin status update for the
// real-time push.
type StatusChange struct {
	UserID         int64
	DeviceName     string
	CreditsAwarded int
}
