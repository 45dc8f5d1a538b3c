package masscollection

import "time"

// Collection statuses.
const (
	StatusPending    = "pending"
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is an accepted collection status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidOrgType reports whether t is an accepted organization type.
func ValidOrgType(t string) bool {
	switch t {
	case "College", "Company", "Industry", "Government", "NGO":
		return true
	}
	return false
}

// DefaultTrackingNote is the note applied when an admin changes status
// without supplying one.
func DefaultTrackingNote(status string) string {
	switch status {
	case StatusPending:
		return "Request is pending review and team assignment"
	case StatusScheduled:
		return "Collection has been scheduled with our specialized team"
	case StatusInProgress:
		return "Collection team is on-site and processing the request"
	case StatusCompleted:
		return "Mass collection completed successfully"
	case StatusCancelled:
		return "Mass collection request has been cancelled"
	}
	return "Status updated to " + status
}

// Mirrors DB columns from the `mass_collection_requests` table. The flow is
// email-keyed rather than account-keyed so organizations can submit without
// registering.
type Collection struct {
	ID             int64     `json:"collection_id"`
	OrgName        string    `json:"org_name"`
	OrgType        string    `json:"org_type"`
	ContactPerson  *string   `json:"contact_person"`
	ContactPhone   *string   `json:"contact_phone"`
	ContactEmail   *string   `json:"contact_email"`
	Address        string    `json:"address"`
	Pincode        *string   `json:"pincode"`
	EstimatedItems *int      `json:"estimated_items"`
	ScheduledDate  *string   `json:"scheduled_date"`
	ScheduledTime  *string   `json:"scheduled_time"`
	Status         string    `json:"status"`
	TrackingNote   string    `json:"tracking_note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateParams is the public submission payload.
type CreateParams struct {
	OrgName        string
	OrgType        string
	ContactPerson  *string
	ContactPhone   *string
	ContactEmail   *string
	Address        string
	Pincode        *string
	EstimatedItems *int
	ScheduledDate  *string // YYYY-MM-DD
	ScheduledTime  *string
}

// Filter narrows the admin listing.
type Filter struct {
	Status  string
	OrgType string
	Date    string // YYYY-MM-DD
}
