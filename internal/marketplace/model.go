package marketplace

import "time"

// Listing statuses. New listings start as pending and go live only after
// admin approval.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusSold    = "sold"
	StatusRemoved = "removed"
)

// ValidCondition reports whether c is an accepted condition grade.
func ValidCondition(c string) bool {
	switch c {
	case "excellent", "good", "fair", "poor":
		return true
	}
	return false
}

// Mirrors DB columns from the `marketplace_listings` table.
type Listing struct {
	ID            int64     `json:"listing_id"`
	UserID        int64     `json:"user_id"`
	DeviceName    string    `json:"device_name"`
	ConditionType string    `json:"condition_type"`
	Price         float64   `json:"price"`
	Description   *string   `json:"description"`
	ImageURL      *string   `json:"image_url"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListingWithSeller adds the joined seller identity for public views.
type ListingWithSeller struct {
	Listing
	SellerName  string `json:"seller_name"`
	SellerEmail string `json:"seller_email"`
}

// Filter narrows the public listing query.
type Filter struct {
	Condition string
	MaxPrice  float64 // 0 means no cap
	Search    string
}

// Update carries owner edits; nil fields keep their current value.
type Update struct {
	DeviceName    *string
	ConditionType *string
	Price         *float64
	Description   *string
	ImageURL      *string
	Status        *string
}
