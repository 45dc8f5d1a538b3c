package education

import "time"

// Mirrors DB columns from the `educational_content` table.
type Content struct {
	ID          int64     `json:"content_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
