package facilities

import "time"

// Mirrors DB columns from the `facilities` table.
type Facility struct {
	ID             int64     `json:"facility_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Contact        *string   `json:"contact"`
	OperatingHours *string   `json:"operating_hours"`
	Website        *string   `json:"website"`
	CreatedAt      time.Time `json:"created_at"`
}

// NearbyFacility is a facility row plus its distance from the query point.
type NearbyFacility struct {
	Facility
	DistanceKm float64 `json:"distance_km"`
}

// Input carries the admin create/update payload.
type Input struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Contact        *string `json:"contact"`
	OperatingHours *string `json:"operating_hours"`
	Website        *string `json:"website"`
}
