package devices

// Mirrors DB columns from the `devices` catalog table. Material weights are
// grams per unit.
type Device struct {
	ID           int64   `json:"device_id"`
	ModelName    string  `json:"model_name"`
	Category     string  `json:"category"`
	Gold         float64 `json:"gold"`
	Silver       float64 `json:"silver"`
	Copper       float64 `json:"copper"`
	CreditsValue int     `json:"credits_value"`
}

// Estimate is the credit valuation for a quantity of one device model.
type Estimate struct {
	DeviceID       int64     `json:"device_id"`
	ModelName      string    `json:"model_name"`
	Category       string    `json:"category"`
	Quantity       int       `json:"quantity"`
	CreditsPerUnit int       `json:"credits_per_unit"`
	TotalCredits   int       `json:"total_credits"`
	Materials      Materials `json:"materials"`
}

type Materials struct {
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
	Copper float64 `json:"copper"`
}

// NewEstimate prices quantity units of the device.
func NewEstimate(d *Device, quantity int) Estimate {
	if quantity < 1 {
		quantity = 1
	}
	q := float64(quantity)
	return Estimate{
		DeviceID:       d.ID,
		ModelName:      d.ModelName,
		Category:       d.Category,
		Quantity:       quantity,
		CreditsPerUnit: d.CreditsValue,
		TotalCredits:   d.CreditsValue * quantity,
		Materials: Materials{
			Gold:   d.Gold * q,
			Silver: d.Silver * q,
			Copper: d.Copper * q,
		},
	}
}
