// Package scheduling implements the pickup allocation core: district
// extraction from free-text addresses and daily-capacity slot assignment.
package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	aiclient "github.com/thejas-c/E-Waste-Facility-Locator/internal/ai"
)

// Completer is the narrow view of the AI text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DistrictExtractor resolves a district/city name from a free-text address.
// The AI path is best-effort: any failure (request error, timeout, malformed
// or blank output) falls back to comma parsing, so ExtractDistrict never
// fails and scheduling proceeds even when the AI dependency is degraded.
type DistrictExtractor struct {
	ai      Completer
	timeout time.Duration
	logger  *zap.Logger
}

func NewDistrictExtractor(ai Completer, timeout time.Duration, logger *zap.Logger) *DistrictExtractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistrictExtractor{ai: ai, timeout: timeout, logger: logger}
}

const districtPrompt = `You are an address parser for an Indian e-waste pickup service.

Extract the district or city name from this address. Return ONLY JSON, no
extra text, no markdown, exactly this structure:

{"district": "<district or city name>"}

Address: %s`

// ExtractDistrict returns a best-effort district for the address. The model
// call is bounded by the configured timeout; degradation is logged, never
// surfaced.
func (e *DistrictExtractor) ExtractDistrict(ctx context.Context, address string) string {
	if e.ai != nil {
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		raw, err := e.ai.Complete(ctx, fmt.Sprintf(districtPrompt, address))
		if err == nil {
			if d := parseDistrictResponse(raw); d != "" {
				return d
			}
			e.logger.Warn("district extraction returned no usable district, using fallback",
				zap.String("address", address))
		} else {
			e.logger.Warn("district extraction AI call failed, using fallback",
				zap.String("address", address), zap.Error(err))
		}
	}
	return fallbackDistrict(address)
}

// parseDistrictResponse pulls {"district": "..."} out of the model output;
// "" when absent or blank.
func parseDistrictResponse(raw string) string {
	obj := aiclient.ExtractJSONObject(raw)
	if obj == "" {
		return ""
	}
	var out struct {
		District string `json:"district"`
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return ""
	}
	return strings.TrimSpace(out.District)
}

// fallbackDistrict takes the second-to-last comma-separated segment of the
// address (typically the city in "street, area, city, pincode"); with no
// commas it degenerates to the whole trimmed address.
func fallbackDistrict(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[len(parts)-2])
	}
	return strings.TrimSpace(parts[len(parts)-1])
}
