package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/ai"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/devices"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

const maxImageBytes = 5 << 20

const identifyPrompt = `You are an expert in electronic devices.

From this image, identify the device and return ONLY JSON (no extra text, no markdown).
If you are unsure, make your best reasonable guess.

Return exactly this structure:

{
  "name": "string",
  "brand": "string",
  "model": "string",
  "category": "string",
  "ram": "string",
  "storage": "string",
  "os": "string",
  "processor": "string",
  "year": "string",
  "notes": "string"
}`

const predictCreditsPrompt = `You are an e-waste recycling expert.

Based on this device's information, estimate how many recycling credits it should be worth.
Use similar values to typical smartphones/laptops/tablets/audio/wearable.

FORMAT RULES:
- "credits" must be a WHOLE NUMBER (no decimals).
- "estimated_gold", "estimated_silver", and "estimated_copper" must be in decimal format with EXACTLY 4 decimal places.
- No exponential notation. No text or explanation.

Return ONLY JSON in this exact format:

{
  "credits": number,
  "estimated_gold": number,
  "estimated_silver": number,
  "estimated_copper": number
}

Device Info:
`

// Vision is the AI surface used for image identification and credit
// prediction; satisfied by *ai.Client.
type Vision interface {
	GenerateContent(ctx context.Context, model string, parts []ai.Part) (string, error)
}

type RecognizeHandler struct {
	ai          Vision
	devices     *devices.Repo
	visionModel string
	logger      *zap.Logger
}

func NewRecognizeHandler(v Vision, d *devices.Repo, visionModel string, logger *zap.Logger) *RecognizeHandler {
	return &RecognizeHandler{ai: v, devices: d, visionModel: visionModel, logger: logger}
}

type deviceInfo struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Category  string `json:"category"`
	RAM       string `json:"ram"`
	Storage   string `json:"storage"`
	OS        string `json:"os"`
	Processor string `json:"processor"`
	Year      string `json:"year"`
	Notes     string `json:"notes"`
}

type creditPrediction struct {
	Credits         int     `json:"credits"`
	EstimatedGold   float64 `json:"estimated_gold"`
	EstimatedSilver float64 `json:"estimated_silver"`
	EstimatedCopper float64 `json:"estimated_copper"`
}

// DeviceFromImage identifies a device from an uploaded photo and prices it:
// catalog match first, AI prediction second, a static default last.
// POST /api/ai/device-from-image (multipart field "image", max 5 MB).
func (h *RecognizeHandler) DeviceFromImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		h.logger.Error("image read failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to analyze image")
		return
	}
	if len(data) > maxImageBytes {
		response.Error(c, http.StatusBadRequest, "image exceeds the 5 MB limit")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	ctx := c.Request.Context()

	raw, err := h.ai.GenerateContent(ctx, h.visionModel, []ai.Part{
		{Text: identifyPrompt},
		{InlineData: &ai.InlineData{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}},
	})
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			response.Error(c, http.StatusInternalServerError, "AI service is not configured on the server")
			return
		}
		h.logger.Error("image identification failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to analyze image")
		return
	}

	var info deviceInfo
	obj := ai.ExtractJSONObject(raw)
	if obj == "" || json.Unmarshal([]byte(obj), &info) != nil || info.Name == "" {
		h.logger.Warn("unparseable device identification", zap.String("raw", truncate(raw, 500)))
		response.Error(c, http.StatusInternalServerError, "AI could not reliably extract device details from the image")
		return
	}

	h.logger.Info("device identified from image",
		zap.String("name", info.Name), zap.String("category", info.Category))

	d, err := h.devices.FindByModelNameExact(ctx, info.Name)
	switch {
	case err == nil:
		est := devices.NewEstimate(d, 1)
		response.Success(c, http.StatusOK, "device identified and credits found in database", gin.H{
			"device_info": info,
			"estimate": gin.H{
				"device_id":        est.DeviceID,
				"model_name":       est.ModelName,
				"category":         est.Category,
				"quantity":         est.Quantity,
				"credits_per_unit": est.CreditsPerUnit,
				"total_credits":    est.TotalCredits,
				"gold":             est.Materials.Gold,
				"silver":           est.Materials.Silver,
				"copper":           est.Materials.Copper,
			},
		})
	case errors.Is(err, devices.ErrNotFound):
		pred := h.predictCredits(ctx, info)
		response.Success(c, http.StatusOK, "device identified", gin.H{
			"device_info": info,
			"estimate": gin.H{
				"model_name":       info.Name,
				"category":         info.Category,
				"quantity":         1,
				"credits_per_unit": pred.Credits,
				"total_credits":    pred.Credits,
				"gold":             pred.EstimatedGold,
				"silver":           pred.EstimatedSilver,
				"copper":           pred.EstimatedCopper,
			},
		})
	default:
		h.logger.Error("device lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to analyze image")
	}
}

// predictCredits asks the AI to value an uncatalogued device; any failure
// falls back to a conservative default so the flow never dead-ends.
func (h *RecognizeHandler) predictCredits(ctx context.Context, info deviceInfo) creditPrediction {
	fallback := creditPrediction{
		Credits:         25,
		EstimatedGold:   0.02,
		EstimatedSilver: 0.20,
		EstimatedCopper: 10,
	}

	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fallback
	}
	raw, err := h.ai.GenerateContent(ctx, h.visionModel, []ai.Part{
		{Text: predictCreditsPrompt + string(infoJSON)},
	})
	if err != nil {
		h.logger.Warn("credit prediction failed", zap.Error(err))
		return fallback
	}

	var pred creditPrediction
	obj := ai.ExtractJSONObject(raw)
	if obj == "" || json.Unmarshal([]byte(obj), &pred) != nil || pred.Credits <= 0 {
		h.logger.Warn("unparseable credit prediction", zap.String("raw", truncate(raw, 500)))
		return fallback
	}
	return pred
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
