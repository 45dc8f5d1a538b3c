package ai

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain object", `{"district": "Mysuru"}`, `{"district": "Mysuru"}`},
		{"fenced json", "```json\n{\"district\": \"Mysuru\"}\n```", `{"district": "Mysuru"}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Sure! Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"empty", "", ""},
		{"no object", "sorry, I cannot help", ""},
		{"only open brace", "{oops", ""},
		{"nested object", `{"outer": {"inner": 1}}`, `{"outer": {"inner": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.raw); got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObjectUnmarshals(t *testing.T) {
	raw := "```json\n{\n  \"district\": \"Bengaluru Urban\"\n}\n```"
	var out struct {
		District string `json:"district"`
	}
	if err := json.Unmarshal([]byte(ExtractJSONObject(raw)), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.District != "Bengaluru Urban" {
		t.Errorf("district = %q, want %q", out.District, "Bengaluru Urban")
	}
}
