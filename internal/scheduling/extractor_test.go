package scheduling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type completerStub struct {
	out    string
	err    error
	prompt string
}

func (c *completerStub) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.out, c.err
}

func TestExtractDistrictFromAI(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"plain json", `{"district": "Mysuru"}`, "Mysuru"},
		{"fenced json", "```json\n{\"district\": \"Bengaluru Urban\"}\n```", "Bengaluru Urban"},
		{"prose around json", `The district is: {"district": "Tumakuru"} based on the address.`, "Tumakuru"},
		{"padded value", `{"district": "  Hassan  "}`, "Hassan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &completerStub{out: tt.out}
			e := NewDistrictExtractor(stub, time.Second, nil)

			got := e.ExtractDistrict(context.Background(), "12 MG Road, Somewhere, 570001")
			if got != tt.want {
				t.Errorf("ExtractDistrict = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDistrictSendsAddress(t *testing.T) {
	stub := &completerStub{out: `{"district": "Mysuru"}`}
	e := NewDistrictExtractor(stub, time.Second, nil)

	e.ExtractDistrict(context.Background(), "45 Temple Street, Chamundi Hill, Mysuru, 570010")
	if !strings.Contains(stub.prompt, "45 Temple Street, Chamundi Hill, Mysuru, 570010") {
		t.Errorf("prompt does not contain the address: %q", stub.prompt)
	}
}

func TestExtractDistrictFallback(t *testing.T) {
	addr := "45 Temple Street, Chamundi Hill, Mysuru, 570010"

	tests := []struct {
		name string
		stub *completerStub
	}{
		{"ai error", &completerStub{err: errors.New("upstream 500")}},
		{"blank output", &completerStub{out: ""}},
		{"no json", &completerStub{out: "I cannot determine the district."}},
		{"empty district", &completerStub{out: `{"district": "  "}`}},
		{"malformed json", &completerStub{out: `{"district": `}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewDistrictExtractor(tt.stub, time.Second, nil)

			// Second-to-last comma segment of the address.
			if got := e.ExtractDistrict(context.Background(), addr); got != "Mysuru" {
				t.Errorf("ExtractDistrict = %q, want %q", got, "Mysuru")
			}
		})
	}
}

func TestExtractDistrictNilAI(t *testing.T) {
	e := NewDistrictExtractor(nil, time.Second, nil)

	if got := e.ExtractDistrict(context.Background(), "Plot 9, Industrial Area, Hassan, 573201"); got != "Hassan" {
		t.Errorf("ExtractDistrict = %q, want %q", got, "Hassan")
	}
}

func TestFallbackDistrict(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"four segments", "45 Temple St, Chamundi Hill, Mysuru, 570010", "Mysuru"},
		{"two segments", "Mysuru, 570010", "Mysuru"},
		{"no commas", "  Mysuru  ", "Mysuru"},
		{"trailing comma", "Mysuru,", "Mysuru"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fallbackDistrict(tt.address); got != tt.want {
				t.Errorf("fallbackDistrict(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}
