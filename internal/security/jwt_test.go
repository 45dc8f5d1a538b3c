package security

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	tok, err := m.Issue(42, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, role, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
	if role != "admin" {
		t.Errorf("role = %q, want admin", role)
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	tok, err := m.Issue(1, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := other.Parse(tok); err == nil {
		t.Error("Parse accepted a token signed with a different secret")
	}
}

func TestParseExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	tok, err := m.Issue(1, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := m.Parse(tok); err == nil {
		t.Error("Parse accepted an expired token")
	}
}

func TestParseGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, _, err := m.Parse(tok); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", tok)
		}
	}
}
