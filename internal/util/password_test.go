package util

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals the plaintext")
	}
	if !ComparePassword(hash, "correct horse") {
		t.Error("ComparePassword rejected the right password")
	}
	if ComparePassword(hash, "wrong") {
		t.Error("ComparePassword accepted a wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		pw      string
		minLen  int
		wantErr bool
	}{
		{"secret", 6, false},
		{"short", 6, true},
		{"", 6, true},
		{"ab", 0, true}, // minLen defaults to 6
		{"abcdef", 0, false},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.pw, tt.minLen)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q, %d) err = %v, wantErr %v", tt.pw, tt.minLen, err, tt.wantErr)
		}
	}
}
