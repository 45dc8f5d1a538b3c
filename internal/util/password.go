package util

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ValidatePassword enforces the registration password rule (minimum length).
func ValidatePassword(pw string, minLen int) error {
	if minLen <= 0 {
		minLen = 6
	}
	if len(pw) < minLen {
		return fmt.Errorf("password must be at least %d characters long", minLen)
	}
	return nil
}

func HashPassword(pw string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ComparePassword(hash string, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
