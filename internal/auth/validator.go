// Bearer token validation backed by the JWT manager.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/security"
)

// ErrInvalidToken is returned for empty or unverifiable tokens.
var ErrInvalidToken = errors.New("invalid token")

// JWTValidator implements middleware.TokenValidator over security.JWTManager.
type JWTValidator struct {
	jwtm *security.JWTManager
}

func NewJWTValidator(jwtm *security.JWTManager) *JWTValidator {
	return &JWTValidator{jwtm: jwtm}
}

// ValidateToken checks the HS256 signature and expiry and returns the user
// id and role embedded in the claims.
func (v *JWTValidator) ValidateToken(ctx context.Context, token string) (int64, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, "", ErrInvalidToken
	}
	userID, role, err := v.jwtm.Parse(token)
	if err != nil {
		return 0, "", ErrInvalidToken
	}
	return userID, role, nil
}
