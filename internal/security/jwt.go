package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and parses HS256 user tokens.
type JWTManager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewJWTManager(signingKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Claims carries the user id and role alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Role   string `json:"role"` // user | admin
}

// Issue signs a token for the given user. TTL comes from config (7 days by
// default, matching the original session length).
func (m *JWTManager) Issue(userID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
		Role:   role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.signingKey)
}

// Parse validates the signature and expiry and returns the user id and role.
func (m *JWTManager) Parse(tokenStr string) (userID int64, role string, err error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.signingKey, nil
	})
	if err != nil {
		return 0, "", err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}
	if claims.UserID == 0 {
		return 0, "", fmt.Errorf("invalid token: missing user_id")
	}
	r := claims.Role
	if r == "" {
		r = "user"
	}
	return claims.UserID, r, nil
}
