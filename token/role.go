package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the role claim carried in an access token payload.
type Role string

const (
	RoleUnknown Role = ""
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// UnverifiedClaims is the payload segment of an access token read without any
// signature check. It only drives what the client shows; the API enforces
// authorization on its own.
type UnverifiedClaims struct {
	Subject   string     // sub claim, empty when absent
	Role      Role       // role claim, RoleUnknown when absent
	ExpiresAt *time.Time // exp claim, nil when absent
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// RoleOf returns the role claimed by raw. Malformed tokens resolve to
// RoleUnknown; this function never fails.
func RoleOf(raw string) Role {
	claims, ok := Claims(raw)
	if !ok {
		return RoleUnknown
	}
	return claims.Role
}

// IsAdmin reports whether raw claims the admin role. Advisory only.
func IsAdmin(raw string) bool {
	return RoleOf(raw) == RoleAdmin
}

// Claims decodes the payload segment of raw. The token needs at least two
// dot separated segments; the payload may use the URL or the standard base64
// alphabet, padded or not.
func Claims(raw string) (UnverifiedClaims, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) < 2 {
		return UnverifiedClaims{}, false
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return UnverifiedClaims{}, false
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil || mc == nil {
		return UnverifiedClaims{}, false
	}

	var claims UnverifiedClaims
	if role, ok := mc["role"].(string); ok {
		claims.Role = Role(role)
	}
	if sub, err := mc.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	return claims, true
}

func decodeSegment(seg string) ([]byte, error) {
	if b, err := segmentParser.DecodeSegment(seg); err == nil {
		return b, nil
	}
	if l := len(seg) % 4; l > 0 {
		seg += strings.Repeat("=", 4-l)
	}
	return base64.StdEncoding.DecodeString(seg)
}
