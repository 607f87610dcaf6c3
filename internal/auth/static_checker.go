package auth

import (
	"crypto/subtle"
	"encoding/base64"
)

// StaticChecker authorizes requests carrying the single configured admin
// credential pair as a basic auth header. There are no accounts, sessions
// or tokens; every call is checked independently.
type StaticChecker struct {
	expected []byte
}

func NewStaticChecker(username, password string) *StaticChecker {
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return &StaticChecker{
		expected: []byte("Basic " + credentials),
	}
}

// IsAuthorized reports whether the given Authorization header value matches
// the configured credential pair byte for byte.
func (c *StaticChecker) IsAuthorized(authHeader string) bool {
	return subtle.ConstantTimeCompare([]byte(authHeader), c.expected) == 1
}
