package auth

var _ Checker = (*StaticChecker)(nil)

// Checker decides whether a request credential grants admin access.
type Checker interface {
	IsAuthorized(authHeader string) bool
}
