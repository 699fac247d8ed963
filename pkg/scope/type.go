package scope

import "github.com/golang-jwt/jwt"

// Payload is the claim set of an operator token.
type Payload struct {
	jwt.StandardClaims
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type implManager struct {
	secretKey string
}

type (
	PayloadCtxKey struct{}
	ScopeCtxKey   struct{}
)
