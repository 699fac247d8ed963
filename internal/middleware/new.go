package middleware

import (
	"ndr-srv/pkg/log"
	"ndr-srv/pkg/scope"
)

type Middleware struct {
	l               log.Logger
	scopeManager    scope.Manager
	internalKeyHash string
	limiter         *RateLimiter
}

// New builds the middleware set. internalKeyHash is the bcrypt hash of the key
// internal callers send in X-Internal-Key.
func New(l log.Logger, scopeManager scope.Manager, internalKeyHash string) Middleware {
	return Middleware{
		l:               l,
		scopeManager:    scopeManager,
		internalKeyHash: internalKeyHash,
	}
}
