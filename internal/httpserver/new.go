package httpserver

import (
	"database/sql"
	"errors"

	"ndr-srv/internal/app"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/middleware"
	"ndr-srv/pkg/discord"
	"ndr-srv/pkg/log"
	pkgRedis "ndr-srv/pkg/redis"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// HTTPServer serves the operator API.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) starts serving and blocks until ctx is done.
type HTTPServer struct {
	// Server configuration
	gin         *gin.Engine
	l           log.Logger
	host        string
	port        int
	environment string
	corsOrigins []string

	// Domain
	uc *app.UseCases

	// Auth & security
	scopeManager    scope.Manager
	internalKeyHash string
	sendLimiter     *middleware.RateLimiter

	// External services
	db      *sql.DB
	redis   pkgRedis.IRedis
	discord discord.IDiscord
	metrics *metrics.Metrics
}

// Config is the constructor input for HTTPServer.
type Config struct {
	// Server configuration
	Host        string
	Port        int
	Mode        string
	Environment string
	CORSOrigins []string

	UseCases *app.UseCases

	// Auth & security
	JWTSecretKey    string
	InternalKeyHash string

	// SendRateLimit throttles outreach sends per operator.
	SendRateLimit middleware.RateLimitConfig

	// External services. DB and Redis are only pinged by the health checks.
	DB      *sql.DB
	Redis   pkgRedis.IRedis
	Discord discord.IDiscord
	Metrics *metrics.Metrics
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	srv := &HTTPServer{
		gin:         engine,
		l:           logger,
		host:        cfg.Host,
		port:        cfg.Port,
		environment: cfg.Environment,
		corsOrigins: cfg.CORSOrigins,

		uc: cfg.UseCases,

		scopeManager:    scope.New(cfg.JWTSecretKey),
		internalKeyHash: cfg.InternalKeyHash,
		sendLimiter:     middleware.NewRateLimiter(cfg.SendRateLimit),

		db:      cfg.DB,
		redis:   cfg.Redis,
		discord: cfg.Discord,
		metrics: cfg.Metrics,
	}

	if err := srv.validate(cfg); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (srv *HTTPServer) validate(cfg Config) error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT secret key is required")
	}
	if srv.uc == nil {
		return errors.New("usecases are required")
	}
	return nil
}
