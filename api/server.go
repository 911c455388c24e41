// Package api exposes the fare ledger over HTTP.
//
// Writes identify the caller through an HS256 bearer token whose subject is
// the caller address. Reads are public. Rejected operations answer with the
// rejection reason code so clients can tell refusals apart.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/xraph/fareledger"
)

// Server serves the ledger's call and query interface.
type Server struct {
	ledger      *fareledger.Ledger
	tokens      *TokenManager
	logger      *slog.Logger
	corsOrigins []string
	engine      *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCORSOrigins enables CORS for the given origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.corsOrigins = append(s.corsOrigins, origins...) }
}

// New builds a Server around a started ledger.
func New(l *fareledger.Ledger, tokens *TokenManager, opts ...Option) *Server {
	s := &Server{
		ledger: l,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), gin.Recovery())
	if len(s.corsOrigins) > 0 {
		r.Use(s.cors())
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		s.logger.Warn("failed to set trusted proxies", "error", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/health", s.health)

	v1 := r.Group("/v1")
	{
		calls := v1.Group("", s.authenticate())
		calls.POST("/wallet/fund", s.fundWallet)
		calls.POST("/trips", s.startTrip)
		calls.POST("/withdrawals", s.withdraw)
		calls.POST("/staff/records", s.recordStaff)

		reads := v1.Group("", s.refresh())
		reads.GET("/owner", s.owner)
		reads.GET("/balance", s.balance)
		reads.GET("/withdrawals", s.withdrawals)

		reads.GET("/passengers/count", s.passengerCount)
		reads.GET("/passengers/:index", s.passenger)
		reads.GET("/accounts/:address/balance", s.passengerBalance)
		reads.GET("/accounts/:address/staff-record", s.staffRecord)

		reads.GET("/schedule", s.schedule)
		reads.GET("/schedule/:index", s.scheduleEntry)
		reads.GET("/fares/:code", s.fare)

		reads.GET("/trips/count", s.tripCount)
		reads.GET("/trips/:index", s.trip)

		reads.GET("/staff/count", s.staffCount)
		reads.GET("/staff/:index", s.staffMember)
	}
	return r
}

func (s *Server) cors() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range s.corsOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = s.corsOrigins
	return cors.New(cfg)
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if caller, ok := c.Get(callerKey); ok {
			attrs = append(attrs, "caller", caller)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error("request failed", attrs...)
			return
		}
		s.logger.Debug("request", attrs...)
	}
}
