package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcast/internal"
)

// DefaultCORSMaxAge is how long browsers may cache a preflight answer.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	Origins       []string // patterns understood by NewOrigins
	Methods       []string
	Headers       []string // request headers a browser may send
	ExposeHeaders []string // response headers a browser script may read
	Credentials   bool     // echo the origin and allow cookies
	MaxAge        time.Duration
}

// DefaultCORSConfig lets a browser client on another origin post dispatch
// requests and read the progress stream and the request ID header.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Origins:       []string{"*"},
		Methods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		Headers:       []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        DefaultCORSMaxAge,
	}
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins replaces the allowed origin patterns. An empty call keeps
// the default of allowing every origin.
func WithAllowOrigins(patterns ...string) CORSOption {
	return func(cfg *CORSConfig) {
		if len(patterns) > 0 {
			cfg.Origins = patterns
		}
	}
}

// WithAllowCredentials makes responses carry Access-Control-Allow-Credentials.
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) { cfg.Credentials = true }
}

// WithCORSMaxAge sets the preflight cache duration. Zero omits the header.
func WithCORSMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) { cfg.MaxAge = d }
}

// CORS answers preflight requests and decorates responses to allowed origins.
// Requests from origins that are not allowed pass through without CORS headers,
// so the browser blocks them.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := DefaultCORSConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	origins := NewOrigins(cfg.Origins...)
	methods := strings.Join(cfg.Methods, ", ")
	headers := strings.Join(cfg.Headers, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))
	echo := cfg.Credentials || !origins.Any()

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !origins.Allowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if echo {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if cfg.Credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}

			if c.Request().Method != http.MethodOptions || c.Header("Access-Control-Request-Method") == "" {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}
