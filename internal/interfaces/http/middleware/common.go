package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns default CORS configuration
// NOTE: AllowOrigins is empty by default for security. In production,
// you MUST explicitly configure allowed origins via config.toml or environment variables.
// Using an empty list will reject all cross-origin requests until configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID", "Accept", "Origin", "Cache-Control"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS returns a middleware that handles CORS with default configuration
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig returns a CORS middleware with custom configuration
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Always answer OPTIONS preflight with 204, but only set CORS
		// headers when the origin is allowed
		if c.Request.Method == "OPTIONS" {
			if len(cfg.AllowOrigins) > 0 {
				if allowWildcard {
					c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
					setCORSHeaders(c, cfg)
				} else {
					for _, o := range cfg.AllowOrigins {
						if o == origin {
							c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
							if cfg.AllowCredentials {
								c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
							}
							setCORSHeaders(c, cfg)
							break
						}
					}
				}
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		var allowedOrigin string

		if len(cfg.AllowOrigins) == 0 {
			// Empty whitelist: reject all cross-origin requests
			c.Next()
			return
		}

		if allowWildcard {
			// Note: AllowCredentials with "*" origin is insecure and will be rejected by browsers
			allowedOrigin = "*"
		} else {
			for _, o := range cfg.AllowOrigins {
				if o == origin {
					allowedOrigin = origin
					break
				}
			}
			if allowedOrigin == "" && origin != "" {
				c.Next()
				return
			}
		}

		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if cfg.AllowCredentials && allowedOrigin != "*" {
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			setCORSHeaders(c, cfg)
		}

		c.Next()
	}
}

// setCORSHeaders sets common CORS headers (methods, headers, expose, max-age)
func setCORSHeaders(c *gin.Context, cfg CORSConfig) {
	c.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))

	if len(cfg.ExposeHeaders) > 0 {
		c.Writer.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}

	if cfg.MaxAge > 0 {
		c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return time.Now().Format("20060102150405")
	}
	return hex.EncodeToString(bytes)
}

// SecurityConfig holds configuration for security headers
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            int // in seconds
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	CSPEnabled   bool
	CSPDirective string
}

// DefaultSecurityConfig returns secure default settings
// NOTE: HSTS is disabled by default as it requires HTTPS in production.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSEnabled:           false,
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
		HSTSPreload:           false,

		CSPEnabled:   true,
		CSPDirective: "default-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
	}
}

// Secure adds security headers to responses using default configuration
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig adds security headers to responses with custom configuration
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	var hstsValue string
	if cfg.HSTSEnabled {
		hstsValue = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hstsValue += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hstsValue += "; preload"
		}
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if cfg.CSPEnabled && cfg.CSPDirective != "" {
			c.Writer.Header().Set("Content-Security-Policy", cfg.CSPDirective)
		}

		// Only effective over HTTPS, harmless over HTTP
		if cfg.HSTSEnabled && hstsValue != "" {
			c.Writer.Header().Set("Strict-Transport-Security", hstsValue)
		}

		c.Next()
	}
}
