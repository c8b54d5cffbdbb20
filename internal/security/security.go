package security

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/methodmatch/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxKeyLength   int           `json:"max_key_length"`
	MaxUploadBytes int64         `json:"max_upload_bytes"`
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxKeyLength:   200,
		MaxUploadBytes: 10 << 20,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout: 30 * time.Second,
	}
}

// SecurityMiddleware groups request hardening for the API
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

// Config returns the active configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateAnswerKey rejects answer keys no weight table could contain
func (sm *SecurityMiddleware) ValidateAnswerKey(key string) error {
	if sm.config.MaxKeyLength > 0 && len(key) > sm.config.MaxKeyLength {
		return fmt.Errorf("answer exceeds maximum length of %d characters", sm.config.MaxKeyLength)
	}
	if strings.ContainsRune(key, 0) {
		return fmt.Errorf("answer contains invalid characters")
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("answer contains invalid UTF-8 encoding")
	}
	return nil
}

// ValidateAnswers checks every key of a raw answer map and returns a
// validation error naming the offending questions
func (sm *SecurityMiddleware) ValidateAnswers(answers map[string]string) error {
	details := make(map[string]string)
	for q, key := range answers {
		if err := sm.ValidateAnswerKey(key); err != nil {
			details["Q"+strings.TrimPrefix(strings.ToUpper(q), "Q")] = err.Error()
		}
	}
	if len(details) > 0 {
		return errors.NewValidationErrorWithMap(details)
	}
	return nil
}

// ValidateContentType rejects bodies that are not JSON or form uploads
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := strings.ToLower(c.GetHeader("Content-Type"))

	allowedTypes := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	if contentType != "" {
		found := false
		for _, allowed := range allowedTypes {
			if strings.Contains(contentType, allowed) {
				found = true
				break
			}
		}

		if !found {
			appErr := errors.NewValidationError("unsupported content type", contentType)
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, appErr.Response())
			return
		}
	}

	c.Next()
}

// LimitUploadSize caps request bodies at MaxUploadBytes
func (sm *SecurityMiddleware) LimitUploadSize(c *gin.Context) {
	if sm.config.MaxUploadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxUploadBytes)
	}
	c.Next()
}

// RequestTimeout bounds the request context
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS builds the cross-origin policy; a "*" entry allows any origin
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range sm.config.AllowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			break
		}
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	} else if len(cfg.AllowOrigins) == 0 {
		// same-origin only
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
