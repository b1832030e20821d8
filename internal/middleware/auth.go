package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/monthly/internal/auth"
)

const (
	maxAuthFailures   = 10
	authFailureWindow = time.Minute
	authRealm         = `Basic realm="monthly", charset="UTF-8"`
)

// Credentials is a username and bcrypt password hash.
type Credentials struct {
	Username string
	Hash     []byte
}

// Enabled reports whether credentials are configured.
func (c Credentials) Enabled() bool {
	return c.Username != "" && len(c.Hash) > 0
}

// Check compares a username and plaintext password against c.
func (c Credentials) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.Hash, []byte(password))
	return userOK && passErr == nil
}

// HashPassword returns a bcrypt hash suitable for Credentials.Hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BasicAuth guards next with HTTP basic authentication. Clients that fail too
// often are refused with 429 until their window expires. When creds are not
// enabled the middleware passes every request through.
func BasicAuth(creds Credentials, limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !creds.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := RealIP(r)
			if limiter.Exceeded(ip, maxAuthFailures) {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || !creds.Check(user, pass) {
				n := limiter.Hit(ip, authFailureWindow)
				logger.Warn("basic auth failed", "remote", ip, "user", user, "failures", n)
				w.Header().Set("WWW-Authenticate", authRealm)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			limiter.Reset(ip)
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), auth.User{Name: user})))
		})
	}
}
