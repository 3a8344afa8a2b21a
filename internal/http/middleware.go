package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/FarhanHaider999/NextStay/internal/domain"
	"github.com/FarhanHaider999/NextStay/internal/metrics"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

const (
	authUserKey  = "auth.user"
	requestIDKey = "X-Request-ID"
	bearerPrefix = "Bearer "
)

// CurrentUser returns the account attached by RequireAuth/OptionalAuth,
// or nil when the request carries no identity.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(authUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// RequestID propagates an inbound X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Metrics records request counts, durations, and in-flight gauge.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// resolveBearer extracts the bearer token, verifies it, and loads the
// account it references. Every failure mode returns a nil user.
func (h *Handler) resolveBearer(c *gin.Context) *domain.User {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return nil
	}
	claims, err := security.ParseSession(h.JWTSecret, raw)
	if err != nil {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return u
}

// RequireAuth rejects requests without a valid bearer token resolving to
// an existing account.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access denied. No token provided."})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		claims, err := security.ParseSession(h.JWTSecret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token is not valid."})
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token is not valid."})
			return
		}
		u, err := h.Store.FindUserByID(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token is not valid."})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token is not valid. User not found."})
			return
		}
		c.Set(authUserKey, u)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// proceeds regardless.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := h.resolveBearer(c); u != nil {
			c.Set(authUserKey, u)
		}
		c.Next()
	}
}

// RequireRoles allows only identities whose role is in the given set.
// Must run after RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
			return
		}
		if !allowed[u.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates on the single configured admin address. Must run
// after RequireAuth.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required."})
			return
		}
		if h.AdminEmail == "" || u.Email != h.AdminEmail {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required."})
			return
		}
		c.Next()
	}
}
