package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FarhanHaider999/NextStay/internal/domain"
	"github.com/FarhanHaider999/NextStay/internal/log"
	"github.com/FarhanHaider999/NextStay/internal/metrics"
	"github.com/FarhanHaider999/NextStay/internal/queue"
	"github.com/FarhanHaider999/NextStay/internal/repo"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authData struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Register godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	name := strings.TrimSpace(in.Name)
	if len(name) < 2 || len(name) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name must be between 2 and 50 characters"})
		return
	}
	email := normalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid email"})
		return
	}
	if len(in.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}
	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleTenant
	}
	if !domain.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user type"})
		return
	}

	ctx := c.Request.Context()
	if u, err := h.Store.FindUserByEmail(ctx, email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	} else if u != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	verifyToken, err := security.NewVerificationToken(h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	u := &domain.User{
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		EmailVerified:     false,
		VerificationToken: verifyToken,
	}
	if err := h.Store.CreateUser(ctx, u); err != nil {
		// the pre-check above races with concurrent registration
		if errors.Is(err, repo.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	token, err := security.MakeSession(h.JWTSecret, u.ID.Hex(), u.Email, h.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	reqID := requestID(c)
	go func() {
		if err := h.Mail.SendVerification(u.Email, verifyToken); err != nil {
			log.L().Error("verification mail", zap.String("email", u.Email), zap.Error(err))
		}
	}()
	go h.publish(queue.KeyUserRegistered, queue.UserRegistered{
		UserID: u.ID.Hex(), Email: u.Email, Name: u.Name, Role: string(u.Role),
	}, reqID)

	c.JSON(http.StatusCreated, gin.H{"data": authData{User: u.Public(), Token: token}})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	email := normalizeEmail(in.Email)
	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	// a missing account, a provider-only account, and a wrong password
	// must all be indistinguishable to the caller
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := security.MakeSession(h.JWTSecret, u.ID.Hex(), u.Email, h.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	go h.publish(queue.KeyUserLoggedIn, queue.UserLoggedIn{UserID: u.ID.Hex(), Email: u.Email}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"data": authData{User: u.Public(), Token: token}})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	// RequireAuth already rejected requests without a resolvable user
	u := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": u.Public()}})
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Health != nil {
		if err := h.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// publish runs detached from the request, so it carries its own deadline
// instead of the (possibly already canceled) request context.
func (h *Handler) publish(key string, event any, reqID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, key, event, reqID); err != nil {
		log.L().Error("event publish", zap.String("key", key), zap.Error(err))
	}
}
