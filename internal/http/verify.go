package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FarhanHaider999/NextStay/internal/log"
	"github.com/FarhanHaider999/NextStay/internal/queue"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

type verifyEmailReq struct {
	Token string `json:"token"`
}

// VerifyEmail godoc
// @Summary Confirm email ownership
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyEmailReq true "verify"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var in verifyEmailReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if err := security.CheckToken(h.JWTSecret, in.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Store.FindUserByVerificationToken(ctx, in.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	if u == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	u.EmailVerified = true
	u.VerificationToken = ""
	if err := h.Store.SaveUser(ctx, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

// ResendVerification godoc
// @Summary Resend the verification email
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/auth/resend-verification [post]
func (h *Handler) ResendVerification(c *gin.Context) {
	u := CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if u.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already verified"})
		return
	}

	token, err := security.NewVerificationToken(h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	u.VerificationToken = token
	if err := h.Store.SaveUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	// this flow alone sends synchronously so the caller learns of a
	// delivery failure
	if err := h.Mail.SendVerification(u.Email, token); err != nil {
		log.L().Error("resend verification mail", zap.String("email", u.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send verification email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification email sent"})
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

// ForgotPassword godoc
// @Summary Request a password-reset email
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body forgotPasswordReq true "forgot"
// @Success 200 {object} map[string]any
// @Router /api/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var in forgotPasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// the response never reveals whether the account exists
	respond := func() {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the email exists, a reset link has been sent"})
	}

	ctx := c.Request.Context()
	u, err := h.Store.FindUserByEmail(ctx, normalizeEmail(in.Email))
	if err != nil || u == nil {
		respond()
		return
	}

	token, err := security.NewResetToken(h.JWTSecret)
	if err != nil {
		respond()
		return
	}
	expires := time.Now().UTC().Add(security.ResetTTL)
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expires
	if err := h.Store.SaveUser(ctx, u); err != nil {
		respond()
		return
	}

	email := u.Email
	go func() {
		if err := h.Mail.SendPasswordReset(email, token); err != nil {
			log.L().Error("reset mail", zap.String("email", email), zap.Error(err))
		}
	}()
	respond()
}

type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body resetPasswordReq true "reset"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var in resetPasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if len(in.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters"})
		return
	}
	if err := security.CheckToken(h.JWTSecret, in.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Store.FindUserByResetToken(ctx, in.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	// the stored token must match exactly, not merely select a record
	if u == nil || subtle.ConstantTimeCompare([]byte(u.ResetPasswordToken), []byte(in.Token)) != 1 ||
		u.ResetPasswordExpires == nil || u.ResetPasswordExpires.Before(time.Now().UTC()) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	if err := h.Store.SaveUser(ctx, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	go h.publish(queue.KeyPasswordReset, queue.PasswordReset{UserID: u.ID.Hex(), Email: u.Email}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset"})
}
