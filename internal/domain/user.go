package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleTenant  Role = "tenant"
	RoleManager Role = "manager"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleTenant || r == RoleManager
}

// User is the persistent account record. Credential and token fields are
// bson-only; external representations go through Public().
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash,omitempty"`
	GoogleID      string             `bson:"google_id,omitempty"`
	Avatar        string             `bson:"avatar,omitempty"`
	EmailVerified bool               `bson:"email_verified"`
	Role          Role               `bson:"role"`

	VerificationToken    string     `bson:"verification_token,omitempty"`
	ResetPasswordToken   string     `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// PublicUser is the sanitized view returned by the API. It never carries
// the password hash or any verification/reset token.
type PublicUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Avatar        string    `json:"avatar,omitempty"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Avatar:        u.Avatar,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
	}
}
