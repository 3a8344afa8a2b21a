package queue

// Routing keys on the auth events exchange.
const (
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.loggedin"
	KeyPasswordReset  = "user.password_reset"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type PasswordReset struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
