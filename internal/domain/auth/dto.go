// internal/domain/auth/dto.go
package auth

// LoginRequest for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name                 *string `json:"name,omitempty"`
	Email                *string `json:"email,omitempty" binding:"omitempty,email"`
	CurrentPassword      string  `json:"current_password,omitempty"`
	Password             string  `json:"password,omitempty" binding:"omitempty,min=8"`
	PasswordConfirmation string  `json:"password_confirmation,omitempty"`
}

// ChangesPassword reports whether the request carries a new password.
func (r *UpdateProfileRequest) ChangesPassword() bool {
	return r.Password != ""
}
