package dto

// LoginRequest carries user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the authenticated user and a signed access token.
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
