package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// UserCreateRequest describes the payload for creating a user account.
type UserCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	RoleID    *uint  `json:"role_id"`
	Avatar    string `json:"avatar" validate:"omitempty,max=255"`
}

// UserUpdateRequest describes the payload for updating a user. Password is
// optional; when omitted the stored hash is kept.
type UserUpdateRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	RoleID    uint    `json:"role_id" validate:"required"`
	Avatar    string  `json:"avatar" validate:"omitempty,max=255"`
}

// UserResponse is the serialized representation returned to API clients.
type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	RoleID    *uint     `json:"role_id"`
	RoleName  string    `json:"role_name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		RoleID:    model.RoleID,
		RoleName:  model.RoleName(),
		Avatar:    model.Avatar,
		Archived:  model.Archived,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
