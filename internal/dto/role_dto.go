package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// RoleCreateRequest describes the payload for creating a role.
type RoleCreateRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// RoleUpdateRequest describes the payload for updating a role.
type RoleUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// RoleResponse is the serialized representation returned to API clients.
type RoleResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRoleResponse converts a model into a DTO.
func NewRoleResponse(model models.Role) RoleResponse {
	return RoleResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Archived:    model.Archived,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewRoleResponseSlice converts a slice of models into DTOs.
func NewRoleResponseSlice(roles []models.Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, NewRoleResponse(role))
	}

	return responses
}
