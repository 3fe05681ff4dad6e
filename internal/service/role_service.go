package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

// ErrRoleNotFound indicates the requested role does not exist.
var ErrRoleNotFound = errors.New("role not found")

// ErrRoleNameTaken indicates the role name is already in use.
var ErrRoleNameTaken = errors.New("role name already taken")

// RoleService exposes role management use cases.
type RoleService interface {
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Get(ctx context.Context, id uint) (dto.RoleResponse, error)
	Create(ctx context.Context, payload dto.RoleCreateRequest) (dto.RoleResponse, error)
	Update(ctx context.Context, id uint, payload dto.RoleUpdateRequest) (dto.RoleResponse, error)
}

type roleService struct {
	repo      repository.RoleRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRoleService constructs the role service.
func NewRoleService(repo repository.RoleRepository, validate *validator.Validate, logger zerolog.Logger) RoleService {
	return &roleService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "role_service").Logger(),
	}
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewRoleResponseSlice(roles), nil
}

func (s *roleService) Get(ctx context.Context, id uint) (dto.RoleResponse, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	return dto.NewRoleResponse(role), nil
}

func (s *roleService) Create(ctx context.Context, payload dto.RoleCreateRequest) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	name := strings.ToLower(strings.TrimSpace(payload.Name))
	taken, err := s.repo.NameExists(ctx, name, 0)
	if err != nil {
		return dto.RoleResponse{}, err
	}
	if taken {
		return dto.RoleResponse{}, ErrRoleNameTaken
	}

	role := models.Role{
		Name:        name,
		Description: payload.Description,
	}

	if err := s.repo.Create(ctx, &role); err != nil {
		return dto.RoleResponse{}, err
	}

	s.logger.Info().Uint("role_id", role.ID).Str("name", role.Name).Msg("role created")

	return dto.NewRoleResponse(role), nil
}

func (s *roleService) Update(ctx context.Context, id uint, payload dto.RoleUpdateRequest) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	name := strings.ToLower(strings.TrimSpace(payload.Name))
	taken, err := s.repo.NameExists(ctx, name, id)
	if err != nil {
		return dto.RoleResponse{}, err
	}
	if taken {
		return dto.RoleResponse{}, ErrRoleNameTaken
	}

	role.Name = name
	role.Description = payload.Description

	if err := s.repo.Update(ctx, &role); err != nil {
		return dto.RoleResponse{}, err
	}

	s.logger.Info().Uint("role_id", role.ID).Msg("role updated")

	return dto.NewRoleResponse(role), nil
}
