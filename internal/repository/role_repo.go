package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	ListActive(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id uint) (models.Role, error)
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository instantiates a GORM-backed role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) ListActive(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("id ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return models.Role{}, err
	}

	return role, nil
}

func (r *roleRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}
