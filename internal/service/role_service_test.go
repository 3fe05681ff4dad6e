package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

func setupRoleService(t *testing.T) (*gorm.DB, RoleService) {
	t.Helper()

	db := newTestDB(t, "role")
	svc := NewRoleService(
		repository.NewRoleRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)

	return db, svc
}

func TestRoleServiceCreateNormalizesName(t *testing.T) {
	_, svc := setupRoleService(t)

	created, err := svc.Create(context.Background(), dto.RoleCreateRequest{Name: "  Teacher "})
	require.NoError(t, err)
	require.Equal(t, "teacher", created.Name)
}

func TestRoleServiceCreateDuplicateName(t *testing.T) {
	db, svc := setupRoleService(t)
	require.NoError(t, db.Create(&models.Role{Name: "admin"}).Error)

	_, err := svc.Create(context.Background(), dto.RoleCreateRequest{Name: "Admin"})
	require.ErrorIs(t, err, ErrRoleNameTaken)
}

func TestRoleServiceUpdateKeepsOwnName(t *testing.T) {
	db, svc := setupRoleService(t)

	role := models.Role{Name: "teacher", Description: "teaches"}
	require.NoError(t, db.Create(&role).Error)

	updated, err := svc.Update(context.Background(), role.ID, dto.RoleUpdateRequest{
		Name:        "teacher",
		Description: "teaches classes",
	})
	require.NoError(t, err)
	require.Equal(t, "teaches classes", updated.Description)
}

func TestRoleServiceListSkipsArchived(t *testing.T) {
	db, svc := setupRoleService(t)
	require.NoError(t, db.Create(&models.Role{Name: "admin"}).Error)
	require.NoError(t, db.Create(&models.Role{Name: "legacy", Archived: true}).Error)

	roles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, "admin", roles[0].Name)
}

func TestRoleServiceGetMissing(t *testing.T) {
	_, svc := setupRoleService(t)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrRoleNotFound)
}
