package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

const testSecret = "unit-test-secret"

func setupAuthService(t *testing.T) (*gorm.DB, AuthService, repository.TokenStore) {
	t.Helper()

	db := newTestDB(t, "auth")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	tokens := repository.NewTokenStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	svc := NewAuthService(
		repository.NewUserRepository(db),
		tokens,
		validator.New(validator.WithRequiredStructEnabled()),
		testSecret,
		time.Hour,
		testLogger(),
	)

	return db, svc, tokens
}

func seedAccount(t *testing.T, db *gorm.DB, email, password string, archived bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	role := models.Role{Name: models.RoleStudent}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		FirstName: "Alex",
		LastName:  "Account",
		Email:     email,
		Password:  string(hash),
		RoleID:    &role.ID,
		Archived:  archived,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	db, svc, _ := setupAuthService(t)
	user := seedAccount(t, db, "alex@example.com", "secret123", false)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alex@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, user.ID, response.User.ID)
	require.NotEmpty(t, response.Token)

	token, err := jwt.Parse(response.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, models.RoleStudent, claims["role"])
	require.NotEmpty(t, claims["jti"])
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	db, svc, _ := setupAuthService(t)
	seedAccount(t, db, "alex@example.com", "secret123", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alex@example.com", Password: "nope-nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginArchivedAccount(t *testing.T) {
	db, svc, _ := setupAuthService(t)
	seedAccount(t, db, "gone@example.com", "secret123", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "gone@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	db, svc, tokens := setupAuthService(t)
	seedAccount(t, db, "alex@example.com", "secret123", false)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alex@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), response.Token))

	parsed, err := jwt.Parse(response.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)

	revoked, err := tokens.IsRevoked(context.Background(), jti)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestAuthServiceLogoutRejectsGarbage(t *testing.T) {
	_, svc, _ := setupAuthService(t)

	require.ErrorIs(t, svc.Logout(context.Background(), "not-a-token"), ErrInvalidToken)
}

func TestAuthServiceLogoutRejectsForeignSignature(t *testing.T) {
	_, svc, _ := setupAuthService(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"jti": "forged",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Logout(context.Background(), forged), ErrInvalidToken)
}
