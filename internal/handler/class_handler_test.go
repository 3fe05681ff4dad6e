package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/handler"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
	"github.com/noah-isme/classroom-go-api/internal/service"
)

type mockClassService struct {
	joinStudentID uint
	joinPayload   dto.JoinClassRequest
	enrollment    dto.EnrollmentResponse
	grades        dto.ClassGradesResponse
	err           error
}

func (m *mockClassService) List(context.Context, service.Actor) ([]dto.ClassResponse, error) {
	return nil, m.err
}

func (m *mockClassService) Get(context.Context, uint) (dto.ClassResponse, error) {
	return dto.ClassResponse{}, m.err
}

func (m *mockClassService) Create(context.Context, dto.ClassCreateRequest) (dto.ClassResponse, error) {
	return dto.ClassResponse{}, m.err
}

func (m *mockClassService) Update(context.Context, uint, dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	return dto.ClassResponse{}, m.err
}

func (m *mockClassService) Join(_ context.Context, studentID uint, payload dto.JoinClassRequest) (dto.EnrollmentResponse, error) {
	m.joinStudentID = studentID
	m.joinPayload = payload
	if m.err != nil {
		return dto.EnrollmentResponse{}, m.err
	}
	return m.enrollment, nil
}

func (m *mockClassService) Roster(context.Context, uint) ([]dto.UserResponse, error) {
	return nil, m.err
}

func (m *mockClassService) Grades(context.Context, uint) (dto.ClassGradesResponse, error) {
	if m.err != nil {
		return dto.ClassGradesResponse{}, m.err
	}
	return m.grades, nil
}

func newClassApp(svc service.ClassService, archive service.ArchiveService, userID uint, role string) *fiber.App {
	app := fiber.New()
	h := handler.NewClassHandler(svc, archive, zerolog.New(io.Discard))
	group := app.Group("/api/v1/classes", authenticated(userID, role))
	h.RegisterJoin(group)
	h.RegisterManage(group)
	h.Register(group)
	return app
}

func TestClassHandler_JoinSuccess(t *testing.T) {
	svc := &mockClassService{enrollment: dto.EnrollmentResponse{
		ClassID:   7,
		StudentID: 42,
		ClassName: "Algebra I",
		JoinedAt:  time.Now().UTC(),
	}}
	app := newClassApp(svc, &archiveStub{}, 42, models.RoleStudent)

	body, err := json.Marshal(dto.JoinClassRequest{Code: "ALG12345"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.EnrollmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "Algebra I", response.Data.ClassName)
	require.Equal(t, uint(42), svc.joinStudentID)
	require.Equal(t, "ALG12345", svc.joinPayload.Code)
}

func TestClassHandler_JoinConflict(t *testing.T) {
	svc := &mockClassService{err: service.ErrAlreadyEnrolled}
	app := newClassApp(svc, &archiveStub{}, 42, models.RoleStudent)

	body, err := json.Marshal(dto.JoinClassRequest{Code: "ALG12345"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestClassHandler_GetNotFound(t *testing.T) {
	svc := &mockClassService{err: service.ErrClassNotFound}
	app := newClassApp(svc, &archiveStub{}, 1, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/99", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClassHandler_GradesSuccess(t *testing.T) {
	overall := 80
	svc := &mockClassService{grades: dto.ClassGradesResponse{
		ClassID: 7,
		Students: []dto.StudentGradeSummary{
			{StudentID: 42, Assignments: "80/100", Quizzes: "40/50", Overall: &overall},
		},
	}}
	app := newClassApp(svc, &archiveStub{}, 1, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/7/grades", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.ClassGradesResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.Len(t, response.Data.Students, 1)
	require.Equal(t, "80/100", response.Data.Students[0].Assignments)
	require.NotNil(t, response.Data.Students[0].Overall)
	require.Equal(t, 80, *response.Data.Students[0].Overall)
}

func TestClassHandler_ArchiveUsesClassKind(t *testing.T) {
	archive := &archiveStub{}
	app := newClassApp(&mockClassService{}, archive, 1, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/classes/7", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []repository.ArchiveKind{repository.ArchiveKindClass}, archive.archived)
}

func TestClassHandler_ArchiveMissingClass(t *testing.T) {
	archive := &archiveStub{err: service.ErrArchiveTargetNotFound}
	app := newClassApp(&mockClassService{}, archive, 1, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/classes/99", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
