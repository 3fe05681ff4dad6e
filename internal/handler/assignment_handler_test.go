package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/handler"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/service"
)

type mockAssignmentService struct {
	submitAssignmentID uint
	submitStudentID    uint
	submitFiles        int
	gradePayload       dto.GradeSubmissionRequest
	submission         dto.SubmissionResponse
	err                error
}

func (m *mockAssignmentService) ListByClass(context.Context, uint) ([]dto.AssignmentResponse, error) {
	return nil, m.err
}

func (m *mockAssignmentService) Get(context.Context, uint) (dto.AssignmentResponse, error) {
	return dto.AssignmentResponse{}, m.err
}

func (m *mockAssignmentService) Create(context.Context, service.Actor, dto.AssignmentCreateRequest, []*multipart.FileHeader) (dto.AssignmentResponse, error) {
	return dto.AssignmentResponse{}, m.err
}

func (m *mockAssignmentService) Update(context.Context, uint, dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	return dto.AssignmentResponse{}, m.err
}

func (m *mockAssignmentService) Submit(_ context.Context, assignmentID, studentID uint, files []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	m.submitAssignmentID = assignmentID
	m.submitStudentID = studentID
	m.submitFiles = len(files)
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.submission, nil
}

func (m *mockAssignmentService) GradeSubmission(_ context.Context, _ service.Actor, _ uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	m.gradePayload = payload
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.submission, nil
}

func (m *mockAssignmentService) Submissions(context.Context, uint) (dto.SubmissionListResponse, error) {
	return dto.SubmissionListResponse{}, m.err
}

func newAssignmentApp(svc service.AssignmentService, userID uint, role string) *fiber.App {
	app := fiber.New()
	h := handler.NewAssignmentHandler(svc, &archiveStub{}, zerolog.New(io.Discard))
	group := app.Group("/api/v1/assignments", authenticated(userID, role))
	h.RegisterManage(group)
	h.RegisterSubmit(group)
	h.Register(group)
	submissions := app.Group("/api/v1/submissions", authenticated(userID, role))
	h.RegisterGrading(submissions)
	return app
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestAssignmentHandler_SubmitMultipart(t *testing.T) {
	svc := &mockAssignmentService{submission: dto.SubmissionResponse{ID: 1, AssignmentID: 9, StudentID: 42, Status: "submitted"}}
	app := newAssignmentApp(svc, 42, models.RoleStudent)

	body, contentType := multipartBody(t, "files", "homework.txt", []byte("my answers"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/9/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, "submitted", response.Data.Status)
	require.Equal(t, uint(9), svc.submitAssignmentID)
	require.Equal(t, uint(42), svc.submitStudentID)
	require.Equal(t, 1, svc.submitFiles)
}

func TestAssignmentHandler_SubmitRejectsMissingFile(t *testing.T) {
	svc := &mockAssignmentService{err: service.ErrFileRequired}
	app := newAssignmentApp(svc, 42, models.RoleStudent)

	body, contentType := multipartBody(t, "other", "homework.txt", []byte("my answers"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/9/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandler_GradeSubmission(t *testing.T) {
	grade := 85
	svc := &mockAssignmentService{submission: dto.SubmissionResponse{ID: 3, Status: "graded", Grade: &grade}}
	app := newAssignmentApp(svc, 1, models.RoleTeacher)

	body, err := json.Marshal(dto.GradeSubmissionRequest{Grade: &grade, Feedback: "well done"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/3/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.gradePayload.Grade)
	require.Equal(t, 85, *svc.gradePayload.Grade)
	require.Equal(t, "well done", svc.gradePayload.Feedback)
}

func TestAssignmentHandler_GradeExceedsMax(t *testing.T) {
	grade := 120
	svc := &mockAssignmentService{err: service.ErrGradeExceedsMax}
	app := newAssignmentApp(svc, 1, models.RoleTeacher)

	body, err := json.Marshal(dto.GradeSubmissionRequest{Grade: &grade})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/3/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandler_ListRequiresClassID(t *testing.T) {
	app := newAssignmentApp(&mockAssignmentService{}, 1, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
