package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

var (
	// ErrAssignmentNotFound indicates the assignment does not exist or is archived.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates the submission does not exist or is archived.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrGradeExceedsMax indicates the grade is above the assignment's max points.
	ErrGradeExceedsMax = errors.New("grade exceeds assignment max points")
	// ErrNotEnrolled indicates the student is not on the class roster.
	ErrNotEnrolled = errors.New("student not enrolled in class")
	// ErrFileRequired indicates a submission arrived without any file.
	ErrFileRequired = errors.New("at least one file is required")
	// ErrFileTooLarge indicates an uploaded file exceeded the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrFileTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

const maxUploadBytes = int64(10) * 1024 * 1024

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AssignmentService exposes assignment, submission and grading use cases.
type AssignmentService interface {
	ListByClass(ctx context.Context, classID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest, files []*multipart.FileHeader) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Submit(ctx context.Context, assignmentID, studentID uint, files []*multipart.FileHeader) (dto.SubmissionResponse, error)
	GradeSubmission(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
	Submissions(ctx context.Context, assignmentID uint) (dto.SubmissionListResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	classes     repository.ClassRepository
	storage     FileStorage
	activity    ActivityRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, classes repository.ClassRepository, storage FileStorage, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		classes:     classes,
		storage:     storage,
		activity:    activity,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) ListByClass(ctx context.Context, classID uint) ([]dto.AssignmentResponse, error) {
	if _, err := s.classes.GetActiveByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	assignments, err := s.assignments.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	response := dto.NewAssignmentResponse(assignment)
	counts := dto.CountSubmissions(assignment.Submissions)
	response.Counts = &counts

	return response, nil
}

func (s *assignmentService) Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest, files []*multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.classes.GetActiveByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrClassNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		ClassID:      payload.ClassID,
		Title:        payload.Title,
		Instructions: payload.Instructions,
		MaxPoints:    payload.MaxPoints,
		DueDate:      dueDate,
		Topic:        payload.Topic,
		CreatedBy:    actor.ID,
	}

	for _, file := range files {
		url, fileType, err := s.storeFile(ctx, file)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Attachments = append(assignment.Attachments, models.AssignmentAttachment{
			FilePath: url,
			FileType: fileType,
		})
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("class_id", assignment.ClassID).
		Int("attachments", len(assignment.Attachments)).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Instructions != nil {
		assignment.Instructions = *payload.Instructions
	}
	if payload.MaxPoints != nil {
		assignment.MaxPoints = *payload.MaxPoints
	}
	if payload.DueDate != nil {
		dueDate, err := parseDueDate(payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}
	if payload.Topic != nil {
		assignment.Topic = *payload.Topic
	}

	assignment.Attachments = nil
	assignment.Submissions = nil

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updated, err := s.assignments.GetActiveByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(updated), nil
}

// Submit records a student upload against an active assignment. The student
// must be on the class roster.
func (s *assignmentService) Submit(ctx context.Context, assignmentID, studentID uint, files []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	if len(files) == 0 {
		return dto.SubmissionResponse{}, ErrFileRequired
	}

	assignment, err := s.assignments.GetActiveByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	enrolled, err := s.classes.Enrolled(ctx, assignment.ClassID, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, ErrNotEnrolled
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Status:       models.SubmissionStatusSubmitted,
	}

	for _, file := range files {
		url, fileType, err := s.storeFile(ctx, file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		submission.Files = append(submission.Files, models.SubmissionFile{
			FilePath: url,
			FileType: fileType,
		})
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", assignmentID).
		Uint("student_id", studentID).
		Msg("assignment submitted")

	return dto.NewSubmissionResponse(submission), nil
}

// GradeSubmission stores grade and feedback. The grade is capped by the
// assignment's max points, never silently clamped.
func (s *assignmentService) GradeSubmission(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetActiveByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetActiveByID(ctx, submission.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if *payload.Grade > assignment.MaxPoints {
		return dto.SubmissionResponse{}, ErrGradeExceedsMax
	}

	submission.Grade = payload.Grade
	submission.Feedback = payload.Feedback
	submission.Status = models.SubmissionStatusGraded
	submission.Student = nil
	submission.Files = nil

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		entityID := submission.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.grade",
			EntityType: "submission",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"assignment_id": assignment.ID,
				"grade":         *payload.Grade,
				"max_points":    assignment.MaxPoints,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record grading activity")
		}
	}

	graded, err := s.submissions.GetActiveByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", graded.ID).
		Int("grade", *payload.Grade).
		Msg("submission graded")

	return dto.NewSubmissionResponse(graded), nil
}

func (s *assignmentService) Submissions(ctx context.Context, assignmentID uint) (dto.SubmissionListResponse, error) {
	if _, err := s.assignments.GetActiveByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionListResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionListResponse{}, err
	}

	submissions, err := s.submissions.ListActiveByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	return dto.SubmissionListResponse{
		Items:  dto.NewSubmissionResponseSlice(submissions),
		Counts: dto.CountSubmissions(submissions),
	}, nil
}

// storeFile validates size and detected MIME type, then hands the payload to
// the configured storage backend.
func (s *assignmentService) storeFile(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	if file.Size > maxUploadBytes {
		return "", "", ErrFileTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxUploadBytes+1)); err != nil {
		return "", "", err
	}
	if int64(buf.Len()) > maxUploadBytes {
		return "", "", ErrFileTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	fileType := mime.String()
	if !allowedUploadType(fileType) {
		return "", "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, fileType)
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", "", err
	}

	return url, fileType, nil
}

func allowedUploadType(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(lower, "image/") || strings.HasPrefix(lower, "text/") {
		return true
	}
	switch lower {
	case "application/pdf", "application/zip", "application/x-zip-compressed",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return true
	default:
		return false
	}
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}

	return &parsed, nil
}
