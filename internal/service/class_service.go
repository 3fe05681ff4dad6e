package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

// ErrClassNotFound indicates the requested class does not exist or is archived.
var ErrClassNotFound = errors.New("class not found")

// ErrClassCodeTaken indicates the join code is already in use. Codes are never
// reused, so archived classes hold their codes forever.
var ErrClassCodeTaken = errors.New("class code already taken")

// ErrAlreadyEnrolled indicates the student already joined the class.
var ErrAlreadyEnrolled = errors.New("student already enrolled in class")

const joinCodeLength = 8

// ClassService exposes class, enrollment and grade aggregation use cases.
type ClassService interface {
	List(ctx context.Context, actor Actor) ([]dto.ClassResponse, error)
	Get(ctx context.Context, id uint) (dto.ClassResponse, error)
	Create(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Join(ctx context.Context, studentID uint, payload dto.JoinClassRequest) (dto.EnrollmentResponse, error)
	Roster(ctx context.Context, classID uint) ([]dto.UserResponse, error)
	Grades(ctx context.Context, classID uint) (dto.ClassGradesResponse, error)
}

type classService struct {
	classes     repository.ClassRepository
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	quizzes     repository.QuizRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes repository.ClassRepository, users repository.UserRepository, assignments repository.AssignmentRepository, quizzes repository.QuizRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:     classes,
		users:       users,
		assignments: assignments,
		quizzes:     quizzes,
		validator:   validate,
		logger:      logger.With().Str("component", "class_service").Logger(),
	}
}

// List applies role-based visibility: admins see every active class, teachers
// the classes they teach, everyone else the classes they are enrolled in.
func (s *classService) List(ctx context.Context, actor Actor) ([]dto.ClassResponse, error) {
	var (
		classes []models.Class
		err     error
	)

	switch strings.ToLower(strings.TrimSpace(actor.Role)) {
	case models.RoleAdmin:
		classes, err = s.classes.ListActive(ctx)
	case models.RoleTeacher:
		classes, err = s.classes.ListActiveByTeacher(ctx, actor.ID)
	default:
		classes, err = s.classes.ListActiveByStudent(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Get(ctx context.Context, id uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) Create(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.TeacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrUserNotFound
		}
		return dto.ClassResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	if code != "" {
		taken, err := s.classes.CodeExists(ctx, code, 0)
		if err != nil {
			return dto.ClassResponse{}, err
		}
		if taken {
			return dto.ClassResponse{}, ErrClassCodeTaken
		}
	} else {
		generated, err := s.generateCode(ctx)
		if err != nil {
			return dto.ClassResponse{}, err
		}
		code = generated
	}

	class := models.Class{
		Name:        payload.Name,
		Section:     payload.Section,
		Subject:     payload.Subject,
		Room:        payload.Room,
		Code:        code,
		TeacherID:   payload.TeacherID,
		Description: payload.Description,
	}

	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	created, err := s.classes.GetByID(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", created.ID).Str("code", created.Code).Msg("class created")

	return dto.NewClassResponse(created), nil
}

func (s *classService) Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.TeacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrUserNotFound
		}
		return dto.ClassResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	taken, err := s.classes.CodeExists(ctx, code, id)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if taken {
		return dto.ClassResponse{}, ErrClassCodeTaken
	}

	class.Name = payload.Name
	class.Section = payload.Section
	class.Subject = payload.Subject
	class.Room = payload.Room
	class.Code = code
	class.TeacherID = payload.TeacherID
	class.Description = payload.Description
	class.Teacher = nil

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	updated, err := s.classes.GetByID(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", updated.ID).Msg("class updated")

	return dto.NewClassResponse(updated), nil
}

// Join enrolls the student into the active class matching the code. A second
// join for the same (class, student) pair is rejected, never absorbed.
func (s *classService) Join(ctx context.Context, studentID uint, payload dto.JoinClassRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	class, err := s.classes.GetActiveByCode(ctx, strings.ToUpper(strings.TrimSpace(payload.Code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrClassNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrolled, err := s.classes.Enrolled(ctx, class.ID, studentID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if enrolled {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{
		ClassID:   class.ID,
		StudentID: studentID,
	}

	if err := s.classes.Enroll(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("student_id", studentID).Msg("student joined class")

	return dto.EnrollmentResponse{
		ClassID:   class.ID,
		StudentID: studentID,
		ClassName: class.Name,
		JoinedAt:  enrollment.CreatedAt,
	}, nil
}

func (s *classService) Roster(ctx context.Context, classID uint) ([]dto.UserResponse, error) {
	if _, err := s.classes.GetActiveByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	students, err := s.classes.Roster(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

// Grades recomputes the per-student aggregation from current rows on every
// call. A missing submission counts as zero earned while the maximum still
// accrues; a class with no gradable work yields a nil overall, not a zero.
func (s *classService) Grades(ctx context.Context, classID uint) (dto.ClassGradesResponse, error) {
	if _, err := s.classes.GetActiveByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassGradesResponse{}, ErrClassNotFound
		}
		return dto.ClassGradesResponse{}, err
	}

	students, err := s.classes.Roster(ctx, classID)
	if err != nil {
		return dto.ClassGradesResponse{}, err
	}

	assignments, err := s.assignments.ListActiveByClass(ctx, classID)
	if err != nil {
		return dto.ClassGradesResponse{}, err
	}

	quizzes, err := s.quizzes.ListActiveByClass(ctx, classID)
	if err != nil {
		return dto.ClassGradesResponse{}, err
	}

	summaries := make([]dto.StudentGradeSummary, 0, len(students))
	for _, student := range students {
		var assignmentEarned, assignmentMax int
		for _, assignment := range assignments {
			assignmentMax += assignment.MaxPoints
			for _, submission := range assignment.Submissions {
				if submission.StudentID == student.ID && submission.Grade != nil {
					assignmentEarned += *submission.Grade
					break
				}
			}
		}

		var quizEarned, quizMax int
		for _, quiz := range quizzes {
			quizMax += quiz.TotalPoints
			for _, submission := range quiz.Submissions {
				if submission.StudentID == student.ID {
					quizEarned += submission.Score
					break
				}
			}
		}

		summary := dto.StudentGradeSummary{
			StudentID:   student.ID,
			Name:        student.FullName(),
			Email:       student.Email,
			Assignments: fmt.Sprintf("%d/%d", assignmentEarned, assignmentMax),
			Quizzes:     fmt.Sprintf("%d/%d", quizEarned, quizMax),
		}

		if total := assignmentMax + quizMax; total > 0 {
			overall := int(math.Round(float64(assignmentEarned+quizEarned) / float64(total) * 100))
			summary.Overall = &overall
		}

		summaries = append(summaries, summary)
	}

	return dto.ClassGradesResponse{
		ClassID:  classID,
		Students: summaries,
	}, nil
}

func (s *classService) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		code := raw[:joinCodeLength]

		taken, err := s.classes.CodeExists(ctx, code, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique class code")
}
