package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

var (
	// ErrQuizNotFound indicates the quiz does not exist or is archived.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotInQuiz indicates an answer referenced a question that does
	// not belong to the quiz being submitted.
	ErrQuestionNotInQuiz = errors.New("question does not belong to quiz")
)

// QuizService exposes quiz authoring, submission scoring and results.
type QuizService interface {
	ListByClass(ctx context.Context, classID uint) ([]dto.QuizResponse, error)
	Get(ctx context.Context, id uint) (dto.QuizResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	AddQuestion(ctx context.Context, quizID uint, payload dto.QuizQuestionCreateRequest) (dto.QuizQuestionResponse, error)
	Submit(ctx context.Context, quizID, studentID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmissionResponse, error)
	Results(ctx context.Context, quizID uint) (dto.QuizResultsResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	classes   repository.ClassRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewQuizService constructs the quiz service.
func NewQuizService(quizzes repository.QuizRepository, classes repository.ClassRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		classes:   classes,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/classroom-go-api/internal/service/quiz"),
	}
}

func (s *quizService) ListByClass(ctx context.Context, classID uint) ([]dto.QuizResponse, error) {
	if _, err := s.classes.GetActiveByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	quizzes, err := s.quizzes.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.NewQuizResponse(quiz))
	}

	return responses, nil
}

func (s *quizService) Get(ctx context.Context, id uint) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetActiveWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Create(ctx context.Context, actor Actor, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	if _, err := s.classes.GetActiveByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrClassNotFound
		}
		return dto.QuizResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		ClassID:     payload.ClassID,
		Title:       payload.Title,
		Description: payload.Description,
		TotalPoints: payload.TotalPoints,
		TimeLimit:   payload.TimeLimit,
		DueDate:     dueDate,
		CreatedBy:   actor.ID,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("class_id", quiz.ClassID).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) AddQuestion(ctx context.Context, quizID uint, payload dto.QuizQuestionCreateRequest) (dto.QuizQuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizQuestionResponse{}, err
	}

	if _, err := s.quizzes.GetActiveByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizQuestionResponse{}, ErrQuizNotFound
		}
		return dto.QuizQuestionResponse{}, err
	}

	question := models.QuizQuestion{
		QuizID: quizID,
		Text:   payload.Text,
		Points: payload.Points,
		Type:   models.QuestionTypeMultipleChoice,
	}
	for _, option := range payload.Options {
		question.Options = append(question.Options, models.QuizOption{
			Text:    option.Text,
			Correct: option.Correct,
		})
	}

	if err := s.quizzes.CreateQuestion(ctx, &question); err != nil {
		return dto.QuizQuestionResponse{}, err
	}

	return dto.NewQuizQuestionResponse(question), nil
}

// Submit scores the attempt against the quiz's current questions. Unknown
// question IDs are rejected outright; an unknown or missing option only makes
// that answer wrong. Correctness is written into each answer row so later
// edits to the quiz cannot rewrite history.
func (s *quizService) Submit(ctx context.Context, quizID, studentID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "quiz.grade")
	defer span.End()

	span.SetAttributes(
		attribute.Int("quiz.id", int(quizID)),
		attribute.Int("quiz.answers", len(payload.Answers)),
	)

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	quiz, err := s.quizzes.GetActiveWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizSubmissionResponse{}, ErrQuizNotFound
		}
		return dto.QuizSubmissionResponse{}, err
	}

	enrolled, err := s.classes.Enrolled(ctx, quiz.ClassID, studentID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, err
	}
	if !enrolled {
		return dto.QuizSubmissionResponse{}, ErrNotEnrolled
	}

	questions := make(map[uint]models.QuizQuestion, len(quiz.Questions))
	for _, question := range quiz.Questions {
		questions[question.ID] = question
	}

	for _, answer := range payload.Answers {
		if _, ok := questions[answer.QuestionID]; !ok {
			return dto.QuizSubmissionResponse{}, fmt.Errorf("%w: question %d", ErrQuestionNotInQuiz, answer.QuestionID)
		}
	}

	submission := models.QuizSubmission{
		QuizID:    quizID,
		StudentID: studentID,
	}

	score := 0
	for _, answer := range payload.Answers {
		question := questions[answer.QuestionID]

		correct := false
		if answer.SelectedOptionID != nil {
			for _, option := range question.Options {
				if option.ID == *answer.SelectedOptionID {
					correct = option.Correct
					break
				}
			}
		}
		if correct {
			score += question.Points
		}

		submission.Answers = append(submission.Answers, models.QuizAnswer{
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			Correct:          correct,
		})
	}
	submission.Score = score

	if err := s.quizzes.CreateSubmission(ctx, &submission); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	span.SetAttributes(attribute.Int("quiz.score", score))

	if s.activity != nil {
		entityID := submission.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    studentID,
			ActorRole:  models.RoleStudent,
			Action:     "quiz.submit",
			EntityType: "quiz_submission",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"quiz_id": quizID,
				"score":   score,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record quiz activity")
		}
	}

	s.logger.Info().
		Uint("quiz_id", quizID).
		Uint("student_id", studentID).
		Int("score", score).
		Msg("quiz submitted")

	return dto.NewQuizSubmissionResponse(submission), nil
}

// Results builds the per-student result rows and the quiz-wide aggregates. A
// quiz with no submissions or zero total points reports zeroed statistics.
func (s *quizService) Results(ctx context.Context, quizID uint) (dto.QuizResultsResponse, error) {
	quiz, err := s.quizzes.GetActiveWithSubmissions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResultsResponse{}, ErrQuizNotFound
		}
		return dto.QuizResultsResponse{}, err
	}

	rows := make([]dto.QuizResultRow, 0, len(quiz.Submissions))
	totalScore := 0
	passed := 0
	for _, submission := range quiz.Submissions {
		totalScore += submission.Score
		if quiz.TotalPoints > 0 && float64(submission.Score) >= float64(quiz.TotalPoints)/2 {
			passed++
		}

		percentage := 0
		if quiz.TotalPoints > 0 {
			percentage = int(math.Round(float64(submission.Score) / float64(quiz.TotalPoints) * 100))
		}

		row := dto.QuizResultRow{
			SubmissionID: submission.ID,
			Status:       "completed",
			Score:        fmt.Sprintf("%d/%d", submission.Score, quiz.TotalPoints),
			Percentage:   percentage,
			Submitted:    submission.CreatedAt.Format(time.RFC3339),
		}
		if submission.Student != nil {
			row.StudentName = submission.Student.FullName()
			row.Email = submission.Student.Email
		}

		rows = append(rows, row)
	}

	summary := dto.QuizResultsSummary{
		Title:       quiz.Title,
		Description: quiz.Description,
		TotalPoints: quiz.TotalPoints,
		Completed:   len(rows),
	}
	if len(rows) > 0 {
		average := float64(totalScore) / float64(len(rows))
		summary.AverageScore = math.Round(average*100) / 100
		if quiz.TotalPoints > 0 {
			summary.AveragePercent = int(math.Round(average / float64(quiz.TotalPoints) * 100))
		}
		summary.PassRate = int(math.Round(float64(passed) / float64(len(rows)) * 100))
	}

	return dto.QuizResultsResponse{
		Quiz:    summary,
		Results: rows,
	}, nil
}
