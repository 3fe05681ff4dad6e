package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// QuizCreateRequest describes the payload for creating a quiz.
type QuizCreateRequest struct {
	ClassID     uint    `json:"class_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	TotalPoints int     `json:"total_points" validate:"gte=0"`
	TimeLimit   *int    `json:"time_limit" validate:"omitempty,gt=0"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// QuizOptionInput is one candidate answer supplied with a new question.
type QuizOptionInput struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"is_correct"`
}

// QuizQuestionCreateRequest describes the payload for adding a question.
type QuizQuestionCreateRequest struct {
	Text    string            `json:"text" validate:"required"`
	Points  int               `json:"points" validate:"gte=0"`
	Options []QuizOptionInput `json:"options" validate:"required,min=2,dive"`
}

// QuizAnswerInput is one answer in a quiz submission. SelectedOptionID may be
// nil when the student left the question unanswered.
type QuizAnswerInput struct {
	QuestionID       uint  `json:"question_id" validate:"required"`
	SelectedOptionID *uint `json:"selected_option_id"`
}

// QuizSubmitRequest carries a student's answers for scoring.
type QuizSubmitRequest struct {
	Answers []QuizAnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// QuizOptionResponse is a serialized quiz option.
type QuizOptionResponse struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"is_correct"`
}

// QuizQuestionResponse is a serialized quiz question with its options.
type QuizQuestionResponse struct {
	ID      uint                 `json:"id"`
	QuizID  uint                 `json:"quiz_id"`
	Text    string               `json:"text"`
	Points  int                  `json:"points"`
	Type    string               `json:"type"`
	Options []QuizOptionResponse `json:"options"`
}

// NewQuizQuestionResponse converts a model into a DTO.
func NewQuizQuestionResponse(model models.QuizQuestion) QuizQuestionResponse {
	options := make([]QuizOptionResponse, 0, len(model.Options))
	for _, option := range model.Options {
		options = append(options, QuizOptionResponse{
			ID:      option.ID,
			Text:    option.Text,
			Correct: option.Correct,
		})
	}

	return QuizQuestionResponse{
		ID:      model.ID,
		QuizID:  model.QuizID,
		Text:    model.Text,
		Points:  model.Points,
		Type:    model.Type,
		Options: options,
	}
}

// QuizResponse is the serialized representation of a quiz.
type QuizResponse struct {
	ID          uint                   `json:"id"`
	ClassID     uint                   `json:"class_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	TotalPoints int                    `json:"total_points"`
	TimeLimit   *int                   `json:"time_limit"`
	DueDate     *time.Time             `json:"due_date"`
	CreatedBy   uint                   `json:"created_by"`
	Archived    bool                   `json:"archived"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Questions   []QuizQuestionResponse `json:"questions,omitempty"`
}

// NewQuizResponse converts a model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	questions := make([]QuizQuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuizQuestionResponse(question))
	}

	return QuizResponse{
		ID:          model.ID,
		ClassID:     model.ClassID,
		Title:       model.Title,
		Description: model.Description,
		TotalPoints: model.TotalPoints,
		TimeLimit:   model.TimeLimit,
		DueDate:     model.DueDate,
		CreatedBy:   model.CreatedBy,
		Archived:    model.Archived,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		Questions:   questions,
	}
}

// QuizAnswerResponse is a serialized graded answer.
type QuizAnswerResponse struct {
	ID               uint  `json:"id"`
	QuestionID       uint  `json:"question_id"`
	SelectedOptionID *uint `json:"selected_option_id"`
	Correct          bool  `json:"is_correct"`
}

// QuizSubmissionResponse is a serialized attempt with its computed score.
type QuizSubmissionResponse struct {
	ID        uint                 `json:"id"`
	QuizID    uint                 `json:"quiz_id"`
	StudentID uint                 `json:"student_id"`
	Score     int                  `json:"score"`
	Answers   []QuizAnswerResponse `json:"answers"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewQuizSubmissionResponse converts a model into a DTO.
func NewQuizSubmissionResponse(model models.QuizSubmission) QuizSubmissionResponse {
	answers := make([]QuizAnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, QuizAnswerResponse{
			ID:               answer.ID,
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			Correct:          answer.Correct,
		})
	}

	return QuizSubmissionResponse{
		ID:        model.ID,
		QuizID:    model.QuizID,
		StudentID: model.StudentID,
		Score:     model.Score,
		Answers:   answers,
		CreatedAt: model.CreatedAt,
	}
}

// QuizResultRow is one student's line in the quiz results view.
type QuizResultRow struct {
	SubmissionID uint   `json:"submission_id"`
	StudentName  string `json:"student_name"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	Score        string `json:"score"`
	Percentage   int    `json:"percentage"`
	Submitted    string `json:"submitted"`
}

// QuizResultsSummary aggregates quiz-wide statistics.
type QuizResultsSummary struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	TotalPoints    int     `json:"total_points"`
	Completed      int     `json:"completed"`
	AverageScore   float64 `json:"average_score"`
	AveragePercent int     `json:"average_percent"`
	PassRate       int     `json:"pass_rate"`
}

// QuizResultsResponse is the full results view for a quiz.
type QuizResultsResponse struct {
	Quiz    QuizResultsSummary `json:"quiz"`
	Results []QuizResultRow    `json:"results"`
}
