package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class. Code is
// optional; a unique join code is generated when it is omitted.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Section     string `json:"section" validate:"omitempty,max=100"`
	Subject     string `json:"subject" validate:"omitempty,max=150"`
	Room        string `json:"room" validate:"omitempty,max=50"`
	Code        string `json:"code" validate:"omitempty,min=4,max=12"`
	TeacherID   uint   `json:"teacher_id" validate:"required"`
	Description string `json:"description"`
}

// ClassUpdateRequest describes the payload for updating a class.
type ClassUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Section     string `json:"section" validate:"omitempty,max=100"`
	Subject     string `json:"subject" validate:"omitempty,max=150"`
	Room        string `json:"room" validate:"omitempty,max=50"`
	Code        string `json:"code" validate:"required,min=4,max=12"`
	TeacherID   uint   `json:"teacher_id" validate:"required"`
	Description string `json:"description"`
}

// JoinClassRequest carries the join code a student presents.
type JoinClassRequest struct {
	Code string `json:"code" validate:"required,min=4,max=12"`
}

// ClassResponse is the serialized representation returned to API clients.
type ClassResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Section     string        `json:"section,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	Room        string        `json:"room,omitempty"`
	Code        string        `json:"code"`
	TeacherID   uint          `json:"teacher_id"`
	Description string        `json:"description,omitempty"`
	Archived    bool          `json:"archived"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Teacher     *UserResponse `json:"teacher,omitempty"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	response := ClassResponse{
		ID:          model.ID,
		Name:        model.Name,
		Section:     model.Section,
		Subject:     model.Subject,
		Room:        model.Room,
		Code:        model.Code,
		TeacherID:   model.TeacherID,
		Description: model.Description,
		Archived:    model.Archived,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Teacher != nil {
		teacher := NewUserResponse(*model.Teacher)
		response.Teacher = &teacher
	}

	return response
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}

	return responses
}

// EnrollmentResponse confirms a student joined a class.
type EnrollmentResponse struct {
	ClassID   uint      `json:"class_id"`
	StudentID uint      `json:"student_id"`
	ClassName string    `json:"class_name"`
	JoinedAt  time.Time `json:"joined_at"`
}

// StudentGradeSummary aggregates one student's standing in a class.
// Overall is nil when the class has no gradable work for the student,
// signalling "no data" rather than a zero grade.
type StudentGradeSummary struct {
	StudentID   uint   `json:"student_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Assignments string `json:"assignments"`
	Quizzes     string `json:"quizzes"`
	Overall     *int   `json:"overall"`
}

// ClassGradesResponse is the per-student grade aggregation for a class.
type ClassGradesResponse struct {
	ClassID  uint                  `json:"class_id"`
	Students []StudentGradeSummary `json:"students"`
}
