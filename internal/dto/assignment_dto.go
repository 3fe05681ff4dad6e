package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	ClassID      uint    `form:"class_id" json:"class_id" validate:"required"`
	Title        string  `form:"title" json:"title" validate:"required,max=255"`
	Instructions string  `form:"instructions" json:"instructions"`
	MaxPoints    int     `form:"max_points" json:"max_points" validate:"gte=0"`
	DueDate      *string `form:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Topic        string  `form:"topic" json:"topic" validate:"omitempty,max=255"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title        *string `form:"title" json:"title" validate:"omitempty,max=255"`
	Instructions *string `form:"instructions" json:"instructions"`
	MaxPoints    *int    `form:"max_points" json:"max_points" validate:"omitempty,gte=0"`
	DueDate      *string `form:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Topic        *string `form:"topic" json:"topic" validate:"omitempty,max=255"`
}

// GradeSubmissionRequest carries the grade and feedback for a submission.
type GradeSubmissionRequest struct {
	Grade    *int   `json:"grade" validate:"required,gte=0"`
	Feedback string `json:"feedback"`
}

// AttachmentResponse is a serialized assignment attachment.
type AttachmentResponse struct {
	ID       uint   `json:"id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
}

// NewAttachmentResponse converts a model into a DTO.
func NewAttachmentResponse(model models.AssignmentAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:       model.ID,
		FilePath: model.FilePath,
		FileType: model.FileType,
	}
}

// SubmissionFileResponse is a serialized submission file.
type SubmissionFileResponse struct {
	ID       uint   `json:"id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
}

// SubmissionResponse is the serialized representation of a submission.
type SubmissionResponse struct {
	ID           uint                     `json:"id"`
	AssignmentID uint                     `json:"assignment_id"`
	StudentID    uint                     `json:"student_id"`
	StudentName  string                   `json:"student_name,omitempty"`
	Status       string                   `json:"status"`
	Grade        *int                     `json:"grade"`
	Feedback     string                   `json:"feedback,omitempty"`
	Files        []SubmissionFileResponse `json:"files,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	files := make([]SubmissionFileResponse, 0, len(model.Files))
	for _, file := range model.Files {
		files = append(files, SubmissionFileResponse{
			ID:       file.ID,
			FilePath: file.FilePath,
			FileType: file.FileType,
		})
	}

	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
		Files:        files,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Student != nil {
		response.StudentName = model.Student.FullName()
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// SubmissionCounts partitions submissions by grade presence.
type SubmissionCounts struct {
	Total    int `json:"total"`
	Graded   int `json:"graded"`
	Ungraded int `json:"ungraded"`
}

// CountSubmissions computes the graded/ungraded partition.
func CountSubmissions(submissions []models.Submission) SubmissionCounts {
	counts := SubmissionCounts{Total: len(submissions)}
	for _, submission := range submissions {
		if submission.IsGraded() {
			counts.Graded++
		} else {
			counts.Ungraded++
		}
	}

	return counts
}

// AssignmentResponse is the serialized representation of an assignment.
type AssignmentResponse struct {
	ID           uint                 `json:"id"`
	ClassID      uint                 `json:"class_id"`
	Title        string               `json:"title"`
	Instructions string               `json:"instructions,omitempty"`
	MaxPoints    int                  `json:"max_points"`
	DueDate      *time.Time           `json:"due_date"`
	Topic        string               `json:"topic,omitempty"`
	CreatedBy    uint                 `json:"created_by"`
	Archived     bool                 `json:"archived"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Attachments  []AttachmentResponse `json:"attachments,omitempty"`
	Submissions  []SubmissionResponse `json:"submissions,omitempty"`
	Counts       *SubmissionCounts    `json:"counts,omitempty"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	attachments := make([]AttachmentResponse, 0, len(model.Attachments))
	for _, attachment := range model.Attachments {
		attachments = append(attachments, NewAttachmentResponse(attachment))
	}

	return AssignmentResponse{
		ID:           model.ID,
		ClassID:      model.ClassID,
		Title:        model.Title,
		Instructions: model.Instructions,
		MaxPoints:    model.MaxPoints,
		DueDate:      model.DueDate,
		Topic:        model.Topic,
		CreatedBy:    model.CreatedBy,
		Archived:     model.Archived,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Attachments:  attachments,
		Submissions:  NewSubmissionResponseSlice(model.Submissions),
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// SubmissionListResponse lists an assignment's submissions with counts.
type SubmissionListResponse struct {
	Items  []SubmissionResponse `json:"items"`
	Counts SubmissionCounts     `json:"counts"`
}
