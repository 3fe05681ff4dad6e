package models

import "time"

// Assignment is classwork that students complete by uploading files.
type Assignment struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	ClassID      uint                   `gorm:"not null" json:"class_id"`
	Title        string                 `gorm:"size:255;not null" json:"title"`
	Instructions string                 `gorm:"type:text" json:"instructions"`
	MaxPoints    int                    `gorm:"not null" json:"max_points"`
	DueDate      *time.Time             `json:"due_date"`
	Topic        string                 `gorm:"size:255" json:"topic"`
	CreatedBy    uint                   `gorm:"not null" json:"created_by"`
	Archived     bool                   `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Attachments  []AssignmentAttachment `json:"attachments,omitempty"`
	Submissions  []Submission           `json:"submissions,omitempty"`
}

// AssignmentAttachment is a file the teacher published alongside an assignment.
type AssignmentAttachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null" json:"assignment_id"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	FileType     string    `gorm:"size:32" json:"file_type"`
	Archived     bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submission is one student's response to an assignment.
type Submission struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	AssignmentID uint             `gorm:"not null" json:"assignment_id"`
	StudentID    uint             `gorm:"not null" json:"student_id"`
	Status       string           `gorm:"size:32;not null" json:"status"`
	Grade        *int             `json:"grade"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
	Archived     bool             `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Files        []SubmissionFile `json:"files,omitempty"`
	Student      *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

const (
	// SubmissionStatusSubmitted indicates the work has been handed in but not graded.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the teacher has recorded a grade.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether a grade has been recorded for the submission.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}

// SubmissionFile is one uploaded file belonging to a submission.
type SubmissionFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null" json:"submission_id"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	FileType     string    `gorm:"size:32" json:"file_type"`
	Archived     bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
}
