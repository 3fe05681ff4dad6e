package models

import "time"

// Quiz is an auto-scored multiple-choice test attached to a class.
type Quiz struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ClassID     uint             `gorm:"not null" json:"class_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	TotalPoints int              `gorm:"not null" json:"total_points"`
	// TimeLimit is stored in minutes. It is informational only and is not
	// checked against submission timestamps.
	TimeLimit   *int             `json:"time_limit"`
	DueDate     *time.Time       `json:"due_date"`
	CreatedBy   uint             `gorm:"not null" json:"created_by"`
	Archived    bool             `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Questions   []QuizQuestion   `json:"questions,omitempty"`
	Submissions []QuizSubmission `json:"submissions,omitempty"`
}

// QuizQuestion is a single question worth a fixed number of points.
type QuizQuestion struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	QuizID   uint         `gorm:"not null" json:"quiz_id"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Points   int          `gorm:"not null" json:"points"`
	Type     string       `gorm:"size:32;not null" json:"type"`
	Archived bool         `gorm:"not null;default:false" json:"archived"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// QuestionTypeMultipleChoice is the only question type currently supported.
const QuestionTypeMultipleChoice = "multiple_choice"

// QuizOption is one selectable answer for a question.
type QuizOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null" json:"question_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Correct    bool   `gorm:"not null;default:false" json:"is_correct"`
	Archived   bool   `gorm:"not null;default:false" json:"archived"`
}

// QuizSubmission records one student's attempt with its computed score.
type QuizSubmission struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	QuizID    uint         `gorm:"not null" json:"quiz_id"`
	StudentID uint         `gorm:"not null" json:"student_id"`
	Score     int          `gorm:"not null;default:0" json:"score"`
	Archived  bool         `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time    `json:"created_at"`
	Answers   []QuizAnswer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	Student   *User        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// QuizAnswer stores the option a student picked for one question. Correct is
// resolved from the option at submit time and never recomputed, so later edits
// to the option do not change past attempts.
type QuizAnswer struct {
	ID               uint  `gorm:"primaryKey" json:"id"`
	SubmissionID     uint  `gorm:"not null" json:"submission_id"`
	QuestionID       uint  `gorm:"not null" json:"question_id"`
	SelectedOptionID *uint `json:"selected_option_id"`
	Correct          bool  `gorm:"not null;default:false" json:"is_correct"`
	Archived         bool  `gorm:"not null;default:false" json:"archived"`
}
