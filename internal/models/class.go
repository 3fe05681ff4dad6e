package models

import "time"

// Class is a course space owned by a teacher that students join via code.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Section     string    `gorm:"size:100" json:"section"`
	Subject     string    `gorm:"size:150" json:"subject"`
	Room        string    `gorm:"size:50" json:"room"`
	Code        string    `gorm:"size:12;uniqueIndex;not null" json:"code"`
	TeacherID   uint      `gorm:"not null" json:"teacher_id"`
	Description string    `gorm:"type:text" json:"description"`
	Archived    bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Teacher     *User     `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// Enrollment links a student to a class. The (class, student) pair is unique;
// duplicate join attempts are rejected rather than silently ignored.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_class_student" json:"class_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_class_student" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
	Student   *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
