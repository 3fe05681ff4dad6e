package models

import "time"

// Discussion is a class-scoped thread started by a teacher or student.
type Discussion struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ClassID     uint              `gorm:"not null" json:"class_id"`
	UserID      uint              `gorm:"not null" json:"user_id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Archived    bool              `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Author      *User             `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Replies     []DiscussionReply `json:"replies,omitempty"`
	Likes       []DiscussionLike  `json:"likes,omitempty"`
}

// DiscussionReply is one message posted under a discussion.
type DiscussionReply struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null" json:"discussion_id"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	Archived     bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	Author       *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// DiscussionLike marks that a user liked a discussion. One like per user.
type DiscussionLike struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;uniqueIndex:idx_discussion_user" json:"discussion_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_discussion_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
