package dto

import (
	"time"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// DiscussionCreateRequest describes the payload for starting a discussion.
type DiscussionCreateRequest struct {
	ClassID     uint   `json:"class_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

// DiscussionReplyCreateRequest describes the payload for posting a reply.
type DiscussionReplyCreateRequest struct {
	Body string `json:"body" validate:"required"`
}

// DiscussionReplyResponse is a serialized reply.
type DiscussionReplyResponse struct {
	ID           uint      `json:"id"`
	DiscussionID uint      `json:"discussion_id"`
	UserID       uint      `json:"user_id"`
	AuthorName   string    `json:"author_name,omitempty"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDiscussionReplyResponse converts a model into a DTO.
func NewDiscussionReplyResponse(model models.DiscussionReply) DiscussionReplyResponse {
	response := DiscussionReplyResponse{
		ID:           model.ID,
		DiscussionID: model.DiscussionID,
		UserID:       model.UserID,
		Body:         model.Body,
		CreatedAt:    model.CreatedAt,
	}

	if model.Author != nil {
		response.AuthorName = model.Author.FullName()
	}

	return response
}

// DiscussionResponse is the serialized representation of a discussion thread.
type DiscussionResponse struct {
	ID          uint                      `json:"id"`
	ClassID     uint                      `json:"class_id"`
	UserID      uint                      `json:"user_id"`
	AuthorName  string                    `json:"author_name,omitempty"`
	Title       string                    `json:"title"`
	Description string                    `json:"description,omitempty"`
	Archived    bool                      `json:"archived"`
	LikeCount   int                       `json:"like_count"`
	Replies     []DiscussionReplyResponse `json:"replies"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// NewDiscussionResponse converts a model into a DTO.
func NewDiscussionResponse(model models.Discussion) DiscussionResponse {
	replies := make([]DiscussionReplyResponse, 0, len(model.Replies))
	for _, reply := range model.Replies {
		replies = append(replies, NewDiscussionReplyResponse(reply))
	}

	response := DiscussionResponse{
		ID:          model.ID,
		ClassID:     model.ClassID,
		UserID:      model.UserID,
		Title:       model.Title,
		Description: model.Description,
		Archived:    model.Archived,
		LikeCount:   len(model.Likes),
		Replies:     replies,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Author != nil {
		response.AuthorName = model.Author.FullName()
	}

	return response
}

// NewDiscussionResponseSlice converts a slice of models into DTOs.
func NewDiscussionResponseSlice(discussions []models.Discussion) []DiscussionResponse {
	responses := make([]DiscussionResponse, 0, len(discussions))
	for _, discussion := range discussions {
		responses = append(responses, NewDiscussionResponse(discussion))
	}

	return responses
}
