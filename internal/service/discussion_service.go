package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

var (
	// ErrDiscussionNotFound indicates the discussion does not exist or is archived.
	ErrDiscussionNotFound = errors.New("discussion not found")
	// ErrAlreadyLiked indicates the user already liked the discussion.
	ErrAlreadyLiked = errors.New("discussion already liked")
	// ErrLikeNotFound indicates there is no like to remove.
	ErrLikeNotFound = errors.New("like not found")
)

// DiscussionService exposes discussion thread use cases.
type DiscussionService interface {
	ListByClass(ctx context.Context, classID uint) ([]dto.DiscussionResponse, error)
	Get(ctx context.Context, id uint) (dto.DiscussionResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error)
	AddReply(ctx context.Context, discussionID uint, actor Actor, payload dto.DiscussionReplyCreateRequest) (dto.DiscussionReplyResponse, error)
	Like(ctx context.Context, discussionID, userID uint) error
	Unlike(ctx context.Context, discussionID, userID uint) error
}

type discussionService struct {
	discussions repository.DiscussionRepository
	classes     repository.ClassRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewDiscussionService constructs the discussion service. User-authored text
// passes through a UGC sanitizer before it is stored.
func NewDiscussionService(discussions repository.DiscussionRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	return &discussionService{
		discussions: discussions,
		classes:     classes,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "discussion_service").Logger(),
	}
}

func (s *discussionService) ListByClass(ctx context.Context, classID uint) ([]dto.DiscussionResponse, error) {
	if _, err := s.classes.GetActiveByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	discussions, err := s.discussions.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewDiscussionResponseSlice(discussions), nil
}

func (s *discussionService) Get(ctx context.Context, id uint) (dto.DiscussionResponse, error) {
	discussion, err := s.discussions.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionResponse{}, ErrDiscussionNotFound
		}
		return dto.DiscussionResponse{}, err
	}

	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) Create(ctx context.Context, actor Actor, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionResponse{}, err
	}

	if _, err := s.classes.GetActiveByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionResponse{}, ErrClassNotFound
		}
		return dto.DiscussionResponse{}, err
	}

	discussion := models.Discussion{
		ClassID:     payload.ClassID,
		UserID:      actor.ID,
		Title:       s.sanitize(payload.Title),
		Description: s.sanitize(payload.Description),
	}

	if err := s.discussions.Create(ctx, &discussion); err != nil {
		return dto.DiscussionResponse{}, err
	}

	created, err := s.discussions.GetActiveByID(ctx, discussion.ID)
	if err != nil {
		return dto.DiscussionResponse{}, err
	}

	s.logger.Info().Uint("discussion_id", created.ID).Uint("class_id", created.ClassID).Msg("discussion created")

	return dto.NewDiscussionResponse(created), nil
}

// AddReply appends a reply to an active discussion. Archived threads are
// closed to new replies.
func (s *discussionService) AddReply(ctx context.Context, discussionID uint, actor Actor, payload dto.DiscussionReplyCreateRequest) (dto.DiscussionReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionReplyResponse{}, err
	}

	if _, err := s.discussions.GetActiveByID(ctx, discussionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionReplyResponse{}, ErrDiscussionNotFound
		}
		return dto.DiscussionReplyResponse{}, err
	}

	reply := models.DiscussionReply{
		DiscussionID: discussionID,
		UserID:       actor.ID,
		Body:         s.sanitize(payload.Body),
	}

	if err := s.discussions.CreateReply(ctx, &reply); err != nil {
		return dto.DiscussionReplyResponse{}, err
	}

	return dto.NewDiscussionReplyResponse(reply), nil
}

func (s *discussionService) Like(ctx context.Context, discussionID, userID uint) error {
	if _, err := s.discussions.GetActiveByID(ctx, discussionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiscussionNotFound
		}
		return err
	}

	liked, err := s.discussions.Liked(ctx, discussionID, userID)
	if err != nil {
		return err
	}
	if liked {
		return ErrAlreadyLiked
	}

	return s.discussions.Like(ctx, &models.DiscussionLike{
		DiscussionID: discussionID,
		UserID:       userID,
	})
}

func (s *discussionService) Unlike(ctx context.Context, discussionID, userID uint) error {
	if _, err := s.discussions.GetActiveByID(ctx, discussionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiscussionNotFound
		}
		return err
	}

	if err := s.discussions.Unlike(ctx, discussionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLikeNotFound
		}
		return err
	}

	return nil
}

func (s *discussionService) sanitize(raw string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(raw))
}
