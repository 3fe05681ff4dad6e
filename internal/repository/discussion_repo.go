package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// DiscussionRepository defines persistence operations for discussion threads.
type DiscussionRepository interface {
	ListActiveByClass(ctx context.Context, classID uint) ([]models.Discussion, error)
	GetActiveByID(ctx context.Context, id uint) (models.Discussion, error)
	Create(ctx context.Context, discussion *models.Discussion) error
	CreateReply(ctx context.Context, reply *models.DiscussionReply) error
	Like(ctx context.Context, like *models.DiscussionLike) error
	Unlike(ctx context.Context, discussionID, userID uint) error
	Liked(ctx context.Context, discussionID, userID uint) (bool, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository instantiates a GORM-backed discussion repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Discussion{}).
		Preload("Author").
		Preload("Replies", "archived = ?", false).
		Preload("Replies.Author").
		Preload("Likes")
}

func (r *discussionRepository) ListActiveByClass(ctx context.Context, classID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	if err := r.baseQuery(ctx).
		Where("class_id = ?", classID).
		Where("archived = ?", false).
		Order("created_at DESC").
		Find(&discussions).Error; err != nil {
		return nil, err
	}

	return discussions, nil
}

func (r *discussionRepository) GetActiveByID(ctx context.Context, id uint) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.baseQuery(ctx).
		Where("id = ?", id).
		Where("archived = ?", false).
		First(&discussion).Error; err != nil {
		return models.Discussion{}, err
	}

	return discussion, nil
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *models.DiscussionReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *discussionRepository) Like(ctx context.Context, like *models.DiscussionLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *discussionRepository) Unlike(ctx context.Context, discussionID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("discussion_id = ?", discussionID).
		Where("user_id = ?", userID).
		Delete(&models.DiscussionLike{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *discussionRepository) Liked(ctx context.Context, discussionID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DiscussionLike{}).
		Where("discussion_id = ?", discussionID).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
