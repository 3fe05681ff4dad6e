package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// QuizRepository defines persistence operations for quizzes and attempts.
type QuizRepository interface {
	ListActiveByClass(ctx context.Context, classID uint) ([]models.Quiz, error)
	GetActiveByID(ctx context.Context, id uint) (models.Quiz, error)
	GetActiveWithQuestions(ctx context.Context, id uint) (models.Quiz, error)
	GetActiveWithSubmissions(ctx context.Context, id uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error
	GetSubmission(ctx context.Context, id uint) (models.QuizSubmission, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates a GORM-backed quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) ListActiveByClass(ctx context.Context, classID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Submissions", "archived = ?", false).
		Where("class_id = ?", classID).
		Where("archived = ?", false).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) GetActiveByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("archived = ?", false).
		First(&quiz).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) GetActiveWithQuestions(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", "archived = ?", false).
		Preload("Questions.Options", "archived = ?", false).
		Where("id = ?", id).
		Where("archived = ?", false).
		First(&quiz).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) GetActiveWithSubmissions(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Where("archived = ?", false).Order("created_at DESC")
		}).
		Preload("Submissions.Student").
		Where("id = ?", id).
		Where("archived = ?", false).
		First(&quiz).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Save(quiz).Error
}

func (r *quizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *quizRepository) CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *quizRepository) GetSubmission(ctx context.Context, id uint) (models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Preload("Answers").
		Preload("Student").
		First(&submission, id).Error; err != nil {
		return models.QuizSubmission{}, err
	}

	return submission, nil
}
