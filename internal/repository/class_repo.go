package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// ClassRepository defines persistence operations for classes and enrollment.
type ClassRepository interface {
	ListActive(ctx context.Context) ([]models.Class, error)
	ListActiveByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error)
	ListActiveByStudent(ctx context.Context, studentID uint) ([]models.Class, error)
	GetByID(ctx context.Context, id uint) (models.Class, error)
	GetActiveByID(ctx context.Context, id uint) (models.Class, error)
	GetActiveByCode(ctx context.Context, code string) (models.Class, error)
	CodeExists(ctx context.Context, code string, excludeID uint) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	Enrolled(ctx context.Context, classID, studentID uint) (bool, error)
	Roster(ctx context.Context, classID uint) ([]models.User, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Class{}).Preload("Teacher").Preload("Teacher.Role")
}

func (r *classRepository) ListActive(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.baseQuery(ctx).
		Where("archived = ?", false).
		Order("id ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) ListActiveByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	if err := r.baseQuery(ctx).
		Where("archived = ?", false).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) ListActiveByStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	var classes []models.Class
	if err := r.baseQuery(ctx).
		Joins("JOIN enrollments ON enrollments.class_id = classes.id").
		Where("enrollments.student_id = ?", studentID).
		Where("classes.archived = ?", false).
		Order("classes.id ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.baseQuery(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) GetActiveByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.baseQuery(ctx).
		Where("id = ?", id).
		Where("archived = ?", false).
		First(&class).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) GetActiveByCode(ctx context.Context, code string) (models.Class, error) {
	var class models.Class
	if err := r.baseQuery(ctx).
		Where("code = ?", code).
		Where("archived = ?", false).
		First(&class).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

// CodeExists checks the code against every row, archived included. Codes are
// never reused even after a class is archived.
func (r *classRepository) CodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{}).Where("code = ?", code)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *classRepository) Enrolled(ctx context.Context, classID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("class_id = ?", classID).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classRepository) Roster(ctx context.Context, classID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.class_id = ?", classID).
		Order("users.id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}
