package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
)

// ArchiveKind names a row type the archive cascade can touch.
type ArchiveKind string

const (
	ArchiveKindRole            ArchiveKind = "role"
	ArchiveKindUser            ArchiveKind = "user"
	ArchiveKindClass           ArchiveKind = "class"
	ArchiveKindAssignment      ArchiveKind = "assignment"
	ArchiveKindAttachment      ArchiveKind = "assignment_attachment"
	ArchiveKindSubmission      ArchiveKind = "submission"
	ArchiveKindSubmissionFile  ArchiveKind = "submission_file"
	ArchiveKindQuiz            ArchiveKind = "quiz"
	ArchiveKindQuizQuestion    ArchiveKind = "quiz_question"
	ArchiveKindQuizOption      ArchiveKind = "quiz_option"
	ArchiveKindQuizSubmission  ArchiveKind = "quiz_submission"
	ArchiveKindQuizAnswer      ArchiveKind = "quiz_answer"
	ArchiveKindDiscussion      ArchiveKind = "discussion"
	ArchiveKindDiscussionReply ArchiveKind = "discussion_reply"
)

// ArchiveStore is the row-flag mutation surface the cascade engine walks over.
// IDsByParent resolves child rows through the single foreign key each child
// kind has toward its parent in the cascade graph.
type ArchiveStore interface {
	Exists(ctx context.Context, kind ArchiveKind, id uint) (bool, error)
	SetArchived(ctx context.Context, kind ArchiveKind, ids []uint, archived bool) error
	IDsByParent(ctx context.Context, kind ArchiveKind, parentIDs []uint) ([]uint, error)
	InTx(ctx context.Context, fn func(store ArchiveStore) error) error
}

type archiveTable struct {
	model        interface{}
	parentColumn string
}

var archiveTables = map[ArchiveKind]archiveTable{
	ArchiveKindRole:            {model: &models.Role{}},
	ArchiveKindUser:            {model: &models.User{}},
	ArchiveKindClass:           {model: &models.Class{}},
	ArchiveKindAssignment:      {model: &models.Assignment{}},
	ArchiveKindAttachment:      {model: &models.AssignmentAttachment{}, parentColumn: "assignment_id"},
	ArchiveKindSubmission:      {model: &models.Submission{}, parentColumn: "assignment_id"},
	ArchiveKindSubmissionFile:  {model: &models.SubmissionFile{}, parentColumn: "submission_id"},
	ArchiveKindQuiz:            {model: &models.Quiz{}},
	ArchiveKindQuizQuestion:    {model: &models.QuizQuestion{}, parentColumn: "quiz_id"},
	ArchiveKindQuizOption:      {model: &models.QuizOption{}, parentColumn: "question_id"},
	ArchiveKindQuizSubmission:  {model: &models.QuizSubmission{}, parentColumn: "quiz_id"},
	ArchiveKindQuizAnswer:      {model: &models.QuizAnswer{}, parentColumn: "submission_id"},
	ArchiveKindDiscussion:      {model: &models.Discussion{}},
	ArchiveKindDiscussionReply: {model: &models.DiscussionReply{}, parentColumn: "discussion_id"},
}

type archiveStore struct {
	db *gorm.DB
}

// NewArchiveStore instantiates a GORM-backed archive store.
func NewArchiveStore(db *gorm.DB) ArchiveStore {
	return &archiveStore{db: db}
}

func (s *archiveStore) table(kind ArchiveKind) (archiveTable, error) {
	table, ok := archiveTables[kind]
	if !ok {
		return archiveTable{}, fmt.Errorf("unknown archive kind %q", kind)
	}
	return table, nil
}

func (s *archiveStore) Exists(ctx context.Context, kind ArchiveKind, id uint) (bool, error) {
	table, err := s.table(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(table.model).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *archiveStore) SetArchived(ctx context.Context, kind ArchiveKind, ids []uint, archived bool) error {
	if len(ids) == 0 {
		return nil
	}

	table, err := s.table(kind)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(table.model).
		Where("id IN ?", ids).
		Update("archived", archived).Error
}

func (s *archiveStore) IDsByParent(ctx context.Context, kind ArchiveKind, parentIDs []uint) ([]uint, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	table, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	if table.parentColumn == "" {
		return nil, fmt.Errorf("archive kind %q has no parent", kind)
	}

	var ids []uint
	if err := s.db.WithContext(ctx).
		Model(table.model).
		Where(table.parentColumn+" IN ?", parentIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *archiveStore) InTx(ctx context.Context, fn func(store ArchiveStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&archiveStore{db: tx})
	})
}
