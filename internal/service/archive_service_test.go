package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

func setupArchiveService(t *testing.T) (*gorm.DB, ArchiveService, *stubActivityRecorder) {
	t.Helper()

	db := newTestDB(t, "archive")
	activity := &stubActivityRecorder{}
	svc := NewArchiveService(repository.NewArchiveStore(db), activity, testLogger())

	return db, svc, activity
}

func seedAssignmentTree(t *testing.T, db *gorm.DB) models.Assignment {
	t.Helper()

	teacher := seedUser(t, db, "Tess", "Teach", "tess@example.com")
	class := seedClass(t, db, "Algebra", "ALG12345", teacher.ID)
	student := seedUser(t, db, "Sam", "Stud", "sam@example.com")

	assignment := models.Assignment{
		ClassID:   class.ID,
		Title:     "Homework 1",
		MaxPoints: 100,
		CreatedBy: teacher.ID,
		Attachments: []models.AssignmentAttachment{
			{FilePath: "https://cdn.example.com/task.pdf", FileType: "application/pdf"},
		},
		Submissions: []models.Submission{
			{
				StudentID: student.ID,
				Status:    models.SubmissionStatusSubmitted,
				Files: []models.SubmissionFile{
					{FilePath: "https://cdn.example.com/answer.pdf", FileType: "application/pdf"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestArchiveServiceCascadesAssignmentTree(t *testing.T) {
	db, svc, activity := setupArchiveService(t)
	assignment := seedAssignmentTree(t, db)

	actor := Actor{ID: 1, Role: "admin"}
	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindAssignment, assignment.ID, actor))

	var stored models.Assignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.True(t, stored.Archived)

	var attachment models.AssignmentAttachment
	require.NoError(t, db.First(&attachment).Error)
	require.True(t, attachment.Archived)

	var submission models.Submission
	require.NoError(t, db.First(&submission).Error)
	require.True(t, submission.Archived)

	var file models.SubmissionFile
	require.NoError(t, db.First(&file).Error)
	require.True(t, file.Archived)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "assignment.archive", activity.entries[0].Action)
}

func TestArchiveServiceRestoreIsExactInverse(t *testing.T) {
	db, svc, _ := setupArchiveService(t)
	assignment := seedAssignmentTree(t, db)

	actor := Actor{ID: 1, Role: "admin"}
	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindAssignment, assignment.ID, actor))
	require.NoError(t, svc.Restore(context.Background(), repository.ArchiveKindAssignment, assignment.ID, actor))

	var archivedCount int64
	for _, model := range []interface{}{
		&models.Assignment{}, &models.AssignmentAttachment{}, &models.Submission{}, &models.SubmissionFile{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("archived = ?", true).Count(&count).Error)
		archivedCount += count
	}
	require.Zero(t, archivedCount)
}

func TestArchiveServiceQuizCascadeReachesOptionsAndAnswers(t *testing.T) {
	db, svc, _ := setupArchiveService(t)

	teacher := seedUser(t, db, "Tess", "Teach", "tess@example.com")
	class := seedClass(t, db, "Algebra", "ALG12345", teacher.ID)
	student := seedUser(t, db, "Sam", "Stud", "sam@example.com")

	quiz := models.Quiz{
		ClassID:     class.ID,
		Title:       "Quiz 1",
		TotalPoints: 10,
		CreatedBy:   teacher.ID,
		Questions: []models.QuizQuestion{
			{
				Text:   "2+2?",
				Points: 10,
				Type:   models.QuestionTypeMultipleChoice,
				Options: []models.QuizOption{
					{Text: "4", Correct: true},
					{Text: "5"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&quiz).Error)

	submission := models.QuizSubmission{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Score:     10,
		Answers: []models.QuizAnswer{
			{QuestionID: quiz.Questions[0].ID, Correct: true},
		},
	}
	require.NoError(t, db.Create(&submission).Error)

	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindQuiz, quiz.ID, Actor{ID: 1, Role: "admin"}))

	for _, model := range []interface{}{
		&models.Quiz{}, &models.QuizQuestion{}, &models.QuizOption{}, &models.QuizSubmission{}, &models.QuizAnswer{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("archived = ?", false).Count(&count).Error)
		require.Zero(t, count)
	}
}

func TestArchiveServiceDiscussionCascadeArchivesReplies(t *testing.T) {
	db, svc, _ := setupArchiveService(t)

	teacher := seedUser(t, db, "Tess", "Teach", "tess@example.com")
	class := seedClass(t, db, "Algebra", "ALG12345", teacher.ID)
	student := seedUser(t, db, "Sam", "Stud", "sam@example.com")

	discussion := models.Discussion{
		ClassID: class.ID,
		UserID:  teacher.ID,
		Title:   "Exam prep",
		Replies: []models.DiscussionReply{
			{UserID: student.ID, Body: "When is the exam?"},
			{UserID: teacher.ID, Body: "Next Friday."},
		},
	}
	require.NoError(t, db.Create(&discussion).Error)

	actor := Actor{ID: 1, Role: "admin"}
	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindDiscussion, discussion.ID, actor))

	var activeReplies int64
	require.NoError(t, db.Model(&models.DiscussionReply{}).Where("archived = ?", false).Count(&activeReplies).Error)
	require.Zero(t, activeReplies)

	var stored models.Discussion
	require.NoError(t, db.First(&stored, discussion.ID).Error)
	require.True(t, stored.Archived)

	require.NoError(t, svc.Restore(context.Background(), repository.ArchiveKindDiscussion, discussion.ID, actor))

	var archivedRows int64
	for _, model := range []interface{}{&models.Discussion{}, &models.DiscussionReply{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("archived = ?", true).Count(&count).Error)
		archivedRows += count
	}
	require.Zero(t, archivedRows)
}

func TestArchiveServiceClassDoesNotCascade(t *testing.T) {
	db, svc, _ := setupArchiveService(t)

	teacher := seedUser(t, db, "Tess", "Teach", "tess@example.com")
	class := seedClass(t, db, "Algebra", "ALG12345", teacher.ID)
	assignment := models.Assignment{ClassID: class.ID, Title: "Homework", MaxPoints: 50, CreatedBy: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindClass, class.ID, Actor{ID: 1, Role: "admin"}))

	var storedClass models.Class
	require.NoError(t, db.First(&storedClass, class.ID).Error)
	require.True(t, storedClass.Archived)

	var storedAssignment models.Assignment
	require.NoError(t, db.First(&storedAssignment, assignment.ID).Error)
	require.False(t, storedAssignment.Archived)
}

func TestArchiveServiceIsIdempotent(t *testing.T) {
	db, svc, _ := setupArchiveService(t)
	assignment := seedAssignmentTree(t, db)

	actor := Actor{ID: 1, Role: "admin"}
	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindAssignment, assignment.ID, actor))
	require.NoError(t, svc.Archive(context.Background(), repository.ArchiveKindAssignment, assignment.ID, actor))

	var stored models.Assignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.True(t, stored.Archived)
}

func TestArchiveServiceMissingRoot(t *testing.T) {
	_, svc, _ := setupArchiveService(t)

	err := svc.Archive(context.Background(), repository.ArchiveKindQuiz, 9999, Actor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrArchiveTargetNotFound)
}

func TestArchiveServiceRejectsNonRootKind(t *testing.T) {
	_, svc, _ := setupArchiveService(t)

	err := svc.Archive(context.Background(), repository.ArchiveKindQuizOption, 1, Actor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrUnknownArchiveKind)
}
