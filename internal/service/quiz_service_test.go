package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

type quizFixture struct {
	db      *gorm.DB
	svc     QuizService
	class   models.Class
	student models.User
	teacher models.User
}

func setupQuizService(t *testing.T) quizFixture {
	t.Helper()

	db := newTestDB(t, "quiz")
	teacher := seedUser(t, db, "Tess", "Teach", "tess@example.com")
	class := seedClass(t, db, "Algebra", "ALG12345", teacher.ID)
	student := seedUser(t, db, "Sam", "Stud", "sam@example.com")
	seedEnrollment(t, db, class.ID, student.ID)

	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewClassRepository(db),
		&stubActivityRecorder{},
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)

	return quizFixture{db: db, svc: svc, class: class, student: student, teacher: teacher}
}

func createQuizWithQuestions(t *testing.T, fx quizFixture, points ...int) (dto.QuizResponse, []dto.QuizQuestionResponse) {
	t.Helper()

	total := 0
	for _, p := range points {
		total += p
	}

	quiz, err := fx.svc.Create(context.Background(), Actor{ID: fx.teacher.ID, Role: "teacher"}, dto.QuizCreateRequest{
		ClassID:     fx.class.ID,
		Title:       "Checkpoint",
		TotalPoints: total,
	})
	require.NoError(t, err)

	questions := make([]dto.QuizQuestionResponse, 0, len(points))
	for _, p := range points {
		question, err := fx.svc.AddQuestion(context.Background(), quiz.ID, dto.QuizQuestionCreateRequest{
			Text:   "pick the first option",
			Points: p,
			Options: []dto.QuizOptionInput{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			},
		})
		require.NoError(t, err)
		require.Len(t, question.Options, 2)
		questions = append(questions, question)
	}

	return quiz, questions
}

func TestQuizServiceSubmitScoresCorrectAnswers(t *testing.T) {
	fx := setupQuizService(t)
	_, questions := createQuizWithQuestions(t, fx, 40, 60)

	rightA := questions[0].Options[0].ID
	wrongB := questions[1].Options[1].ID

	submission, err := fx.svc.Submit(context.Background(), questions[0].QuizID, fx.student.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{
			{QuestionID: questions[0].ID, SelectedOptionID: &rightA},
			{QuestionID: questions[1].ID, SelectedOptionID: &wrongB},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 40, submission.Score)
	require.Len(t, submission.Answers, 2)
	require.True(t, submission.Answers[0].Correct)
	require.False(t, submission.Answers[1].Correct)
}

func TestQuizServiceSubmitUnknownOptionIsLenient(t *testing.T) {
	fx := setupQuizService(t)
	_, questions := createQuizWithQuestions(t, fx, 50)

	bogus := uint(987654)
	submission, err := fx.svc.Submit(context.Background(), questions[0].QuizID, fx.student.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{
			{QuestionID: questions[0].ID, SelectedOptionID: &bogus},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 0, submission.Score)
	require.False(t, submission.Answers[0].Correct)
}

func TestQuizServiceSubmitMissingOptionIsWrongNotFatal(t *testing.T) {
	fx := setupQuizService(t)
	_, questions := createQuizWithQuestions(t, fx, 25)

	submission, err := fx.svc.Submit(context.Background(), questions[0].QuizID, fx.student.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{
			{QuestionID: questions[0].ID},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 0, submission.Score)
}

func TestQuizServiceSubmitRejectsForeignQuestion(t *testing.T) {
	fx := setupQuizService(t)
	quizA, _ := createQuizWithQuestions(t, fx, 10)
	_, questionsB := createQuizWithQuestions(t, fx, 10)

	_, err := fx.svc.Submit(context.Background(), quizA.ID, fx.student.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{
			{QuestionID: questionsB[0].ID},
		},
	})
	require.ErrorIs(t, err, ErrQuestionNotInQuiz)
}

func TestQuizServiceSubmitRequiresEnrollment(t *testing.T) {
	fx := setupQuizService(t)
	_, questions := createQuizWithQuestions(t, fx, 10)

	outsider := seedUser(t, fx.db, "Out", "Sider", "out@example.com")
	_, err := fx.svc.Submit(context.Background(), questions[0].QuizID, outsider.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{{QuestionID: questions[0].ID}},
	})
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestQuizServiceSubmitFreezesCorrectness(t *testing.T) {
	fx := setupQuizService(t)
	_, questions := createQuizWithQuestions(t, fx, 30)

	right := questions[0].Options[0].ID
	submission, err := fx.svc.Submit(context.Background(), questions[0].QuizID, fx.student.ID, dto.QuizSubmitRequest{
		Answers: []dto.QuizAnswerInput{
			{QuestionID: questions[0].ID, SelectedOptionID: &right},
		},
	})
	require.NoError(t, err)

	// Flipping the option after the fact must not rewrite the stored answer.
	require.NoError(t, fx.db.Model(&models.QuizOption{}).Where("id = ?", right).Update("correct", false).Error)

	var stored models.QuizAnswer
	require.NoError(t, fx.db.Where("submission_id = ?", submission.ID).First(&stored).Error)
	require.True(t, stored.Correct)
}

func TestQuizServiceResultsAggregates(t *testing.T) {
	fx := setupQuizService(t)

	quiz := models.Quiz{ClassID: fx.class.ID, Title: "Final", TotalPoints: 100, CreatedBy: fx.teacher.ID}
	require.NoError(t, fx.db.Create(&quiz).Error)

	scores := []int{40, 60, 80}
	for i, score := range scores {
		student := seedUser(t, fx.db, "Student", string(rune('A'+i)), string(rune('a'+i))+"@example.com")
		require.NoError(t, fx.db.Create(&models.QuizSubmission{
			QuizID:    quiz.ID,
			StudentID: student.ID,
			Score:     score,
		}).Error)
	}

	results, err := fx.svc.Results(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 3, results.Quiz.Completed)
	require.Equal(t, 60.0, results.Quiz.AverageScore)
	require.Equal(t, 60, results.Quiz.AveragePercent)
	// Two of three meet the 50-point threshold.
	require.Equal(t, 67, results.Quiz.PassRate)
	require.Len(t, results.Results, 3)
	for _, row := range results.Results {
		require.Equal(t, "completed", row.Status)
	}
}

func TestQuizServiceResultsEmptyQuiz(t *testing.T) {
	fx := setupQuizService(t)

	quiz := models.Quiz{ClassID: fx.class.ID, Title: "Empty", TotalPoints: 100, CreatedBy: fx.teacher.ID}
	require.NoError(t, fx.db.Create(&quiz).Error)

	results, err := fx.svc.Results(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Zero(t, results.Quiz.Completed)
	require.Zero(t, results.Quiz.AverageScore)
	require.Zero(t, results.Quiz.PassRate)
	require.Empty(t, results.Results)
}

func TestQuizServiceResultsZeroTotalPoints(t *testing.T) {
	fx := setupQuizService(t)

	quiz := models.Quiz{ClassID: fx.class.ID, Title: "Survey", TotalPoints: 0, CreatedBy: fx.teacher.ID}
	require.NoError(t, fx.db.Create(&quiz).Error)
	require.NoError(t, fx.db.Create(&models.QuizSubmission{QuizID: quiz.ID, StudentID: fx.student.ID, Score: 0}).Error)

	results, err := fx.svc.Results(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, results.Quiz.Completed)
	require.Zero(t, results.Quiz.AveragePercent)
	require.Zero(t, results.Quiz.PassRate)
}

func TestQuizServiceGetMissing(t *testing.T) {
	fx := setupQuizService(t)

	_, err := fx.svc.Get(context.Background(), 424242)
	require.ErrorIs(t, err, ErrQuizNotFound)
}
