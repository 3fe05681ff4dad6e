package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

func setupActivityService(t *testing.T) ActivityService {
	t.Helper()

	db := newTestDB(t, "activity")
	return NewActivityService(repository.NewActivityLogRepository(db), testLogger())
}

func TestActivityServiceRecordAndList(t *testing.T) {
	svc := setupActivityService(t)

	entity := uint(7)
	_, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "admin",
		Action:     "Quiz.Archive",
		EntityType: "Quiz",
		EntityID:   &entity,
		Metadata:   map[string]interface{}{"rows": 4},
	})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), ActivityEntry{
		ActorID:    2,
		ActorRole:  "teacher",
		Action:     "submission.grade",
		EntityType: "submission",
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Pagination.TotalItems)

	filtered, err := svc.List(context.Background(), dto.ActivityListRequest{Action: "quiz.archive"})
	require.NoError(t, err)
	require.Equal(t, int64(1), filtered.Pagination.TotalItems)
	require.Len(t, filtered.Items, 1)
	require.Equal(t, "quiz", filtered.Items[0].EntityType)
}

func TestActivityServiceRecordRequiresAction(t *testing.T) {
	svc := setupActivityService(t)

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "quiz"})
	require.Error(t, err)
}
