package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/classroom-go-api/internal/observability"
	"github.com/noah-isme/classroom-go-api/internal/repository"
)

// ErrArchiveTargetNotFound indicates the root entity does not exist.
var ErrArchiveTargetNotFound = errors.New("archive target not found")

// ErrUnknownArchiveKind indicates the kind is not a valid archive root.
var ErrUnknownArchiveKind = errors.New("unknown archive kind")

// cascadeChildren is the fixed cascade graph, root kind to child kinds. A
// missing entry means the kind archives alone. Class intentionally has no
// children: archiving a class does not touch its assignments, quizzes or
// discussions, matching the upstream behavior consumers depend on.
var cascadeChildren = map[repository.ArchiveKind][]repository.ArchiveKind{
	repository.ArchiveKindAssignment:     {repository.ArchiveKindAttachment, repository.ArchiveKindSubmission},
	repository.ArchiveKindSubmission:     {repository.ArchiveKindSubmissionFile},
	repository.ArchiveKindQuiz:           {repository.ArchiveKindQuizQuestion, repository.ArchiveKindQuizSubmission},
	repository.ArchiveKindQuizQuestion:   {repository.ArchiveKindQuizOption},
	repository.ArchiveKindQuizSubmission: {repository.ArchiveKindQuizAnswer},
	repository.ArchiveKindDiscussion:     {repository.ArchiveKindDiscussionReply},
}

// rootKinds are the kinds callers may archive or restore directly.
var rootKinds = map[repository.ArchiveKind]struct{}{
	repository.ArchiveKindRole:       {},
	repository.ArchiveKindUser:       {},
	repository.ArchiveKindClass:      {},
	repository.ArchiveKindAssignment: {},
	repository.ArchiveKindQuiz:       {},
	repository.ArchiveKindDiscussion: {},
}

// ArchiveService flips the archived flag on an entity and every dependent row
// reachable through the cascade graph, parent rows first. Rows are never
// physically deleted; restore is the exact flag inverse.
type ArchiveService interface {
	Archive(ctx context.Context, kind repository.ArchiveKind, id uint, actor Actor) error
	Restore(ctx context.Context, kind repository.ArchiveKind, id uint, actor Actor) error
}

type archiveService struct {
	store    repository.ArchiveStore
	activity ActivityRecorder
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewArchiveService constructs the cascade engine.
func NewArchiveService(store repository.ArchiveStore, activity ActivityRecorder, logger zerolog.Logger) ArchiveService {
	return &archiveService{
		store:    store,
		activity: activity,
		logger:   logger.With().Str("component", "archive_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/classroom-go-api/internal/service/archive"),
	}
}

func (s *archiveService) Archive(ctx context.Context, kind repository.ArchiveKind, id uint, actor Actor) error {
	return s.apply(ctx, kind, id, actor, true)
}

func (s *archiveService) Restore(ctx context.Context, kind repository.ArchiveKind, id uint, actor Actor) error {
	return s.apply(ctx, kind, id, actor, false)
}

func (s *archiveService) apply(ctx context.Context, kind repository.ArchiveKind, id uint, actor Actor, archived bool) error {
	if _, ok := rootKinds[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArchiveKind, kind)
	}

	action := "restore"
	if archived {
		action = "archive"
	}

	ctx, span := s.tracer.Start(ctx, "archive.cascade", trace.WithAttributes(
		attribute.String("archive.kind", string(kind)),
		attribute.Int64("archive.root_id", int64(id)),
		attribute.Bool("archive.flag", archived),
	))
	defer span.End()

	exists, err := s.store.Exists(ctx, kind, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !exists {
		return ErrArchiveTargetNotFound
	}

	var touched int
	err = s.store.InTx(ctx, func(store repository.ArchiveStore) error {
		// Breadth-first walk: each level is flagged before its children so a
		// reader never sees an active child under an archived parent beyond
		// the duration of the transaction.
		type level struct {
			kind repository.ArchiveKind
			ids  []uint
		}

		queue := []level{{kind: kind, ids: []uint{id}}}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if len(current.ids) == 0 {
				continue
			}

			if err := store.SetArchived(ctx, current.kind, current.ids, archived); err != nil {
				return err
			}
			touched += len(current.ids)

			for _, childKind := range cascadeChildren[current.kind] {
				childIDs, err := store.IDsByParent(ctx, childKind, current.ids)
				if err != nil {
					return err
				}
				queue = append(queue, level{kind: childKind, ids: childIDs})
			}
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	observability.CascadeRows().WithLabelValues(string(kind), action).Add(float64(touched))

	s.logger.Info().
		Str("kind", string(kind)).
		Uint("id", id).
		Bool("archived", archived).
		Int("rows", touched).
		Msg("archive cascade applied")

	if s.activity != nil {
		entityID := id
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     string(kind) + "." + action,
			EntityType: string(kind),
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"rows": touched},
		})
	}

	return nil
}
