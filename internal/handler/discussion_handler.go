package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/repository"
	"github.com/noah-isme/classroom-go-api/internal/service"
	"github.com/noah-isme/classroom-go-api/internal/utils"
)

// DiscussionHandler wires discussion HTTP routes.
type DiscussionHandler struct {
	service service.DiscussionService
	archive service.ArchiveService
	logger  zerolog.Logger
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(service service.DiscussionService, archive service.ArchiveService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		archive: archive,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register attaches discussion endpoints to the router group.
func (h *DiscussionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Post("/:id/replies", h.reply)
	router.Post("/:id/likes", h.like)
	router.Delete("/:id/likes", h.unlike)
}

// RegisterManage attaches the moderation endpoints.
func (h *DiscussionHandler) RegisterManage(router fiber.Router) {
	router.Delete("/:id", h.archiveDiscussion)
	router.Post("/:id/restore", h.restore)
}

func (h *DiscussionHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil || classID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id query parameter is required")
	}

	discussions, err := h.service.ListByClass(c.Context(), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "discussions retrieved", discussions)
}

func (h *DiscussionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	discussion, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "discussion retrieved", discussion)
}

func (h *DiscussionHandler) create(c *fiber.Ctx) error {
	var payload dto.DiscussionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	discussion, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discussion created", discussion)
}

func (h *DiscussionHandler) reply(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.DiscussionReplyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	reply, err := h.service.AddReply(c.Context(), id, actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply posted", reply)
}

func (h *DiscussionHandler) like(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Like(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discussion liked", fiber.Map{"id": id})
}

func (h *DiscussionHandler) unlike(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Unlike(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "like removed", fiber.Map{"id": id})
}

func (h *DiscussionHandler) archiveDiscussion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Archive(c.Context(), repository.ArchiveKindDiscussion, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "discussion archived", fiber.Map{"id": id})
}

func (h *DiscussionHandler) restore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Restore(c.Context(), repository.ArchiveKindDiscussion, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "discussion restored", fiber.Map{"id": id})
}

func (h *DiscussionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrDiscussionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "discussion not found")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrAlreadyLiked):
		return utils.SendError(c, fiber.StatusConflict, "discussion already liked")
	case errors.Is(err, service.ErrLikeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "like not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *DiscussionHandler) handleArchiveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrArchiveTargetNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "discussion not found")
	case errors.Is(err, service.ErrUnknownArchiveKind):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *DiscussionHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
