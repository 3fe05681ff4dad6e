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

// RoleHandler wires role HTTP routes.
type RoleHandler struct {
	service service.RoleService
	archive service.ArchiveService
	logger  zerolog.Logger
}

// NewRoleHandler constructs the handler.
func NewRoleHandler(service service.RoleService, archive service.ArchiveService, logger zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		archive: archive,
		logger:  logger.With().Str("component", "role_handler").Logger(),
	}
}

// Register attaches role endpoints to the router group.
func (h *RoleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.archiveRole)
	router.Post("/:id/restore", h.restore)
}

func (h *RoleHandler) list(c *fiber.Ctx) error {
	roles, err := h.service.List(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "roles retrieved", roles)
}

func (h *RoleHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	role, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "role retrieved", role)
}

func (h *RoleHandler) create(c *fiber.Ctx) error {
	var payload dto.RoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "role created", role)
}

func (h *RoleHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.RoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "role updated", role)
}

func (h *RoleHandler) archiveRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Archive(c.Context(), repository.ArchiveKindRole, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "role archived", fiber.Map{"id": id})
}

func (h *RoleHandler) restore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Restore(c.Context(), repository.ArchiveKindRole, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "role restored", fiber.Map{"id": id})
}

func (h *RoleHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "role not found")
	case errors.Is(err, service.ErrRoleNameTaken):
		return utils.SendError(c, fiber.StatusConflict, "role name already taken")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *RoleHandler) handleArchiveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrArchiveTargetNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "role not found")
	case errors.Is(err, service.ErrUnknownArchiveKind):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *RoleHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
