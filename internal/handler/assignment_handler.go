package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-go-api/internal/dto"
	"github.com/noah-isme/classroom-go-api/internal/repository"
	"github.com/noah-isme/classroom-go-api/internal/service"
	"github.com/noah-isme/classroom-go-api/internal/utils"
)

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	archive service.ArchiveService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, archive service.ArchiveService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		archive: archive,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches the read endpoints to the router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/submissions", h.submissions)
}

// RegisterManage attaches the teacher facing endpoints.
func (h *AssignmentHandler) RegisterManage(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.archiveAssignment)
	router.Post("/:id/restore", h.restore)
}

// RegisterSubmit attaches the student submission endpoint.
func (h *AssignmentHandler) RegisterSubmit(router fiber.Router) {
	router.Post("/:id/submissions", h.submit)
}

// RegisterGrading attaches the grading endpoint to the submissions group.
func (h *AssignmentHandler) RegisterGrading(router fiber.Router) {
	router.Post("/:id/grade", h.grade)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil || classID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id query parameter is required")
	}

	assignments, err := h.service.ListByClass(c.Context(), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	assignment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	payload := dto.AssignmentCreateRequest{
		Title:        c.FormValue("title"),
		Instructions: c.FormValue("instructions"),
		Topic:        c.FormValue("topic"),
	}
	if classID, err := strconv.ParseUint(c.FormValue("class_id"), 10, 64); err == nil {
		payload.ClassID = uint(classID)
	}
	if points, err := strconv.Atoi(c.FormValue("max_points")); err == nil {
		payload.MaxPoints = points
	}
	if due := strings.TrimSpace(c.FormValue("due_date")); due != "" {
		payload.DueDate = &due
	}

	assignment, err := h.service.Create(c.Context(), actorFromContext(c), payload, formFiles(c, "attachments"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submission, err := h.service.Submit(c.Context(), id, userIDFromContext(c), formFiles(c, "files"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", submission)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.GradeSubmission(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *AssignmentHandler) submissions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.service.Submissions(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", result)
}

func (h *AssignmentHandler) archiveAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Archive(c.Context(), repository.ArchiveKindAssignment, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "assignment archived", fiber.Map{"id": id})
}

func (h *AssignmentHandler) restore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.archive.Restore(c.Context(), repository.ArchiveKindAssignment, id, actorFromContext(c)); err != nil {
		return h.handleArchiveError(c, err)
	}

	return utils.SendSuccess(c, "assignment restored", fiber.Map{"id": id})
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, "not enrolled in class")
	case errors.Is(err, service.ErrGradeExceedsMax):
		return utils.SendError(c, fiber.StatusBadRequest, "grade exceeds max points")
	case errors.Is(err, service.ErrFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "at least one file is required")
	case errors.Is(err, service.ErrFileTooLarge):
		return utils.SendError(c, fiber.StatusBadRequest, "file exceeds the size limit")
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, "file type not allowed")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AssignmentHandler) handleArchiveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrArchiveTargetNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrUnknownArchiveKind):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AssignmentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
