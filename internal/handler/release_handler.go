package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/examgate-go-api/internal/dto"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/observability"
	"github.com/noah-isme/examgate-go-api/internal/repository"
	"github.com/noah-isme/examgate-go-api/internal/service"
	"github.com/noah-isme/examgate-go-api/internal/utils"
)

// ReleaseHandler wires test release HTTP routes.
type ReleaseHandler struct {
	releases service.ReleaseService
	catalog  service.CatalogService
	scopes   service.ScopeService
	audit    service.AuditTrail
	logger   zerolog.Logger
}

// NewReleaseHandler constructs the handler.
func NewReleaseHandler(releases service.ReleaseService, catalog service.CatalogService, scopes service.ScopeService, audit service.AuditTrail, logger zerolog.Logger) *ReleaseHandler {
	return &ReleaseHandler{
		releases: releases,
		catalog:  catalog,
		scopes:   scopes,
		audit:    audit,
		logger:   logger.With().Str("component", "release_handler").Logger(),
	}
}

// Register attaches release endpoints to the router group. Static segments
// are registered before the id wildcard.
func (h *ReleaseHandler) Register(router fiber.Router) {
	router.Get("/catalog", h.listCatalog)
	router.Get("/audit", h.listAudit)
	router.Delete("/sites/:siteID", h.removeSite)
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/bulk", h.createBulk)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.softDelete)
	router.Post("/:id/restore", h.restore)
	router.Post("/:id/sites", h.addSite)
}

func (h *ReleaseHandler) list(c *fiber.Ctx) error {
	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	if !scope.IsAuthorized() {
		return utils.SendSuccess(c, "no releases available for this account", []dto.ReleaseResponse{})
	}

	includeDeleted := c.QueryBool("include_deleted", false)
	releases, err := h.releases.List(c.Context(), scope, includeDeleted)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "releases retrieved", releases)
}

func (h *ReleaseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	release, err := h.releases.Get(c.Context(), scope, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "release retrieved", release)
}

func (h *ReleaseHandler) create(c *fiber.Ctx) error {
	var payload dto.ReleaseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	release, err := h.releases.Create(c.Context(), h.actor(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ReleasesCreated().WithLabelValues("single").Inc()

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "release created", release)
}

func (h *ReleaseHandler) createBulk(c *fiber.Ctx) error {
	var payload dto.ReleaseBulkCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.releases.CreateBulk(c.Context(), h.actor(c), payload)
	if result.Created > 0 {
		observability.ReleasesCreated().WithLabelValues("bulk").Add(float64(result.Created))
	}
	if err != nil {
		var batchErr *service.BatchError
		if errors.As(err, &batchErr) {
			// Partial batches surface the failure verbatim together with
			// what was already created, so the caller can retry the rest.
			h.logger.Warn().Err(batchErr).Int("created", batchErr.Created).Msg("bulk release creation incomplete")
			return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
				"success": false,
				"message": batchErr.Error(),
				"data":    result,
			})
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "releases created", result)
}

func (h *ReleaseHandler) softDelete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	if err := h.releases.SoftDelete(c.Context(), h.actor(c), scope, id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "release deleted", fiber.Map{"id": id})
}

func (h *ReleaseHandler) restore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	if err := h.releases.Restore(c.Context(), h.actor(c), scope, id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "release restored", fiber.Map{"id": id})
}

func (h *ReleaseHandler) addSite(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SiteCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	site, err := h.releases.AddSite(c.Context(), h.actor(c), scope, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "allowed site attached", site)
}

func (h *ReleaseHandler) removeSite(c *fiber.Ctx) error {
	siteID, err := parseUintParam(c, "siteID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	if err := h.releases.RemoveSite(c.Context(), h.actor(c), scope, siteID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "allowed site removed", fiber.Map{"id": siteID})
}

func (h *ReleaseHandler) listCatalog(c *fiber.Ctx) error {
	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	catalog, err := h.catalog.ListAuxiliary(c.Context(), scope)
	if err != nil {
		return h.internalError(c, err)
	}

	message := "catalog retrieved"
	if !scope.IsAuthorized() {
		message = "no catalog available for this account"
	}

	return utils.SendSuccess(c, message, catalog)
}

// listAudit exposes the recorded trail to administrators. Narrower scopes
// receive an empty page.
func (h *ReleaseHandler) listAudit(c *fiber.Ctx) error {
	scope, err := h.resolveScope(c)
	if err != nil {
		return h.internalError(c, err)
	}

	filter := repository.AuditFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 50),
		Action:   c.Query("action"),
	}
	if actorID := c.QueryInt("actor_id", 0); actorID > 0 {
		id := uint(actorID)
		filter.ActorID = &id
	}
	if releaseID := c.QueryInt("release_id", 0); releaseID > 0 {
		id := uint(releaseID)
		filter.ReleaseID = &id
	}

	entries, total, err := h.audit.List(c.Context(), scope, filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.OK(c, entries, "audit trail retrieved", fiber.Map{
		"page":      filter.Page,
		"page_size": filter.PageSize,
		"total":     total,
	})
}

// resolveScope maps the authenticated user onto a scope descriptor. Global
// scopes may be narrowed by an institution_id query parameter.
func (h *ReleaseHandler) resolveScope(c *fiber.Ctx) (models.ScopeDescriptor, error) {
	scope, err := h.resolvePrincipal(c)
	if err != nil {
		return models.ScopeDescriptor{}, err
	}

	if scope.Kind == models.ScopeGlobal {
		if filter := c.QueryInt("institution_id", 0); filter > 0 {
			filterID := uint(filter)
			scope.InstitutionFilter = &filterID
		}
	}

	return scope, nil
}

func (h *ReleaseHandler) resolvePrincipal(c *fiber.Ctx) (models.ScopeDescriptor, error) {
	if userID, ok := c.Locals("user_id").(uint); ok && userID > 0 {
		return h.scopes.Resolve(c.Context(), userID)
	}

	if authID, ok := c.Locals("auth_id").(string); ok && authID != "" {
		return h.scopes.ResolveByAuthID(c.Context(), authID)
	}

	return models.UnauthorizedScope(), nil
}

func (h *ReleaseHandler) actor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if userID, ok := c.Locals("user_id").(uint); ok {
		actor.ID = userID
	}
	if role, ok := c.Locals("user_role").(string); ok {
		actor.Role = role
	}

	return actor
}

func (h *ReleaseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrReleaseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "release not found")
	case errors.Is(err, service.ErrSiteNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "allowed site not found")
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "test not found")
	case errors.As(err, &validationErr):
		return utils.SendError(c, fiber.StatusBadRequest, validationErr.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ReleaseHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}
