package server

import (
	"log/slog"

	"postboard/internal/middleware"
	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClearPageCache handles POST /api/v1/admin/cache/clear
// @Summary Clear page cache
// @Description Drop every cached page so the next request renders fresh
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/cache/clear [post]
func (s *Server) ClearPageCache(c *fiber.Ctx) error {
	if err := s.pageCache.Clear(c.UserContext()); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	middleware.Logger.InfoContext(c.UserContext(), "page cache cleared",
		slog.Uint64("admin_id", uint64(currentUserID(c))),
	)
	return c.JSON(fiber.Map{"message": "Page cache cleared"})
}

// DeleteGroup handles DELETE /api/v1/admin/groups/:slug
// @Summary Delete group
// @Description Delete a group; its posts are kept without a group
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Group slug"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/groups/{slug} [delete]
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	if err := s.groupService.DeleteGroup(c.UserContext(), c.Params("slug")); err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}
