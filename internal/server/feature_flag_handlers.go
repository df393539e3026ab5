package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags handles GET /api/v1/admin/feature-flags
// @Summary Feature flags
// @Description Configured flag values and how they evaluate for the caller
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{raw=map[string]string,evaluated=map[string]bool}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	flags := fiber.Map{"raw": map[string]string{}, "evaluated": map[string]bool{}}
	if s.featureFlags != nil {
		flags["raw"] = s.featureFlags.Raw()
		flags["evaluated"] = s.featureFlags.Snapshot(currentUserID(c))
	}
	return c.JSON(flags)
}
