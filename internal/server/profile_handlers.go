package server

import (
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfilePage handles GET /profile/:username/
func (s *Server) ProfilePage(c *fiber.Ctx) error {
	profile, err := s.feedService.Profile(c.UserContext(), c.Params("username"), currentUserID(c), pageParam(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/profile", profileView{
		pageMeta: meta(c, profile.Author.String()),
		Profile:  profile,
	})
}

// FollowFeedPage handles GET /follow/: posts by the authors the viewer follows.
func (s *Server) FollowFeedPage(c *fiber.Ctx) error {
	page, err := s.feedService.FollowFeed(c.UserContext(), currentUserID(c), pageParam(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/follow", listView{
		pageMeta: meta(c, "Your subscriptions"),
		Page:     page,
	})
}

// FollowAuthorPage handles GET /profile/:username/follow/
func (s *Server) FollowAuthorPage(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}

// UnfollowAuthorPage handles GET /profile/:username/unfollow/
func (s *Server) UnfollowAuthorPage(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}

// ProfileResponse is the API shape of an author's profile.
type ProfileResponse struct {
	Author         *models.User     `json:"author"`
	PostCount      int              `json:"post_count"`
	Following      bool             `json:"following"`
	Followers      int64            `json:"followers"`
	FollowingCount int64            `json:"following_count"`
	Posts          service.PostPage `json:"posts"`
}

// GetProfile handles GET /api/v1/profiles/:username
// @Summary Get profile
// @Description Get an author with one page of their posts
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.feedService.Profile(c.UserContext(), c.Params("username"), currentUserID(c), pageParam(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(ProfileResponse{
		Author:         profile.Author,
		PostCount:      profile.PostCount,
		Following:      profile.Following,
		Followers:      profile.Followers,
		FollowingCount: profile.FollowingCount,
		Posts:          profile.Page,
	})
}

// GetFollowFeed handles GET /api/v1/follow
// @Summary Follow feed
// @Description Posts by the authors the current user follows
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Success 200 {object} service.PostPage
// @Failure 401 {object} models.ErrorResponse
// @Router /follow [get]
func (s *Server) GetFollowFeed(c *fiber.Ctx) error {
	page, err := s.feedService.FollowFeed(c.UserContext(), currentUserID(c), pageParam(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(page)
}

// FollowUser handles POST /api/v1/profiles/:username/follow
// @Summary Follow author
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} object{following=bool,author=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{"following": true, "author": author})
}

// UnfollowUser handles DELETE /api/v1/profiles/:username/follow
// @Summary Unfollow author
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} object{following=bool,author=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{"following": false, "author": author})
}
