package server

import (
	"strings"

	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddCommentPage handles POST /posts/:id/comment/. It always lands back on
// the post; a blank comment is dropped without a row being written.
func (s *Server) AddCommentPage(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}

	text := c.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return c.Redirect(postPath(id), fiber.StatusFound)
	}

	_, err := s.commentService.AddComment(c.UserContext(), service.CreateCommentInput{
		PostID:   id,
		AuthorID: currentUserID(c),
		Text:     text,
	})
	if err != nil && !models.IsCode(err, models.CodeValidation) {
		return err
	}
	return c.Redirect(postPath(id), fiber.StatusFound)
}

// CommentRedirectPage handles GET /posts/:id/comment/. The comment form posts
// here, so a login round trip that resumes with a GET lands back on the post.
func (s *Server) CommentRedirectPage(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}
	return c.Redirect(postPath(id), fiber.StatusFound)
}

// GetComments handles GET /api/v1/posts/:id/comments
// @Summary List comments
// @Description Get all comments on a post, newest first
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/v1/posts/:id/comments
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.CreateCommentInput{
		PostID:   postID,
		AuthorID: currentUserID(c),
		Text:     req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
