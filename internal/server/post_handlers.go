package server

import (
	"context"
	"errors"
	"log/slog"

	"postboard/internal/cache"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Text       string `json:"text" form:"text"`
	GroupID    *uint  `json:"group_id" form:"group_id"`
	ClearImage bool   `json:"clear_image" form:"clear_image"`
}

// IndexPage handles GET /. Rendered pages are cached per viewer and query string
// and are not invalidated by writes; they expire or are cleared by an admin.
func (s *Server) IndexPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := cache.PageKey("index", currentUserID(c), string(c.Request().URI().QueryString()))
	if body, ok := s.cachedPage(ctx, "index", key); ok {
		return sendHTML(c, fiber.StatusOK, body)
	}

	page, err := s.feedService.Index(ctx, pageParam(c))
	if err != nil {
		return err
	}
	body, err := s.renderPage("posts/index", listView{
		pageMeta: meta(c, "Latest updates"),
		Page:     page,
	})
	if err != nil {
		return err
	}

	if err := s.pageCache.Set(ctx, key, body); err != nil {
		middleware.Logger.WarnContext(ctx, "page cache store failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return sendHTML(c, fiber.StatusOK, body)
}

func (s *Server) cachedPage(ctx context.Context, view, key string) ([]byte, bool) {
	body, ok, err := s.pageCache.Get(ctx, key)
	switch {
	case err != nil:
		observability.PageCacheLookups.WithLabelValues(view, "error").Inc()
		middleware.Logger.WarnContext(ctx, "page cache lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	case ok:
		observability.PageCacheLookups.WithLabelValues(view, "hit").Inc()
		return body, true
	default:
		observability.PageCacheLookups.WithLabelValues(view, "miss").Inc()
		return nil, false
	}
}

// PostDetailPage handles GET /posts/:id/
func (s *Server) PostDetailPage(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}

	detail, err := s.feedService.PostDetail(c.UserContext(), id)
	if err != nil {
		return err
	}

	uid := currentUserID(c)
	return s.render(c, fiber.StatusOK, "posts/post_detail", detailView{
		pageMeta: meta(c, detail.Post.String()),
		Detail:   detail,
		CanEdit:  uid != 0 && uid == detail.Post.AuthorID,
	})
}

// CreatePostForm handles GET /create/
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, false, postForm{}, nil)
}

// CreatePostPage handles POST /create/ and redirects to the author's profile.
func (s *Server) CreatePostPage(c *fiber.Ctx) error {
	form := postForm{Text: c.FormValue("text")}
	groupID, ok := optionalGroupID(c.FormValue("group"))
	if !ok {
		return s.renderPostForm(c, false, form, map[string]string{"group": "Select a valid choice."})
	}
	if groupID != nil {
		form.GroupID = *groupID
	}

	image, err := readImageUpload(c)
	if err != nil {
		return s.renderPostForm(c, false, form, fieldErrors(err, "image"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Text:     form.Text,
		GroupID:  groupID,
		Image:    image,
	})
	if err != nil {
		if models.IsCode(err, models.CodeValidation) {
			return s.renderPostForm(c, false, form, fieldErrors(err, "text"))
		}
		return err
	}

	return c.Redirect(profilePath(post.Author.Username), fiber.StatusFound)
}

// EditPostForm handles GET /posts/:id/edit/. Only the author sees the form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post.AuthorID != currentUserID(c) {
		return c.Redirect(postPath(post.ID), fiber.StatusFound)
	}

	form := postForm{Text: post.Text, Image: post.Image}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}
	return s.renderPostForm(c, true, form, nil)
}

// EditPostPage handles POST /posts/:id/edit/. A non-author is sent back to the
// post and nothing changes.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}

	current, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	if current.AuthorID != currentUserID(c) {
		return c.Redirect(postPath(current.ID), fiber.StatusFound)
	}

	form := postForm{Text: c.FormValue("text"), Image: current.Image}
	groupID, ok := optionalGroupID(c.FormValue("group"))
	if !ok {
		return s.renderPostForm(c, true, form, map[string]string{"group": "Select a valid choice."})
	}
	if groupID != nil {
		form.GroupID = *groupID
	}

	image, err := readImageUpload(c)
	if err != nil {
		return s.renderPostForm(c, true, form, fieldErrors(err, "image"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:     id,
		EditorID:   currentUserID(c),
		Text:       form.Text,
		GroupID:    groupID,
		Image:      image,
		ClearImage: c.FormValue("image-clear") != "",
	})
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		return c.Redirect(postPath(id), fiber.StatusFound)
	case models.IsCode(err, models.CodeValidation):
		return s.renderPostForm(c, true, form, fieldErrors(err, "text"))
	case err != nil:
		return err
	}

	return c.Redirect(postPath(post.ID), fiber.StatusFound)
}

// DeletePostPage handles POST /posts/:id/delete/
func (s *Server) DeletePostPage(c *fiber.Ctx) error {
	id, ok := pageID(c, "id")
	if !ok {
		return s.NotFoundPage(c)
	}

	post, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	})
	if models.IsCode(err, models.CodeForbidden) {
		return c.Redirect(postPath(id), fiber.StatusFound)
	}
	if err != nil {
		return err
	}

	return c.Redirect(profilePath(post.Author.Username), fiber.StatusFound)
}

func (s *Server) renderPostForm(c *fiber.Ctx, isEdit bool, form postForm, errs map[string]string) error {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return err
	}
	title := "New post"
	if isEdit {
		title = "Edit post"
	}
	return s.render(c, fiber.StatusOK, "posts/create_post", postFormView{
		pageMeta: meta(c, title),
		IsEdit:   isEdit,
		Form:     form,
		Errors:   errs,
		Groups:   groups,
	})
}

// GetPosts handles GET /api/v1/posts
// @Summary List posts
// @Description Get one page of posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} service.PostPage
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.feedService.Index(c.UserContext(), pageParam(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/v1/posts
// @Summary Create post
// @Description Create a post; send multipart/form-data to attach an image
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string,group_id=int} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := readImageUpload(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Text:     req.Text,
		GroupID:  req.GroupID,
		Image:    image,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/v1/posts/:id
// @Summary Update post
// @Description Only the author may edit a post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string,group_id=int,clear_image=bool} true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := readImageUpload(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:     id,
		EditorID:   currentUserID(c),
		Text:       req.Text,
		GroupID:    req.GroupID,
		Image:      image,
		ClearImage: req.ClearImage,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete post
// @Description The author or an admin may delete a post together with its comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
