package server

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const baseLayout = "layouts/base"

// viewer is the logged-in user as seen by templates.
type viewer struct {
	ID       uint
	Username string
}

// pageMeta is shared by every page rendered inside the base layout.
type pageMeta struct {
	Title  string
	Viewer *viewer
}

type listView struct {
	pageMeta
	Page service.PostPage
}

type groupView struct {
	pageMeta
	Group *models.Group
	Page  service.PostPage
}

type profileView struct {
	pageMeta
	Profile *service.ProfileFeed
}

type detailView struct {
	pageMeta
	Detail  *service.PostDetail
	CanEdit bool
}

type postForm struct {
	Text    string
	GroupID uint
	Image   string
}

type postFormView struct {
	pageMeta
	IsEdit bool
	Form   postForm
	Errors map[string]string
	Groups []models.Group
}

type loginView struct {
	pageMeta
	Next     string
	Username string
	Error    string
}

type signupForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

type signupView struct {
	pageMeta
	Form   signupForm
	Errors map[string]string
}

type notFoundView struct {
	pageMeta
	Path string
}

func newViewEngine(images *service.ImageService) *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(fmt.Sprintf("views: %v", err))
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	})
	engine.AddFunc("year", func() int {
		return time.Now().Year()
	})
	engine.AddFunc("mediaURL", images.URL)
	return engine
}

// meta builds the layout fields for the current request.
func meta(c *fiber.Ctx, title string) pageMeta {
	return pageMeta{Title: title, Viewer: currentViewer(c)}
}

func currentViewer(c *fiber.Ctx) *viewer {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil
	}
	v := &viewer{ID: uid}
	if tc := middleware.CurrentClaims(c); tc != nil {
		v.Username = tc.Username
	}
	return v
}

// renderPage executes a template inside the base layout.
func (s *Server) renderPage(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.views.Render(&buf, name, data, baseLayout); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Server) render(c *fiber.Ctx, status int, name string, data any) error {
	body, err := s.renderPage(name, data)
	if err != nil {
		return err
	}
	return sendHTML(c, status, body)
}

func sendHTML(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

// NotFoundPage renders core/404 with status 404.
func (s *Server) NotFoundPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusNotFound, "core/404", notFoundView{
		pageMeta: meta(c, "Page not found"),
		Path:     c.Path(),
	})
}

func (s *Server) staticPage(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.render(c, fiber.StatusOK, name, meta(c, title))
	}
}
