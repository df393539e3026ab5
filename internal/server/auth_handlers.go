package server

import (
	"errors"
	"time"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthResponse is returned by the signup and login API endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type signupRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

func (r signupRequest) input() service.SignupInput {
	return service.SignupInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"-" form:"next"`
}

// Signup handles POST /api/v1/auth/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,first_name=string,last_name=string} true "Signup request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Signup(c.UserContext(), req.input())
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	token, _, err := middleware.IssueToken(s.config.JWTSecret, user.ID, user.Username, middleware.TokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	token, _, err := middleware.IssueToken(s.config.JWTSecret, user.ID, user.Username, middleware.TokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(AuthResponse{Token: token, User: user})
}

// Logout handles POST /api/v1/auth/logout
// @Summary Logout
// @Description Revoke the current token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := middleware.RevokeToken(c.UserContext(), s.redis, middleware.CurrentClaims(c)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// SignupForm handles GET /auth/signup/
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "users/signup", signupView{pageMeta: meta(c, "Sign up")})
}

// SignupPage handles POST /auth/signup/: the new account is logged in straight away.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}

	user, err := s.userService.Signup(c.UserContext(), req.input())
	if err != nil {
		if !models.IsCode(err, models.CodeValidation) {
			return err
		}
		return s.render(c, fiber.StatusOK, "users/signup", signupView{
			pageMeta: meta(c, "Sign up"),
			Form: signupForm{
				Username:  req.Username,
				Email:     req.Email,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			},
			Errors: fieldErrors(err, "username"),
		})
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "users/login", loginView{
		pageMeta: meta(c, "Log in"),
		Next:     safeNext(c.Query("next"), ""),
	})
}

// LoginPage handles POST /auth/login/ and honours ?next= for local paths.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}
	next := req.Next
	if next == "" {
		next = c.Query("next")
	}
	next = safeNext(next, "")

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if !models.IsCode(err, models.CodeUnauthorized) {
			return err
		}
		return s.render(c, fiber.StatusOK, "users/login", loginView{
			pageMeta: meta(c, "Log in"),
			Next:     next,
			Username: req.Username,
			Error:    "Please enter a correct username and password.",
		})
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect(safeNext(next, "/"), fiber.StatusFound)
}

// LogoutPage handles GET and POST /auth/logout/
func (s *Server) LogoutPage(c *fiber.Ctx) error {
	if err := middleware.RevokeToken(c.UserContext(), s.redis, middleware.CurrentClaims(c)); err != nil {
		return err
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, claims, err := middleware.IssueToken(s.config.JWTSecret, user.ID, user.Username, middleware.TokenTTL)
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// fieldErrors extracts per-field messages from a validation error.
// A message without fields is reported under fallback.
func fieldErrors(err error, fallback string) map[string]string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return nil
	}
	if len(appErr.Fields) > 0 {
		return appErr.Fields
	}
	return map[string]string{fallback: appErr.Message}
}
