package controllers

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sqlify/backend/middleware"
	"sqlify/backend/session"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type AuthController struct {
	API      *upstream.Client
	Sessions *session.Store
}

func NewAuthController(api *upstream.Client, sessions *session.Store) *AuthController {
	return &AuthController{API: api, Sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates the credentials locally, proxies them to the backend and
// persists the returned user record and token. The stored blob keeps the
// backend's own field names; the session reader normalizes on every read.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if !emailPattern.MatchString(req.Email) {
		return utils.BadRequest(c, "Please enter a valid email")
	}
	if len(req.Password) < 4 {
		return utils.BadRequest(c, "Password must be at least 4 characters")
	}

	env, err := ac.API.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var appErr *upstream.ApplicationError
		if errors.As(err, &appErr) {
			msg := appErr.Message
			if msg == "" {
				msg = "Invalid credentials"
			}
			return utils.Unauthorized(c, msg)
		}
		return renderFetchError(c, err)
	}

	blob, err := json.Marshal(fiber.Map{
		"user_id":  env.UserID,
		"username": env.UserName,
		"identity": env.Role,
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := ac.Sessions.Set(blob, env.Token); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"userId":   env.UserID,
		"userName": env.UserName,
		"role":     env.Role,
		"redirect": redirectForRole(env.Role),
	})
}

// Logout clears the persisted identity; subscribers wipe per-page state.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Sessions.Clear(); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.Success(c, fiber.Map{"redirect": "/login"})
}

// Session exposes the current canonical identity.
func (ac *AuthController) Session(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"session": middleware.SessionFrom(c)})
}

func redirectForRole(role string) string {
	switch strings.ToLower(role) {
	case "student":
		return "/main"
	case "instructor":
		return "/instructor"
	default:
		return "/login"
	}
}
