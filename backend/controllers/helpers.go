package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sqlify/backend/models"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
)

// errMissingUserID guards every call that needs the persisted identity.
var errMissingUserID = errors.New("missing user id")

// renderFetchError maps the fetcher's error taxonomy onto the envelope:
// transport and shape failures are the gateway's problem (502), an
// application failure carries the server's message verbatim.
func renderFetchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upstream.ErrUpstreamDown):
		return utils.BadGateway(c, "server not responding")
	case errors.Is(err, upstream.ErrMalformedReply):
		return utils.BadGateway(c, "malformed reply from server")
	case errors.Is(err, errMissingUserID):
		return utils.BadRequest(c, errMissingUserID.Error())
	}
	var appErr *upstream.ApplicationError
	if errors.As(err, &appErr) {
		return utils.BadRequest(c, appErr.Error())
	}
	return utils.Error(c, fiber.StatusInternalServerError, err.Error())
}

// Action sets per page, derived from the canonical role. Guests get
// read-only views everywhere; a hidden action is never dispatched.

func mainActions(role string) []string {
	switch role {
	case models.RoleStudent:
		return []string{"enroll", "view-courses", "chat", "logout"}
	case models.RoleInstructor:
		return []string{"create-course", "chat", "logout"}
	default:
		return []string{"chat"}
	}
}

func instructorCourseActions(role string) []string {
	if role != models.RoleInstructor {
		return nil
	}
	return []string{"create-course", "edit-course", "delete-course", "view-students", "view-progress"}
}

func courseActions(role string) []string {
	if role == models.RoleInstructor {
		return []string{"create-module"}
	}
	return nil
}

func moduleActions(role string) []string {
	switch role {
	case models.RoleInstructor:
		return []string{"create-quiz"}
	case models.RoleStudent:
		return []string{"attempt-quiz"}
	}
	return nil
}
