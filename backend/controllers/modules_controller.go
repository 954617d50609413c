package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sqlify/backend/middleware"
	"sqlify/backend/models"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
	"sqlify/backend/viewstate"
)

// ModulesController serves the course page: the module listing both roles
// see and the instructor-only module creation.
type ModulesController struct {
	API   *upstream.Client
	Pages *viewstate.Registry
}

func NewModulesController(api *upstream.Client, pages *viewstate.Registry) *ModulesController {
	return &ModulesController{API: api, Pages: pages}
}

// GetCourse renders one course's modules. Records without an id, or with
// neither a title nor a content link, never reach the page.
func (mc *ModulesController) GetCourse(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	courseID := models.FlexID(c.Params("courseId"))
	if courseID.Empty() {
		return utils.BadRequest(c, "course id is required")
	}

	machine := mc.Pages.Page("course:" + courseID.String())
	_ = machine.BeginLoad()
	modules, err := mc.API.ListModules(c.UserContext(), courseID)
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"session":  sess,
		"courseId": courseID,
		"modules":  modules,
		"actions":  courseActions(sess.Role),
		"view":     machine.Snapshot(),
	})
}

type moduleRequest struct {
	Title       string `json:"title"`
	ContentLink string `json:"contentLink"`
}

// CreateModule adds a module to the course and refetches the listing.
func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	courseID := models.FlexID(c.Params("courseId"))
	if courseID.Empty() {
		return utils.BadRequest(c, "course id is required")
	}

	var req moduleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(req.Title) == "" {
		return utils.BadRequest(c, "module title is required")
	}

	machine := mc.Pages.Page("course:" + courseID.String())
	var modules []models.Module
	mutErr := machine.MutateThenRefetch("module created successfully",
		func() error {
			return mc.API.CreateModule(c.UserContext(), courseID, req.Title, req.ContentLink)
		},
		func() error {
			_ = machine.BeginLoad()
			var err error
			modules, err = mc.API.ListModules(c.UserContext(), courseID)
			_ = machine.ResolveLoad(err)
			return err
		},
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"modules": modules,
		"view":    machine.Snapshot(),
	})
}
