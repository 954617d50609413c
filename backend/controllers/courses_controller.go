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

// CoursesController serves the instructor's course management page. Every
// route behind it sits behind the instructor role gate.
type CoursesController struct {
	API   *upstream.Client
	Pages *viewstate.Registry
}

func NewCoursesController(api *upstream.Client, pages *viewstate.Registry) *CoursesController {
	return &CoursesController{API: api, Pages: pages}
}

const instructorCoursesPage = "instructor-courses"

// List renders the instructor's own courses.
func (cc *CoursesController) List(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	machine := cc.Pages.Page(instructorCoursesPage)
	_ = machine.BeginLoad()

	var courses []models.Course
	err := func() error {
		if sess.UserID.Empty() {
			return errMissingUserID
		}
		var ferr error
		courses, ferr = cc.API.InstructorCourses(c.UserContext(), sess.UserID)
		return ferr
	}()
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"session": sess,
		"courses": courses,
		"actions": instructorCourseActions(sess.Role),
		"view":    machine.Snapshot(),
	})
}

type courseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create adds a course, then refetches the list so the page always renders
// the backend's view of the world.
func (cc *CoursesController) Create(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.UserID.Empty() {
		return utils.BadRequest(c, errMissingUserID.Error())
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.BadRequest(c, "course name is required")
	}

	machine := cc.Pages.Page(instructorCoursesPage)
	var courses []models.Course
	mutErr := machine.MutateThenRefetch("course created successfully",
		func() error {
			return cc.API.CreateCourse(c.UserContext(), req.Name, req.Description, sess.UserID)
		},
		func() error {
			_ = machine.BeginLoad()
			var err error
			courses, err = cc.API.InstructorCourses(c.UserContext(), sess.UserID)
			_ = machine.ResolveLoad(err)
			return err
		},
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"courses": courses,
		"view":    machine.Snapshot(),
	})
}

// Update edits a course's name and description in place.
func (cc *CoursesController) Update(c *fiber.Ctx) error {
	courseID := models.FlexID(c.Params("courseId"))
	if courseID.Empty() {
		return utils.BadRequest(c, "course id is required")
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.BadRequest(c, "course name is required")
	}

	machine := cc.Pages.Page(instructorCoursesPage)
	mutErr := machine.MutateThenRefetch("course updated",
		func() error {
			return cc.API.UpdateCourse(c.UserContext(), courseID, req.Name, req.Description)
		},
		nil,
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}
	return utils.Success(c, fiber.Map{"view": machine.Snapshot()})
}

// Delete removes a course and refetches the list.
func (cc *CoursesController) Delete(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.UserID.Empty() {
		return utils.BadRequest(c, errMissingUserID.Error())
	}
	courseID := models.FlexID(c.Params("courseId"))
	if courseID.Empty() {
		return utils.BadRequest(c, "course id is required")
	}

	machine := cc.Pages.Page(instructorCoursesPage)
	var courses []models.Course
	mutErr := machine.MutateThenRefetch("course deleted",
		func() error {
			return cc.API.DeleteCourse(c.UserContext(), courseID, sess.UserID)
		},
		func() error {
			_ = machine.BeginLoad()
			var err error
			courses, err = cc.API.InstructorCourses(c.UserContext(), sess.UserID)
			_ = machine.ResolveLoad(err)
			return err
		},
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"courses": courses,
		"view":    machine.Snapshot(),
	})
}

// ToggleForm flips the create-course form. Orthogonal to the fetch state.
func (cc *CoursesController) ToggleForm(c *fiber.Ctx) error {
	machine := cc.Pages.Page(instructorCoursesPage)
	open := machine.ToggleForm()
	return utils.Success(c, fiber.Map{
		"formOpen": open,
		"view":     machine.Snapshot(),
	})
}
