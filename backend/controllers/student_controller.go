package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sqlify/backend/middleware"
	"sqlify/backend/models"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
	"sqlify/backend/viewstate"
)

// StudentController serves the student dashboard and the enrollment page.
type StudentController struct {
	API   *upstream.Client
	Pages *viewstate.Registry
}

func NewStudentController(api *upstream.Client, pages *viewstate.Registry) *StudentController {
	return &StudentController{API: api, Pages: pages}
}

// GetMain renders the dashboard: enrolled courses for students, a redirect
// hint for instructors, an empty read-only view for guests.
func (sc *StudentController) GetMain(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.IsInstructor() {
		return utils.Success(c, fiber.Map{"session": sess, "redirect": "/instructor"})
	}

	machine := sc.Pages.Page("main")
	_ = machine.BeginLoad()

	var courses []models.Course
	var err error
	if sess.IsStudent() {
		if sess.UserID.Empty() {
			err = errMissingUserID
		} else {
			courses, err = sc.API.EnrolledCourses(c.UserContext(), sess.UserID)
		}
	}
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"session": sess,
		"courses": courses,
		"actions": mainActions(sess.Role),
		"view":    machine.Snapshot(),
	})
}

// GetEnroll renders the enrollment page: every open course minus the ones
// the student is already in, by id.
func (sc *StudentController) GetEnroll(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	machine := sc.Pages.Page("enroll")
	_ = machine.BeginLoad()

	enrolled, available, err := sc.enrollmentLists(c, sess)
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"session":   sess,
		"enrolled":  enrolled,
		"available": available,
		"actions":   []string{"enroll"},
		"view":      machine.Snapshot(),
	})
}

type enrollRequest struct {
	CourseID models.FlexID `json:"courseId"`
}

// PostEnroll enrolls the student and refetches both lists.
func (sc *StudentController) PostEnroll(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.UserID.Empty() {
		return utils.BadRequest(c, errMissingUserID.Error())
	}

	var req enrollRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.CourseID.Empty() {
		return utils.BadRequest(c, "course id is required")
	}

	machine := sc.Pages.Page("enroll")
	var enrolled, available []models.Course
	mutErr := machine.MutateThenRefetch("enrolled successfully",
		func() error {
			return sc.API.Enroll(c.UserContext(), sess.UserID, req.CourseID)
		},
		func() error {
			_ = machine.BeginLoad()
			var err error
			enrolled, available, err = sc.enrollmentLists(c, sess)
			_ = machine.ResolveLoad(err)
			return err
		},
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"enrolled":  enrolled,
		"available": available,
		"view":      machine.Snapshot(),
	})
}

// enrollmentLists fetches enrolled then the shared course listing, then
// takes the local set difference. Two reads, no reconciliation upstream.
func (sc *StudentController) enrollmentLists(c *fiber.Ctx, sess models.Session) ([]models.Course, []models.Course, error) {
	if sess.UserID.Empty() {
		return nil, nil, errMissingUserID
	}
	enrolled, err := sc.API.EnrolledCourses(c.UserContext(), sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	all, err := sc.API.AvailableCourses(c.UserContext())
	if err != nil {
		return nil, nil, err
	}
	return enrolled, availableForEnrollment(all, enrolled), nil
}

// availableForEnrollment filters out courses the student is already in.
func availableForEnrollment(all, enrolled []models.Course) []models.Course {
	taken := make(map[models.FlexID]struct{}, len(enrolled))
	for _, course := range enrolled {
		taken[course.ID] = struct{}{}
	}
	out := make([]models.Course, 0, len(all))
	for _, course := range all {
		if _, ok := taken[course.ID]; ok {
			continue
		}
		out = append(out, course)
	}
	return out
}
