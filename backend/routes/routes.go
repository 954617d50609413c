package routes

import (
	"github.com/gofiber/fiber/v2"

	"sqlify/backend/chat"
	"sqlify/backend/controllers"
	"sqlify/backend/middleware"
	"sqlify/backend/models"
	"sqlify/backend/session"
	"sqlify/backend/upstream"
	"sqlify/backend/viewstate"
)

func SetupRoutes(app *fiber.App, api *upstream.Client, sessions *session.Store, pages *viewstate.Registry, transcript *chat.Transcript) {
	attach := middleware.AttachSession(sessions)
	studentOnly := middleware.RequireRole(sessions, models.RoleStudent)
	instructorOnly := middleware.RequireRole(sessions, models.RoleInstructor)

	// Auth routes
	authController := controllers.NewAuthController(api, sessions)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/logout", authController.Logout)
	app.Get("/api/session", attach, authController.Session)

	// Student routes
	studentController := controllers.NewStudentController(api, pages)
	app.Get("/api/main", attach, studentController.GetMain)
	app.Get("/api/enroll", studentOnly, studentController.GetEnroll)
	app.Post("/api/enroll", studentOnly, studentController.PostEnroll)

	// Instructor course routes
	coursesController := controllers.NewCoursesController(api, pages)
	instructorCourses := app.Group("/api/instructor/courses", instructorOnly)
	instructorCourses.Get("/", coursesController.List)
	instructorCourses.Post("/", coursesController.Create)
	instructorCourses.Post("/form", coursesController.ToggleForm)
	instructorCourses.Put("/:courseId", coursesController.Update)
	instructorCourses.Delete("/:courseId", coursesController.Delete)

	// Course and module routes
	modulesController := controllers.NewModulesController(api, pages)
	app.Get("/api/courses/:courseId", attach, modulesController.GetCourse)
	app.Post("/api/courses/:courseId/modules", instructorOnly, modulesController.CreateModule)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(api, pages)
	app.Get("/api/modules/:moduleId/quizzes", attach, quizzesController.ListQuizzes)
	app.Post("/api/modules/:moduleId/quizzes", instructorOnly, quizzesController.CreateQuiz)
	app.Get("/api/quizzes/:quizId/questions", attach, quizzesController.Questions)
	app.Post("/api/quizzes/:quizId/attempt", studentOnly, quizzesController.Attempt)

	// Chat routes
	chatController := controllers.NewChatController(api, transcript)
	app.Get("/api/chat", chatController.Get)
	app.Post("/api/chat", chatController.Send)
	app.Delete("/api/chat", chatController.Clear)
}
