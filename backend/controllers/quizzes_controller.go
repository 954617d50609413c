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

// QuizzesController serves the module page's quiz listing, quiz creation,
// the question view and attempt submission.
type QuizzesController struct {
	API   *upstream.Client
	Pages *viewstate.Registry
}

func NewQuizzesController(api *upstream.Client, pages *viewstate.Registry) *QuizzesController {
	return &QuizzesController{API: api, Pages: pages}
}

// ListQuizzes renders the quizzes of one module.
func (qc *QuizzesController) ListQuizzes(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	moduleID := models.FlexID(c.Params("moduleId"))
	if moduleID.Empty() {
		return utils.BadRequest(c, "module id is required")
	}

	machine := qc.Pages.Page("module:" + moduleID.String())
	_ = machine.BeginLoad()
	quizzes, err := qc.API.ListQuizzes(c.UserContext(), moduleID)
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"session":  sess,
		"moduleId": moduleID,
		"quizzes":  quizzes,
		"actions":  moduleActions(sess.Role),
		"view":     machine.Snapshot(),
	})
}

type newQuizRequest struct {
	Title           string `json:"title"`
	DifficultyLevel int    `json:"difficultyLevel"`
	Questions       []struct {
		Text   string `json:"text"`
		Answer string `json:"answer"`
	} `json:"questions"`
}

// CreateQuiz adds a quiz with its questions and refetches the listing.
func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.UserID.Empty() {
		return utils.BadRequest(c, errMissingUserID.Error())
	}
	moduleID := models.FlexID(c.Params("moduleId"))
	if moduleID.Empty() {
		return utils.BadRequest(c, "module id is required")
	}

	var req newQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(req.Title) == "" {
		return utils.BadRequest(c, "quiz title is required")
	}
	if req.DifficultyLevel < 1 || req.DifficultyLevel > 5 {
		return utils.BadRequest(c, "difficulty must be between 1 and 5")
	}
	if len(req.Questions) == 0 {
		return utils.BadRequest(c, "at least one question is required")
	}
	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Answer) == "" {
			return utils.BadRequest(c, "every question needs text and a correct answer")
		}
		questions = append(questions, models.Question{Text: q.Text, CorrectAnswer: q.Answer})
	}

	machine := qc.Pages.Page("module:" + moduleID.String())
	var quizzes []models.Quiz
	mutErr := machine.MutateThenRefetch("quiz created successfully",
		func() error {
			return qc.API.CreateQuiz(c.UserContext(), upstream.NewQuiz{
				InstructorID:    sess.UserID,
				ModuleID:        moduleID,
				Title:           req.Title,
				DifficultyLevel: req.DifficultyLevel,
				Questions:       questions,
			})
		},
		func() error {
			_ = machine.BeginLoad()
			var err error
			quizzes, err = qc.API.ListQuizzes(c.UserContext(), moduleID)
			_ = machine.ResolveLoad(err)
			return err
		},
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"quizzes": quizzes,
		"view":    machine.Snapshot(),
	})
}

// Questions renders one quiz's questions.
func (qc *QuizzesController) Questions(c *fiber.Ctx) error {
	quizID := models.FlexID(c.Params("quizId"))
	if quizID.Empty() {
		return utils.BadRequest(c, "quiz id is required")
	}

	machine := qc.Pages.Page("quiz:" + quizID.String())
	_ = machine.BeginLoad()
	questions, err := qc.API.QuizQuestions(c.UserContext(), quizID)
	_ = machine.ResolveLoad(err)
	if err != nil {
		return renderFetchError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"quizId":    quizID,
		"questions": questions,
		"view":      machine.Snapshot(),
	})
}

type attemptRequest struct {
	Answers []models.AttemptAnswer `json:"answers"`
}

type answerResult struct {
	QuestionID    models.FlexID `json:"questionId"`
	Correct       bool          `json:"correct"`
	CorrectAnswer string        `json:"correctAnswer"`
}

// Attempt submits the student's ordered answers and echoes a local grading
// of each one against the quiz's correct answers.
func (qc *QuizzesController) Attempt(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess.UserID.Empty() {
		return utils.BadRequest(c, errMissingUserID.Error())
	}
	quizID := models.FlexID(c.Params("quizId"))
	if quizID.Empty() {
		return utils.BadRequest(c, "quiz id is required")
	}

	var req attemptRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(req.Answers) == 0 {
		return utils.BadRequest(c, "no answers submitted")
	}

	questions, err := qc.API.QuizQuestions(c.UserContext(), quizID)
	if err != nil {
		return renderFetchError(c, err)
	}

	machine := qc.Pages.Page("quiz:" + quizID.String())
	mutErr := machine.MutateThenRefetch("attempt submitted",
		func() error {
			return qc.API.SubmitAttempt(c.UserContext(), models.Attempt{
				StudentID: sess.UserID,
				Answers:   req.Answers,
			})
		},
		nil,
	)
	if mutErr != nil {
		return renderFetchError(c, mutErr)
	}

	return utils.Success(c, fiber.Map{
		"results": gradeAnswers(questions, req.Answers),
		"view":    machine.Snapshot(),
	})
}

// gradeAnswers marks each answer correct iff it matches the question's
// correct answer, trimmed and case-insensitive.
func gradeAnswers(questions []models.Question, answers []models.AttemptAnswer) []answerResult {
	byID := make(map[models.FlexID]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	results := make([]answerResult, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		results = append(results, answerResult{
			QuestionID:    a.QuestionID,
			Correct:       strings.EqualFold(strings.TrimSpace(a.Answer), strings.TrimSpace(q.CorrectAnswer)),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return results
}
