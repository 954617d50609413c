package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"sqlify/backend/models"
)

// TokenSource supplies the bearer token for outgoing requests and absorbs
// the 401 reaction. session.Store satisfies it.
type TokenSource interface {
	Token() string
	ClearToken() error
}

// Envelope is the {success, message, ...} wrapper every backend reply is
// expected to use. Entity fields stay raw so the normalization layer can
// absorb shape variance.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	Courses   json.RawMessage `json:"courses"`
	Modules   json.RawMessage `json:"modules"`
	Quizzes   json.RawMessage `json:"quizzes"`
	Questions json.RawMessage `json:"questions"`

	UserID   models.FlexID `json:"userId"`
	UserName string        `json:"userName"`
	Role     string        `json:"role"`
	Token    string        `json:"token"`

	Query  string          `json:"query"`
	Result json.RawMessage `json:"result"`

	// List catches endpoints that answer with a bare positional array
	// instead of the envelope (module listing does).
	List json.RawMessage `json:"-"`
}

// Client is the typed fetcher for the SQLify backend. No caching, no
// retries, no deduplication: every call is one request, bound to ctx.
type Client struct {
	baseURL string
	chatURL string
	http    *http.Client
	tokens  TokenSource
	log     *log.Logger
}

func NewClient(baseURL, chatURL string, timeout time.Duration, tokens TokenSource, logger *log.Logger) *Client {
	if chatURL == "" {
		chatURL = baseURL
	}
	return &Client{
		baseURL: baseURL,
		chatURL: chatURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, base, path string, body interface{}) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Printf("upstream unreachable: %s %s: %v", method, base+path, err)
		return nil, fmt.Errorf("%w: %s %s", ErrUpstreamDown, method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token only. The user record is kept so the UI can still show
		// the last-known identity.
		_ = c.tokens.ClearToken()
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Printf("upstream read failed: %s %s: %v", method, base+path, err)
		return nil, fmt.Errorf("%w: %s %s", ErrUpstreamDown, method, path)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return &Envelope{Success: true, List: raw}, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Printf("upstream sent junk: %s %s: %v", method, base+path, err)
		return nil, ErrMalformedReply
	}
	if !env.Success {
		return nil, &ApplicationError{Message: env.Message}
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, c.baseURL, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, c.baseURL, path, body)
}

// Login exchanges credentials for the user fields and token the session
// store persists. The name field doubles the email, matching what the
// backend expects.
func (c *Client) Login(ctx context.Context, email, password string) (*Envelope, error) {
	return c.post(ctx, "/login", map[string]string{
		"name":     email,
		"email":    email,
		"password": password,
	})
}

// AvailableCourses lists every course open for enrollment. One shared
// endpoint serves both roles here.
func (c *Client) AvailableCourses(ctx context.Context) ([]models.Course, error) {
	env, err := c.get(ctx, "/student/courses")
	if err != nil {
		return nil, err
	}
	return models.NormalizeCourses(coalesce(env.Courses, env.List)), nil
}

func (c *Client) EnrolledCourses(ctx context.Context, studentID models.FlexID) ([]models.Course, error) {
	env, err := c.post(ctx, "/student/enrolled", map[string]string{
		"studentId": studentID.String(),
	})
	if err != nil {
		return nil, err
	}
	return models.NormalizeCourses(coalesce(env.Courses, env.List)), nil
}

func (c *Client) Enroll(ctx context.Context, studentID, courseID models.FlexID) error {
	_, err := c.post(ctx, "/student/enroll", map[string]string{
		"studentId": studentID.String(),
		"courseId":  courseID.String(),
	})
	return err
}

func (c *Client) InstructorCourses(ctx context.Context, instructorID models.FlexID) ([]models.Course, error) {
	env, err := c.get(ctx, "/instructor/"+url.PathEscape(instructorID.String())+"/courses")
	if err != nil {
		return nil, err
	}
	return models.NormalizeCourses(coalesce(env.Courses, env.List)), nil
}

func (c *Client) CreateCourse(ctx context.Context, name, description string, instructorID models.FlexID) error {
	_, err := c.post(ctx, "/instructor/courses", map[string]string{
		"name":               name,
		"course_description": description,
		"instructor_id":      instructorID.String(),
	})
	return err
}

func (c *Client) UpdateCourse(ctx context.Context, courseID models.FlexID, name, description string) error {
	_, err := c.do(ctx, http.MethodPut, c.baseURL, "/instructor/courses/"+url.PathEscape(courseID.String()), map[string]string{
		"name":               name,
		"course_description": description,
	})
	return err
}

func (c *Client) DeleteCourse(ctx context.Context, courseID, instructorID models.FlexID) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL, "/instructor/courses/"+url.PathEscape(courseID.String()), map[string]string{
		"instructorId": instructorID.String(),
	})
	return err
}

// ListModules fetches a course's modules. Both roles go through the
// instructor endpoint; the student one is known broken upstream. This one
// also answers with a bare positional array rather than the envelope.
func (c *Client) ListModules(ctx context.Context, courseID models.FlexID) ([]models.Module, error) {
	env, err := c.post(ctx, "/instructor/modules", map[string]string{
		"courseId": courseID.String(),
	})
	if err != nil {
		return nil, err
	}
	return models.NormalizeModules(coalesce(env.Modules, env.List), courseID), nil
}

func (c *Client) CreateModule(ctx context.Context, courseID models.FlexID, title, contentLink string) error {
	_, err := c.post(ctx, "/instructor/courses/"+url.PathEscape(courseID.String())+"/modules", map[string]string{
		"title":       title,
		"contentLink": contentLink,
	})
	return err
}

func (c *Client) ListQuizzes(ctx context.Context, moduleID models.FlexID) ([]models.Quiz, error) {
	env, err := c.post(ctx, "/instructor/quizzes", map[string]string{
		"moduleId": moduleID.String(),
	})
	if err != nil {
		return nil, err
	}
	return models.NormalizeQuizzes(coalesce(env.Quizzes, env.List), moduleID), nil
}

// NewQuiz is the payload for CreateQuiz.
type NewQuiz struct {
	InstructorID    models.FlexID     `json:"instructorId"`
	ModuleID        models.FlexID     `json:"moduleId"`
	Title           string            `json:"title"`
	DifficultyLevel int               `json:"difficultyLevel"`
	Questions       []models.Question `json:"questions"`
}

func (c *Client) CreateQuiz(ctx context.Context, quiz NewQuiz) error {
	_, err := c.post(ctx, "/instructor/newquizzes", quiz)
	return err
}

func (c *Client) QuizQuestions(ctx context.Context, quizID models.FlexID) ([]models.Question, error) {
	env, err := c.post(ctx, "/instructor/quiz-questions", map[string]string{
		"quizId": quizID.String(),
	})
	if err != nil {
		return nil, err
	}
	return models.NormalizeQuestions(coalesce(env.Questions, env.List)), nil
}

func (c *Client) SubmitAttempt(ctx context.Context, attempt models.Attempt) error {
	_, err := c.post(ctx, "/student/attempt", attempt)
	return err
}

// Chat sends a free-text question and returns the generated reply plus the
// optional structured result block.
func (c *Client) Chat(ctx context.Context, question string) (string, json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPost, c.chatURL, "/chat", map[string]string{
		"question": question,
	})
	if err != nil {
		return "", nil, err
	}
	return env.Query, env.Result, nil
}

func coalesce(fields ...json.RawMessage) json.RawMessage {
	for _, f := range fields {
		if len(bytes.TrimSpace(f)) > 0 {
			return f
		}
	}
	return nil
}
