package models

// Role values a Session can carry. Anything the backend sends that is not
// recognized collapses to guest.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleGuest      = "guest"
)

// Session is the canonical identity derived from the persisted user record.
// It is rebuilt on every read; nothing mutates one in place.
type Session struct {
	UserID   FlexID `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s Session) IsStudent() bool    { return s.Role == RoleStudent }
func (s Session) IsInstructor() bool { return s.Role == RoleInstructor }

type Course struct {
	ID           FlexID `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	InstructorID FlexID `json:"instructorId,omitempty"`
}

type Module struct {
	ID          FlexID `json:"id"`
	Title       string `json:"title"`
	ContentLink string `json:"contentLink"`
	CourseID    FlexID `json:"courseId"`
}

type Quiz struct {
	ID              FlexID `json:"id"`
	Title           string `json:"title"`
	DifficultyLevel int    `json:"difficultyLevel"`
	ModuleID        FlexID `json:"moduleId"`
}

type Question struct {
	ID            FlexID `json:"id"`
	Text          string `json:"text"`
	CorrectAnswer string `json:"correctAnswer"`
}

// AttemptAnswer is one entry of the ordered answer sequence a student
// submits for a quiz.
type AttemptAnswer struct {
	QuestionID FlexID `json:"questionId"`
	Answer     string `json:"answer"`
}

type Attempt struct {
	StudentID FlexID          `json:"studentId"`
	Answers   []AttemptAnswer `json:"answers"`
}

// ChatMessage is one transcript entry. IsResult marks the optional
// structured-data block that can follow a bot reply.
type ChatMessage struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	IsResult bool   `json:"isResult,omitempty"`
}
