package models

import (
	"encoding/json"
	"strings"
)

// This file is the single place that knows about the backend's field-name
// variance. Every record type below lists the spellings observed in real
// responses; normalization picks the first non-empty one.

type sessionRecord struct {
	UserIDSnake FlexID `json:"user_id"`
	UserID      FlexID `json:"userId"`
	UID         FlexID `json:"uid"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	UserName    string `json:"userName"`
	Identity    string `json:"identity"`
	Role        string `json:"role"`
}

// ReadSession derives a canonical Session from whatever user record was
// persisted at login. It never fails: a missing or malformed blob yields a
// guest session.
func ReadSession(blob []byte) Session {
	var rec sessionRecord
	if len(blob) > 0 {
		_ = json.Unmarshal(blob, &rec)
	}

	s := Session{
		UserID:   firstID(rec.UserIDSnake, rec.UserID, rec.UID),
		Username: firstString(rec.Username, rec.UserName, rec.Name),
		Role:     strings.ToLower(strings.TrimSpace(firstString(rec.Identity, rec.Role))),
	}
	if s.Username == "" {
		s.Username = "Guest"
	}
	switch s.Role {
	case RoleStudent, RoleInstructor:
	default:
		s.Role = RoleGuest
	}
	return s
}

type courseRecord struct {
	ID                FlexID `json:"id"`
	CourseID          FlexID `json:"courseId"`
	Name              string `json:"name"`
	CourseName        string `json:"courseName"`
	Description       string `json:"description"`
	CourseDescription string `json:"courseDescription"`
	InstructorID      FlexID `json:"instructorId"`
	InstructorIDSnake FlexID `json:"instructor_id"`
}

// NormalizeCourses maps a courses field (array or singleton, any key
// spelling) onto the canonical list. Undecodable elements are skipped.
func NormalizeCourses(raw json.RawMessage) []Course {
	items := AsList(raw)
	courses := make([]Course, 0, len(items))
	for _, item := range items {
		var rec courseRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		courses = append(courses, Course{
			ID:           firstID(rec.CourseID, rec.ID),
			Name:         firstString(rec.CourseName, rec.Name),
			Description:  firstString(rec.CourseDescription, rec.Description),
			InstructorID: firstID(rec.InstructorID, rec.InstructorIDSnake),
		})
	}
	return courses
}

type moduleRecord struct {
	ID            FlexID `json:"id"`
	ModuleID      FlexID `json:"moduleId"`
	ModuleIDSnake FlexID `json:"module_id"`
	Title         string `json:"title"`
	Name          string `json:"name"`
	ModuleName    string `json:"moduleName"`
	ContentLink   string `json:"contentLink"`
	ContentSnake  string `json:"content_link"`
	Content       string `json:"content"`
}

// NormalizeModules keeps a record only when it has a non-empty identifier
// and at least a title or a content link; everything else is dropped
// silently. Positional (non-enveloped) arrays are handled the same way.
func NormalizeModules(raw json.RawMessage, courseID FlexID) []Module {
	items := AsList(raw)
	modules := make([]Module, 0, len(items))
	for _, item := range items {
		var rec moduleRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		m := Module{
			ID:          firstID(rec.ModuleID, rec.ModuleIDSnake, rec.ID),
			Title:       firstString(rec.Title, rec.ModuleName, rec.Name),
			ContentLink: firstString(rec.ContentLink, rec.ContentSnake, rec.Content),
			CourseID:    courseID,
		}
		if m.ID.Empty() {
			continue
		}
		if m.Title == "" && m.ContentLink == "" {
			continue
		}
		modules = append(modules, m)
	}
	return modules
}

type quizRecord struct {
	ID              FlexID  `json:"id"`
	QuizID          FlexID  `json:"quizId"`
	Title           string  `json:"title"`
	Name            string  `json:"name"`
	QuizName        string  `json:"quizName"`
	Difficulty      flexInt `json:"difficulty"`
	DifficultyLevel flexInt `json:"difficultyLevel"`
	ModuleID        FlexID  `json:"moduleId"`
}

// NormalizeQuizzes maps a quizzes field onto the canonical list, clamping
// difficulty into the 1-5 range.
func NormalizeQuizzes(raw json.RawMessage, moduleID FlexID) []Quiz {
	items := AsList(raw)
	quizzes := make([]Quiz, 0, len(items))
	for _, item := range items {
		var rec quizRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		q := Quiz{
			ID:              firstID(rec.QuizID, rec.ID),
			Title:           firstString(rec.Title, rec.QuizName, rec.Name),
			DifficultyLevel: clampDifficulty(int(firstInt(rec.DifficultyLevel, rec.Difficulty))),
			ModuleID:        firstID(rec.ModuleID, moduleID),
		}
		quizzes = append(quizzes, q)
	}
	return quizzes
}

type questionRecord struct {
	ID               FlexID `json:"id"`
	QuestionID       FlexID `json:"questionId"`
	Text             string `json:"text"`
	Question         string `json:"question"`
	QuestionText     string `json:"questionText"`
	Answer           string `json:"answer"`
	CorrectAnswer    string `json:"correctAnswer"`
	CorrectAnsSnake  string `json:"correct_answer"`
}

func NormalizeQuestions(raw json.RawMessage) []Question {
	items := AsList(raw)
	questions := make([]Question, 0, len(items))
	for _, item := range items {
		var rec questionRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		questions = append(questions, Question{
			ID:            firstID(rec.QuestionID, rec.ID),
			Text:          firstString(rec.QuestionText, rec.Text, rec.Question),
			CorrectAnswer: firstString(rec.CorrectAnswer, rec.CorrectAnsSnake, rec.Answer),
		})
	}
	return questions
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

func firstID(ids ...FlexID) FlexID {
	for _, id := range ids {
		if !id.Empty() {
			return id
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...flexInt) flexInt {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
