package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadSessionDefaultsToGuest(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(`{}`),
		[]byte(`not json at all`),
		[]byte(`{"user_id": 7, "username": "ann"}`),
		[]byte(`{"identity": "Superuser"}`),
	}
	for _, blob := range cases {
		sess := ReadSession(blob)
		assert.Equal(t, RoleGuest, sess.Role, "blob %q", blob)
	}
}

func TestReadSessionNormalizesVariants(t *testing.T) {
	sess := ReadSession([]byte(`{"user_id": 42, "userName": "bob", "identity": "Instructor"}`))
	assert.Equal(t, FlexID("42"), sess.UserID)
	assert.Equal(t, "bob", sess.Username)
	assert.Equal(t, RoleInstructor, sess.Role)

	sess = ReadSession([]byte(`{"uid": "abc", "name": "carol", "role": "STUDENT"}`))
	assert.Equal(t, FlexID("abc"), sess.UserID)
	assert.Equal(t, "carol", sess.Username)
	assert.Equal(t, RoleStudent, sess.Role)

	sess = ReadSession([]byte(`{"identity": "student"}`))
	assert.Equal(t, "Guest", sess.Username)
	assert.True(t, sess.UserID.Empty())
}

func TestNormalizeCoursesAlternateKeys(t *testing.T) {
	raw := json.RawMessage(`[
		{"courseId": 1, "courseName": "SQL 101", "courseDescription": "intro"},
		{"id": "2", "name": "Joins", "description": "", "instructor_id": 9}
	]`)
	courses := NormalizeCourses(raw)
	assert.Len(t, courses, 2)
	assert.Equal(t, Course{ID: "1", Name: "SQL 101", Description: "intro"}, courses[0])
	assert.Equal(t, Course{ID: "2", Name: "Joins", InstructorID: "9"}, courses[1])
}

func TestNormalizeCoursesSingletonCoercion(t *testing.T) {
	courses := NormalizeCourses(json.RawMessage(`{"courseId": 3, "courseName": "One"}`))
	assert.Len(t, courses, 1)
	assert.Equal(t, FlexID("3"), courses[0].ID)

	assert.Empty(t, NormalizeCourses(nil))
	assert.Empty(t, NormalizeCourses(json.RawMessage(`null`)))
}

func TestNormalizeModulesDropsIncompleteRecords(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": 5, "title": "", "content_link": ""},
		{"id": 5, "title": "", "content_link": "x"},
		{"id": "", "title": "orphan", "content_link": "y"},
		{"moduleId": 6, "moduleName": "Joins", "content": "https://sql.module/joins"}
	]`)
	modules := NormalizeModules(raw, "c1")
	assert.Len(t, modules, 2)
	assert.Equal(t, FlexID("5"), modules[0].ID)
	assert.Equal(t, "x", modules[0].ContentLink)
	assert.Equal(t, "Joins", modules[1].Title)
	assert.Equal(t, FlexID("c1"), modules[1].CourseID)
}

func TestNormalizeQuizzesClampsDifficulty(t *testing.T) {
	raw := json.RawMessage(`[
		{"quizId": 1, "quizName": "Basics", "difficultyLevel": 9},
		{"id": 2, "title": "Syntax", "difficulty": "3"},
		{"id": 3, "name": "Untagged"}
	]`)
	quizzes := NormalizeQuizzes(raw, "m1")
	assert.Len(t, quizzes, 3)
	assert.Equal(t, 5, quizzes[0].DifficultyLevel)
	assert.Equal(t, 3, quizzes[1].DifficultyLevel)
	assert.Equal(t, 1, quizzes[2].DifficultyLevel)
	assert.Equal(t, FlexID("m1"), quizzes[2].ModuleID)
}

func TestNormalizeQuestionsAlternateKeys(t *testing.T) {
	raw := json.RawMessage(`[
		{"questionId": 1, "questionText": "What does SQL stand for?", "correct_answer": "Structured Query Language"},
		{"id": 2, "text": "Which clause filters rows?", "answer": "WHERE"}
	]`)
	questions := NormalizeQuestions(raw)
	assert.Len(t, questions, 2)
	assert.Equal(t, "Structured Query Language", questions[0].CorrectAnswer)
	assert.Equal(t, "WHERE", questions[1].CorrectAnswer)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := json.RawMessage(`[{"courseId": 1, "courseName": "SQL 101"}]`)
	first := NormalizeCourses(raw)
	second := NormalizeCourses(raw)
	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
}

func TestFlexIDAcceptsStringAndNumber(t *testing.T) {
	var payload struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a": "x1", "b": 42, "c": null}`), &payload)
	assert.NoError(t, err)
	assert.Equal(t, FlexID("x1"), payload.A)
	assert.Equal(t, FlexID("42"), payload.B)
	assert.True(t, payload.C.Empty())

	out, err := json.Marshal(payload)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a": "x1", "b": "42", "c": ""}`, string(out))
}

func TestAsListMalformedInput(t *testing.T) {
	assert.Nil(t, AsList(json.RawMessage(`[broken`)))
	assert.Len(t, AsList(json.RawMessage(`{"id": 1}`)), 1)
}
