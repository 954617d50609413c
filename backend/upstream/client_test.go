package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlify/backend/models"
	"sqlify/backend/utils"
)

type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token() string     { return f.token }
func (f *fakeTokens) ClearToken() error { f.cleared = true; f.token = ""; return nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *fakeTokens, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	tokens := &fakeTokens{token: "tok"}
	client := NewClient(server.URL, "", 2*time.Second, tokens, utils.InitLogger())
	return client, tokens, server
}

func TestSuccessEnvelope(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"courses": []map[string]interface{}{
				{"courseId": 1, "courseName": "SQL 101"},
			},
		})
	}))

	courses, err := client.AvailableCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.FlexID("1"), courses[0].ID)
	assert.Equal(t, "SQL 101", courses[0].Name)
}

func TestApplicationError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "course not found",
		})
	}))

	_, err := client.ListModules(context.Background(), "c1")
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "course not found", appErr.Error())
}

func TestApplicationErrorDefaultMessage(t *testing.T) {
	err := &ApplicationError{}
	assert.Equal(t, "request failed", err.Error())
}

func TestTransportError(t *testing.T) {
	client, _, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.AvailableCourses(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamDown)
}

func TestMalformedReply(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not the envelope</html>`))
	}))

	_, err := client.AvailableCourses(context.Background())
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestMissingArrayBecomesEmptyResult(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))

	courses, err := client.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestUnauthorizedClearsTokenOnly(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "token expired",
		})
	}))

	_, err := client.AvailableCourses(context.Background())
	assert.Error(t, err)
	assert.True(t, tokens.cleared)
}

func TestPositionalArrayReply(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instructor/modules", r.URL.Path)
		w.Write([]byte(`[
			{"moduleId": 1, "title": "Intro", "contentLink": "https://sql.module/intro"},
			{"moduleId": 2, "title": "", "contentLink": ""}
		]`))
	}))

	modules, err := client.ListModules(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Intro", modules[0].Title)
	assert.Equal(t, models.FlexID("c1"), modules[0].CourseID)
}

func TestChatRoundTrip(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "show me all users", body["question"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"query":   "SELECT * FROM users;",
			"result":  []map[string]interface{}{{"id": 1}},
		})
	}))

	reply, result, err := client.Chat(context.Background(), "show me all users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;", reply)
	assert.NotEmpty(t, result)
}

func TestFetchIdempotence(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"courses": []map[string]interface{}{{"courseId": 1, "courseName": "SQL 101"}},
		})
	}))

	first, err := client.AvailableCourses(context.Background())
	require.NoError(t, err)
	second, err := client.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
}
