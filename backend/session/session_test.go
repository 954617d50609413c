package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlify/backend/models"
	"sqlify/backend/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	local, err := storage.Open(filepath.Join(t.TempDir(), "sqlify.db"))
	require.NoError(t, err)
	return NewStore(local)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("testsecret"))
	require.NoError(t, err)
	return signed
}

func TestGetWithoutLoginIsGuest(t *testing.T) {
	store := newTestStore(t)
	sess := store.Get()
	assert.Equal(t, models.RoleGuest, sess.Role)
	assert.Equal(t, "Guest", sess.Username)
	assert.Empty(t, store.Token())
}

func TestSetThenGetDerivesFreshSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set([]byte(`{"user_id": 7, "username": "ann", "identity": "Student"}`), "tok123"))

	sess := store.Get()
	assert.Equal(t, models.FlexID("7"), sess.UserID)
	assert.Equal(t, "ann", sess.Username)
	assert.Equal(t, models.RoleStudent, sess.Role)
	assert.Equal(t, "tok123", store.Token())
}

func TestClearWipesEverything(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set([]byte(`{"user_id": 7, "identity": "student"}`), "tok"))
	require.NoError(t, store.Clear())

	assert.Equal(t, models.RoleGuest, store.Get().Role)
	assert.Empty(t, store.Token())
}

func TestClearTokenKeepsUserRecord(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set([]byte(`{"user_id": 7, "username": "ann", "identity": "student"}`), "tok"))
	require.NoError(t, store.ClearToken())

	assert.Empty(t, store.Token())
	sess := store.Get()
	assert.Equal(t, "ann", sess.Username)
	assert.Equal(t, models.RoleStudent, sess.Role)
}

func TestSubscribeHearsLoginAndLogout(t *testing.T) {
	store := newTestStore(t)
	var seen []string
	store.Subscribe(func(s models.Session) {
		seen = append(seen, s.Role)
	})

	require.NoError(t, store.Set([]byte(`{"user_id": 1, "identity": "instructor"}`), "tok"))
	require.NoError(t, store.Clear())

	assert.Equal(t, []string{models.RoleInstructor, models.RoleGuest}, seen)
}

func TestTokenExpiryPeek(t *testing.T) {
	store := newTestStore(t)

	expired := signedToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, store.Set([]byte(`{"user_id": 1}`), expired))
	assert.Empty(t, store.Token())

	live := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Set([]byte(`{"user_id": 1}`), live))
	assert.Equal(t, live, store.Token())
}

func TestOpaqueTokenPassesThrough(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set([]byte(`{"user_id": 1}`), "not-a-jwt"))
	assert.Equal(t, "not-a-jwt", store.Token())
}
