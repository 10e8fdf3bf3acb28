package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalist/internal/domain/entity"
)

type mockSignup struct {
	users []*entity.User
	err   error
}

func (m *mockSignup) SendSignUpEmail(_ context.Context, user *entity.User) error {
	m.users = append(m.users, user)
	return m.err
}

// newSyncEventsHandler dispatches synchronously so tests can assert on
// the captured user without racing the background goroutine.
func newSyncEventsHandler(signup *mockSignup) *EventsHandler {
	h := NewEventsHandler(signup, slog.Default())
	h.dispatch = func(user *entity.User) {
		_ = signup.SendSignUpEmail(context.Background(), user)
	}
	return h
}

func TestEventsHandler_AcceptsValidEvent(t *testing.T) {
	signup := &mockSignup{}
	handler := newSyncEventsHandler(signup)

	body := `{
		"email": "alice@example.com",
		"name": "Alice",
		"country": "US",
		"investmentGoals": "Growth",
		"riskTolerance": "Medium",
		"preferredIndustry": "Technology"
	}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/user-created", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, rec.Body.String())

	require.Len(t, signup.users, 1)
	user := signup.users[0]
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "Technology", user.PreferredIndustry)
}

func TestEventsHandler_TrimsFields(t *testing.T) {
	signup := &mockSignup{}
	handler := newSyncEventsHandler(signup)

	body := `{"email": "  bob@example.com ", "name": " Bob "}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/user-created", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, signup.users, 1)
	assert.Equal(t, "bob@example.com", signup.users[0].Email)
	assert.Equal(t, "Bob", signup.users[0].Name)
}

func TestEventsHandler_InvalidJSON(t *testing.T) {
	signup := &mockSignup{}
	handler := newSyncEventsHandler(signup)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/user-created", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, signup.users)
}

func TestEventsHandler_InvalidEmail(t *testing.T) {
	signup := &mockSignup{}
	handler := newSyncEventsHandler(signup)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/user-created", strings.NewReader(`{"email":"not-an-email"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, signup.users)
}

func TestEventsHandler_MethodNotAllowed(t *testing.T) {
	handler := newSyncEventsHandler(&mockSignup{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/user-created", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
