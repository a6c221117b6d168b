package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"kalender/config"
	"kalender/services"
	"kalender/store"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		HTTP: config.HTTPConfig{Address: ":0", Timeout: time.Second},
		JWT: config.JWTConfig{
			Secret:        "access",
			RefreshSecret: "refresh",
			Issuer:        "kalender",
			AccessTTL:     time.Hour,
			RefreshTTL:    24 * time.Hour,
		},
	}
	log := zaptest.NewLogger(t)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	svc := services.New(store.NewMemory(), services.NewTokenIssuer(cfg.JWT), log,
		services.WithClock(func() time.Time { return now }))
	router, err := NewRouter(cfg, log, svc)
	require.NoError(t, err)
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (a *apiClient) doList(method, path, token string) []map[string]any {
	a.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var out []map[string]any
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signup registers and logs in a user, returning its id and access token.
func (a *apiClient) signup(username, dob string) (string, string) {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"name":            username + " Tester",
		"email":           username + "@example.com",
		"username":        username,
		"dateOfBirth":     dob,
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, code, body)

	code, body = a.do(http.MethodPost, "/auth/signin", "", map[string]any{
		"identifier": username,
		"password":   "secret123",
	})
	require.Equal(a.t, http.StatusOK, code, body)
	user := body["user"].(map[string]any)
	assert.NotContains(a.t, user, "password")
	token := body["token"].(map[string]any)
	return user["id"].(string), token["accessToken"].(string)
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	code, body := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	_, access := api.signup("ada", "1990-12-10T00:00:00Z")

	code, body := api.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"name": "Other", "email": "ada@example.com", "username": "other",
		"dateOfBirth": "1991-01-01T00:00:00Z", "password": "secret123", "confirmPassword": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code, body)

	code, body = api.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"name": "Bad", "email": "bad@example.com", "username": "bad name",
		"dateOfBirth": "1991-01-01T00:00:00Z", "password": "secret123", "confirmPassword": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, _ = api.do(http.MethodPost, "/auth/signin", "", map[string]any{"identifier": "ada", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.do(http.MethodPost, "/auth/signin", "", map[string]any{"identifier": "ghost", "password": "secret123"})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = api.do(http.MethodGet, "/user/me", access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ada", body["username"])

	code, _ = api.do(http.MethodGet, "/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = api.do(http.MethodPost, "/auth/signin", "", map[string]any{"identifier": "ada@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	refresh := body["token"].(map[string]any)["refreshToken"].(string)

	code, body = api.do(http.MethodPost, "/auth/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, code, body)
	rotated := body["token"].(map[string]any)

	code, _ = api.do(http.MethodPost, "/auth/signout", rotated["accessToken"].(string), nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, "/auth/refresh", rotated["refreshToken"].(string), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSharingFlow(t *testing.T) {
	api := newAPI(t)
	adaID, ada := api.signup("ada", "1990-12-10T00:00:00Z")
	bobID, bob := api.signup("bob", "1985-03-03T00:00:00Z")

	code, body := api.do(http.MethodPost, "/users/"+bobID+"/follow", ada, nil)
	require.Equal(t, http.StatusOK, code, body)

	followers := api.doList(http.MethodGet, "/users/"+bobID+"/followers", bob)
	require.Len(t, followers, 1)
	assert.Equal(t, adaID, followers[0]["id"])

	code, list := api.do(http.MethodPost, "/lists", ada, map[string]any{
		"name":          "Groceries",
		"visibility":    "private",
		"color":         "#ff8800",
		"usersToInvite": []string{bobID},
	})
	require.Equal(t, http.StatusCreated, code, list)
	listID := list["id"].(string)

	code, _ = api.do(http.MethodPost, "/lists/"+listID+"/tasks", bob, map[string]any{
		"title": "Milk", "dueDate": "2026-11-20T00:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, code, "not a member before accepting")

	notes := api.doList(http.MethodGet, "/notifications", bob)
	var invitationID string
	for _, n := range notes {
		if n["type"] == "task_list_invitation" {
			invitationID = n["id"].(string)
		}
	}
	require.NotEmpty(t, invitationID)

	code, body = api.do(http.MethodGet, "/notifications/unread-count", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["unread"])

	code, body = api.do(http.MethodPost, "/notifications/"+invitationID+"/accept", bob, nil)
	require.Equal(t, http.StatusOK, code, body)

	code, task := api.do(http.MethodPost, "/lists/"+listID+"/tasks", bob, map[string]any{
		"title": "Milk", "dueDate": "2026-11-20T00:00:00Z", "time": "08:15",
	})
	require.Equal(t, http.StatusCreated, code, task)
	taskID := task["id"].(string)

	code, _ = api.do(http.MethodPost, "/lists/"+listID+"/tasks", bob, map[string]any{
		"title": "Bad", "dueDate": "2026-11-20T00:00:00Z", "time": "8am",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, task = api.do(http.MethodPost, "/tasks/"+taskID+"/toggle", ada, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, task["isCompleted"])

	code, body = api.do(http.MethodGet, "/calendar/day?date=2026-11-20", ada, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["tasks"], 1)

	code, _ = api.do(http.MethodGet, "/calendar?month=October", ada, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodDelete, "/lists/"+listID, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	responses := api.doList(http.MethodGet, "/notifications", ada)
	require.NotEmpty(t, responses)
	assert.Equal(t, "invitation_response", responses[0]["type"])

	code, body = api.do(http.MethodPost, "/notifications/read-all", ada, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["removed"])

	code, _ = api.do(http.MethodDelete, "/lists/"+listID, ada, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, "/tasks/"+taskID, ada, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStartServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartServer(ctx, config.HTTPConfig{Address: "127.0.0.1:0", Timeout: time.Second}, zap.NewNop(), http.NotFoundHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStore(ctx, config.StoreConfig{Driver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(ctx, config.StoreConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/k.db"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	_, err = OpenStore(ctx, config.StoreConfig{Driver: "firestore"}, zap.NewNop())
	assert.Error(t, err)

	_, err = OpenStore(ctx, config.StoreConfig{Driver: "redis"}, zap.NewNop())
	assert.Error(t, err)
}
