package http_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	notehttp "github.com/kinotes/kinotes/internal/notes/http"
	"github.com/kinotes/kinotes/internal/notes/service"
	"github.com/kinotes/kinotes/internal/notes/store/drivers/sqlite"
	"github.com/kinotes/kinotes/pkg/jwtx"
	"github.com/kinotes/kinotes/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	signer, err := jwtx.NewHS256(secret)
	require.NoError(t, err)

	tokens := &service.TokenService{Signer: signer, TTL: time.Hour}
	auth, err := service.NewAuthService(st, tokens)
	require.NoError(t, err)
	notes := &service.NoteService{Store: st}

	router := notehttp.NewRouter("test", st, slogx.New(slogx.Config{Level: "error"}))
	router.AuthService = auth
	router.NoteService = notes
	router.ReminderService = &service.ReminderService{Store: st, Notes: notes}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func (c *apiClient) decode(data []byte, v any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(data, v))
}

func TestAuthAndNotesFlow(t *testing.T) {
	srv := newTestServer(t)
	client := &apiClient{t: t, base: srv.URL}

	var registered struct {
		Token    string `json:"token"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}

	t.Run("register issues a usable token", func(t *testing.T) {
		resp, body := client.do(http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		client.decode(body, &registered)
		require.NotEmpty(t, registered.Token)
		require.Equal(t, "alice", registered.Username)
		require.Equal(t, "owner", registered.Role)
	})

	t.Run("duplicate registration rejected", func(t *testing.T) {
		resp, body := client.do(http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice",
			"email":    "other@example.com",
			"password": "pw",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errBody struct {
			Message string `json:"message"`
		}
		client.decode(body, &errBody)
		require.Equal(t, "Username already exists", errBody.Message)
	})

	t.Run("wrong password gets the generic message", func(t *testing.T) {
		resp, body := client.do(http.MethodPost, "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errBody struct {
			Message string `json:"message"`
		}
		client.decode(body, &errBody)
		require.Equal(t, "Invalid username or password", errBody.Message)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		resp, body := client.do(http.MethodPost, "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var logged struct {
			Token string `json:"token"`
		}
		client.decode(body, &logged)
		client.token = logged.Token
	})

	var noteID string

	t.Run("notes CRUD with bearer token", func(t *testing.T) {
		resp, body := client.do(http.MethodPost, "/api/notes", map[string]any{
			"title":     "Groceries",
			"content":   "milk, eggs",
			"imageUrls": []string{"https://img.example.com/list.png"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			ID        string   `json:"id"`
			Title     string   `json:"title"`
			ImageURLs []string `json:"imageUrls"`
		}
		client.decode(body, &created)
		require.NotEmpty(t, created.ID)
		require.Len(t, created.ImageURLs, 1)
		noteID = created.ID

		resp, body = client.do(http.MethodGet, "/api/notes", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list []json.RawMessage
		client.decode(body, &list)
		require.Len(t, list, 1)

		resp, _ = client.do(http.MethodPut, "/api/notes/"+noteID, map[string]string{
			"title":   "Groceries v2",
			"content": "milk, eggs, bread",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = client.do(http.MethodGet, "/api/notes/search?title=v2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		client.decode(body, &list)
		require.Len(t, list, 1)
	})

	t.Run("reminders follow their note", func(t *testing.T) {
		remindAt := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
		resp, body := client.do(http.MethodPost, "/api/notes/"+noteID+"/reminders", map[string]any{
			"remindAt": remindAt,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var rem struct {
			ID        string `json:"id"`
			Triggered bool   `json:"triggered"`
		}
		client.decode(body, &rem)
		require.False(t, rem.Triggered)

		resp, _ = client.do(http.MethodDelete, "/api/reminders/"+rem.ID, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("delete note", func(t *testing.T) {
		resp, _ := client.do(http.MethodDelete, "/api/notes/"+noteID, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = client.do(http.MethodGet, "/api/notes/"+noteID, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv := newTestServer(t)
	client := &apiClient{t: t, base: srv.URL}

	t.Run("no token", func(t *testing.T) {
		resp, _ := client.do(http.MethodGet, "/api/notes", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("garbage token", func(t *testing.T) {
		client.token = "not.a.jwt"
		resp, _ := client.do(http.MethodGet, "/api/notes", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("health endpoints stay open", func(t *testing.T) {
		client.token = ""
		resp, _ := client.do(http.MethodGet, "/livez", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = client.do(http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
