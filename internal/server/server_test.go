package server

import (
	"context"
	"ctchen222/Workout-Log/internal/api/controller"
	"ctchen222/Workout-Log/internal/api/repository"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/db"
	"ctchen222/Workout-Log/internal/routine"
	"ctchen222/Workout-Log/internal/session"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testApp struct {
	t   *testing.T
	db  *sqlx.DB
	srv *httptest.Server
}

type appOptions struct {
	multiUser         bool
	ownerScopedDelete bool
	routinePath       string
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	ctx := context.Background()

	mode := db.SingleUser
	if opts.multiUser {
		mode = db.MultiUser
	}
	pool, err := db.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	require.NoError(t, db.InitializeDB(ctx, pool, mode))

	if opts.routinePath == "" {
		opts.routinePath = filepath.Join(t.TempDir(), "missing.json")
	}

	sessions := session.NewManager(session.NewCookieStore([]byte("test-session-secret"), time.Hour))
	authService := service.NewAuthService(repository.NewUserRepository(pool), []byte("test-jwt-secret"), time.Hour)
	workoutService := service.NewWorkoutService(repository.NewWorkoutRepository(pool), opts.ownerScopedDelete)

	srv, err := NewServer(Deps{
		AuthService: authService,
		Sessions:    sessions,
		MultiUser:   opts.multiUser,
		Auth:        controller.NewAuthController(authService, sessions),
		Workouts:    controller.NewWorkoutController(workoutService, sessions, opts.multiUser),
		Routine:     controller.NewRoutineController(routine.Load(ctx, opts.routinePath)),
		Health:      controller.NewHealthController(pool),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return &testApp{t: t, db: pool, srv: ts}
}

// browser returns a client with its own cookie jar that does not follow redirects.
func (a *testApp) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(c *http.Client, path string) (*http.Response, string) {
	a.t.Helper()
	resp, err := c.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	return resp, readBody(a.t, resp)
}

func (a *testApp) postForm(c *http.Client, path string, form url.Values) (*http.Response, string) {
	a.t.Helper()
	resp, err := c.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	return resp, readBody(a.t, resp)
}

func (a *testApp) login(username, password string) *http.Client {
	a.t.Helper()
	c := a.browser()
	resp, _ := a.postForm(c, "/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(a.t, http.StatusFound, resp.StatusCode)
	require.Equal(a.t, "/", resp.Header.Get("Location"))
	return c
}

func (a *testApp) countWorkouts() int {
	a.t.Helper()
	var n int
	require.NoError(a.t, a.db.Get(&n, "SELECT COUNT(*) FROM entrenamientos"))
	return n
}

func (a *testApp) workoutID(ejercicio string) int64 {
	a.t.Helper()
	var id int64
	require.NoError(a.t, a.db.Get(&id, "SELECT id FROM entrenamientos WHERE tipo_ejercicio = ?", ejercicio))
	return id
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func workoutForm(ejercicio string) url.Values {
	return url.Values{
		"fecha":        {"2024-05-01"},
		"ejercicio":    {ejercicio},
		"series":       {"4"},
		"repeticiones": {"10"},
		"peso":         {"60"},
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "juan", "0000"},
		{"unknown user", "pedro", "1234"},
		{"empty form", "", ""},
		{"case sensitive username", "Juan", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := app.browser()
			resp, body := app.postForm(c, "/login", url.Values{"username": {tt.username}, "password": {tt.password}})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, controller.InvalidCredentialsMessage, body)

			resp, _ = app.get(c, "/")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/login", resp.Header.Get("Location"))
		})
	}
}

func TestLogin_SeededUsersReachProtectedPages(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})

	for _, username := range []string{"juan", "marcio"} {
		c := app.login(username, "1234")

		resp, body := app.get(c, "/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, username)

		resp, _ = app.get(c, "/rutina")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestProtectedRoutes_RedirectWithoutSession(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	c := app.browser()

	for _, path := range []string{"/", "/rutina", "/logout"} {
		resp, _ := app.get(c, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, _ := app.postForm(c, "/agregar", workoutForm("Sentadilla"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Zero(t, app.countWorkouts())
}

func TestLogout_EndsSession(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	c := app.login("juan", "1234")

	resp, _ := app.get(c, "/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = app.get(c, "/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSession_StaleUserForcesLogin(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	c := app.login("marcio", "1234")

	_, err := app.db.Exec("DELETE FROM users WHERE username = ?", "marcio")
	require.NoError(t, err)

	resp, _ := app.get(c, "/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAdd_RecordsAreScopedToOwner(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	juan := app.login("juan", "1234")
	marcio := app.login("marcio", "1234")

	resp, _ := app.postForm(juan, "/agregar", workoutForm("Sentadilla"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, app.countWorkouts())

	_, body := app.get(juan, "/")
	assert.Contains(t, body, "Sentadilla")
	assert.Contains(t, body, "2024-05-01")

	_, body = app.get(marcio, "/")
	assert.NotContains(t, body, "Sentadilla")
}

func TestAdd_MissingOrInvalidFieldCreatesNothing(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	c := app.login("juan", "1234")

	for _, field := range []string{"fecha", "ejercicio", "series", "repeticiones", "peso"} {
		form := workoutForm("Press banca")
		form.Del(field)
		resp, _ := app.postForm(c, "/agregar", form)
		assert.Equal(t, http.StatusFound, resp.StatusCode, field)
	}

	form := workoutForm("Press banca")
	form.Set("peso", "mucho")
	app.postForm(c, "/agregar", form)

	assert.Zero(t, app.countWorkouts())

	_, body := app.get(c, "/")
	assert.Contains(t, body, controller.MissingDataMessage)

	// Flashes are shown once.
	_, body = app.get(c, "/")
	assert.NotContains(t, body, controller.MissingDataMessage)
}

func TestDelete_AnyRecordAndUnknownID(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})
	juan := app.login("juan", "1234")
	marcio := app.login("marcio", "1234")

	app.postForm(juan, "/agregar", workoutForm("Peso muerto"))
	app.postForm(juan, "/agregar", workoutForm("Remo"))
	require.Equal(t, 2, app.countWorkouts())

	resp, _ := app.postForm(marcio, "/eliminar", url.Values{"id": {"9999"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 2, app.countWorkouts())

	resp, _ = app.postForm(marcio, "/eliminar", url.Values{"id": {"abc"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 2, app.countWorkouts())

	id := app.workoutID("Peso muerto")
	resp, _ = app.postForm(marcio, "/eliminar", url.Values{"id": {formatID(id)}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, app.countWorkouts())

	_, body := app.get(juan, "/")
	assert.NotContains(t, body, "Peso muerto")
	assert.Contains(t, body, "Remo")
}

func TestDelete_OwnerScoped(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true, ownerScopedDelete: true})
	juan := app.login("juan", "1234")
	marcio := app.login("marcio", "1234")

	app.postForm(juan, "/agregar", workoutForm("Dominadas"))
	id := formatID(app.workoutID("Dominadas"))

	app.postForm(marcio, "/eliminar", url.Values{"id": {id}})
	assert.Equal(t, 1, app.countWorkouts())

	app.postForm(juan, "/eliminar", url.Values{"id": {id}})
	assert.Zero(t, app.countWorkouts())
}

func TestRoutine(t *testing.T) {
	t.Run("missing file serves an empty list", func(t *testing.T) {
		app := newTestApp(t, appOptions{})
		resp, body := app.get(app.browser(), "/api/rutina")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, body)
	})

	t.Run("document is served verbatim", func(t *testing.T) {
		doc := `{"Lunes": ["Sentadilla 4x8", "Press banca 4x8"]}`
		path := filepath.Join(t.TempDir(), "rutina.json")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		app := newTestApp(t, appOptions{routinePath: path})
		_, body := app.get(app.browser(), "/api/rutina")
		assert.Equal(t, doc, body)

		resp, body := app.get(app.browser(), "/rutina")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Sentadilla 4x8")
	})
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func (a *testApp) api(method, path, token, body string) (int, apiEnvelope) {
	a.t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)

	var env apiEnvelope
	require.NoError(a.t, json.Unmarshal([]byte(readBody(a.t, resp)), &env))
	return resp.StatusCode, env
}

func TestAPI_TokenFlow(t *testing.T) {
	app := newTestApp(t, appOptions{multiUser: true})

	status, _ := app.api(http.MethodPost, "/api/login", "", `{"username":"juan","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := app.api(http.MethodPost, "/api/login", "", `{"username":"juan","password":"1234"}`)
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &login))
	require.NotEmpty(t, login.Token)

	status, _ = app.api(http.MethodGet, "/api/entrenamientos", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = app.api(http.MethodGet, "/api/entrenamientos", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = app.api(http.MethodPost, "/api/entrenamientos", login.Token, `{"fecha":"2024-05-01","ejercicio":"Fondos"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, app.countWorkouts())

	status, env = app.api(http.MethodPost, "/api/entrenamientos", login.Token,
		`{"fecha":"2024-05-01","ejercicio":"Fondos","series":3,"repeticiones":12,"peso":0}`)
	require.Equal(t, http.StatusOK, status)
	var created struct {
		ID        int64  `json:"id"`
		Ejercicio string `json:"ejercicio"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &created))
	assert.Equal(t, "Fondos", created.Ejercicio)

	status, env = app.api(http.MethodGet, "/api/entrenamientos", login.Token, "")
	require.Equal(t, http.StatusOK, status)
	var list struct {
		List []struct {
			ID int64 `json:"id"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &list))
	require.Len(t, list.List, 1)
	assert.Equal(t, created.ID, list.List[0].ID)

	status, _ = app.api(http.MethodDelete, "/api/entrenamientos/abc", login.Token, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = app.api(http.MethodDelete, "/api/entrenamientos/"+formatID(created.ID), login.Token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Zero(t, app.countWorkouts())

	status, _ = app.api(http.MethodDelete, "/api/entrenamientos/9999", login.Token, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestSingleUserMode(t *testing.T) {
	app := newTestApp(t, appOptions{})
	c := app.browser()

	resp, _ := app.get(c, "/login")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := app.get(c, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "/logout")

	resp, _ = app.postForm(c, "/agregar", workoutForm("Curl"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, app.countWorkouts())

	_, body = app.get(c, "/")
	assert.Contains(t, body, "Curl")

	status, env := app.api(http.MethodGet, "/api/entrenamientos", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	app.postForm(c, "/eliminar", url.Values{"id": {formatID(app.workoutID("Curl"))}})
	assert.Zero(t, app.countWorkouts())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp, body := app.get(app.browser(), "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	require.NoError(t, app.db.Close())
	resp, _ = app.get(app.browser(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp, _ := app.get(app.browser(), "/healthz")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
