package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp/internal/config"
	"eventapp/internal/model"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	cfg := config.SessionConfig{CookieName: "eventapp_session", Expiration: time.Hour}
	return NewManager(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

// signIn runs one request through the manager and returns the session cookie.
func signIn(t *testing.T, app *fiber.App, m *Manager, result model.LoginResult) *http.Cookie {
	t.Helper()
	app.Post("/test-signin", func(c *fiber.Ctx) error {
		require.NoError(t, m.SignIn(c, result))
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/test-signin", nil))
	require.NoError(t, err)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "eventapp_session" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	m := testManager(t)
	app := fiber.New()
	app.Get("/dashboard", m.RequireUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireUserPassesSignedIn(t *testing.T) {
	m := testManager(t)
	app := fiber.New()
	app.Get("/dashboard", m.RequireUser(), func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		return c.SendString(sess.Role)
	})

	cookie := signIn(t, app, m, model.LoginResult{
		Token: signedToken(t, time.Now().Add(time.Hour)),
		Role:  model.RoleUser,
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, model.RoleUser, string(body))
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	m := testManager(t)
	app := fiber.New()
	app.Get("/admin", m.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cookie := signIn(t, app, m, model.LoginResult{
		Token: signedToken(t, time.Now().Add(time.Hour)),
		Role:  model.RoleUser,
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestExpiredTokenCountsAsSignedOut(t *testing.T) {
	m := testManager(t)
	app := fiber.New()
	app.Get("/dashboard", m.RequireUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cookie := signIn(t, app, m, model.LoginResult{
		Token: signedToken(t, time.Now().Add(-time.Minute)),
		Role:  model.RoleUser,
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Minute)), now))
	// Opaque tokens are the server's problem, not ours.
	assert.False(t, tokenExpired("not-a-jwt", now))
}

func TestFlashPopsOnce(t *testing.T) {
	m := testManager(t)
	app := fiber.New()
	app.Post("/set", func(c *fiber.Ctx) error {
		m.SetFlash(c, "success", "Event created")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/take", func(c *fiber.Ctx) error {
		flash := m.TakeFlash(c)
		if flash == nil {
			return c.SendString("none")
		}
		return c.SendString(flash.Kind + ":" + flash.Text)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/set", nil))
	require.NoError(t, err)
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "eventapp_session" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/take", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "success:Event created", string(body))

	req = httptest.NewRequest(http.MethodGet, "/take", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "none", string(body))
}
