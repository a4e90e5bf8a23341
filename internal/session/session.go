package session

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/golang-jwt/jwt/v5"

	"eventapp/internal/config"
	"eventapp/internal/model"
)

const (
	keyToken     = "token"
	keyRole      = "role"
	keyFlashKind = "flash_kind"
	keyFlashText = "flash_text"

	localsKey = "session"
)

// Session is the browser session's view of the signed-in user: the bearer
// token presented to the API and the role returned at login.
type Session struct {
	Token string
	Role  string
}

func (s Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// Flash is a one-shot feedback banner carried across a redirect.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

type Manager struct {
	store  *fibersession.Store
	logger *slog.Logger
}

func NewManager(cfg config.SessionConfig, logger *slog.Logger) *Manager {
	store := fibersession.New(fibersession.Config{
		KeyLookup:      "cookie:" + cfg.CookieName,
		Expiration:     cfg.Expiration,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
	})
	return &Manager{store: store, logger: logger}
}

// Current returns the signed-in session, if any. A token that is already
// past its expiry claim counts as signed out.
func (m *Manager) Current(c *fiber.Ctx) (Session, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		m.logger.Error("failed to load session", "error", err)
		return Session{}, false
	}
	token, _ := sess.Get(keyToken).(string)
	role, _ := sess.Get(keyRole).(string)
	if token == "" {
		return Session{}, false
	}
	if tokenExpired(token, time.Now()) {
		if err := sess.Destroy(); err != nil {
			m.logger.Error("failed to destroy expired session", "error", err)
		}
		return Session{}, false
	}
	return Session{Token: token, Role: role}, true
}

func (m *Manager) SignIn(c *fiber.Ctx, result model.LoginResult) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyToken, result.Token)
	sess.Set(keyRole, result.Role)
	return sess.Save()
}

func (m *Manager) Clear(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// RequireUser gates authenticated routes: no session means a redirect to the
// login page, with no data fetch attempted.
func (m *Manager) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := m.Current(c)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		c.Locals(localsKey, current)
		return c.Next()
	}
}

// RequireAdmin additionally checks the session role. Non-admins land on
// their own dashboard rather than an error page.
func (m *Manager) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := m.Current(c)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !current.IsAdmin() {
			return c.Redirect("/dashboard", fiber.StatusFound)
		}
		c.Locals(localsKey, current)
		return c.Next()
	}
}

// FromCtx returns the session placed by RequireUser / RequireAdmin.
func FromCtx(c *fiber.Ctx) Session {
	if s, ok := c.Locals(localsKey).(Session); ok {
		return s
	}
	return Session{}
}

func (m *Manager) SetFlash(c *fiber.Ctx, kind, text string) {
	sess, err := m.store.Get(c)
	if err != nil {
		m.logger.Error("failed to load session for flash", "error", err)
		return
	}
	sess.Set(keyFlashKind, kind)
	sess.Set(keyFlashText, text)
	if err := sess.Save(); err != nil {
		m.logger.Error("failed to save flash", "error", err)
	}
}

// TakeFlash pops the pending feedback banner, if any.
func (m *Manager) TakeFlash(c *fiber.Ctx) *Flash {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil
	}
	text, _ := sess.Get(keyFlashText).(string)
	if text == "" {
		return nil
	}
	kind, _ := sess.Get(keyFlashKind).(string)
	sess.Delete(keyFlashKind)
	sess.Delete(keyFlashText)
	if err := sess.Save(); err != nil {
		m.logger.Error("failed to clear flash", "error", err)
	}
	if kind == "" {
		kind = "success"
	}
	return &Flash{Kind: kind, Text: text}
}

// tokenExpired peeks at the bearer token's exp claim without verifying the
// signature; verification is the API server's job. Opaque tokens pass
// through and get judged by the server.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
