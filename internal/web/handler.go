package web

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventapp/internal/backend"
	"eventapp/internal/form"
	"eventapp/internal/model"
	"eventapp/internal/session"
	"eventapp/internal/web/views"
)

// Handler serves the public pages and the attendee dashboard.
type Handler struct {
	api      backend.API
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(api backend.API, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{api: api, sessions: sessions, logger: logger}
}

// data assembles the page envelope: nav role, pending flash and CSRF token.
func (h *Handler) data(c *fiber.Ctx, title string, content any) views.Data {
	return pageData(c, h.sessions, title, content)
}

func pageData(c *fiber.Ctx, sessions *session.Manager, title string, content any) views.Data {
	data := views.Data{Title: title, Content: content}
	if current, ok := sessions.Current(c); ok {
		data.Role = current.Role
	}
	data.Flash = sessions.TakeFlash(c)
	if token, ok := c.Locals("token").(string); ok {
		data.CSRF = token
	}
	return data
}

// expire tears the session down after the API rejected the bearer token.
func expire(c *fiber.Ctx, sessions *session.Manager, logger *slog.Logger) error {
	if err := sessions.Clear(c); err != nil {
		logger.Error("failed to clear session", "error", err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (h *Handler) ShowHomePage(c *fiber.Ctx) error {
	return views.Render(c, "home.html", h.data(c, "", nil))
}

func (h *Handler) ShowAboutPage(c *fiber.Ctx) error {
	return views.Render(c, "about.html", h.data(c, "About", nil))
}

func (h *Handler) ShowContactPage(c *fiber.Ctx) error {
	return views.Render(c, "contact.html", h.data(c, "Contact", nil))
}

type loginView struct {
	Email string
	Error string
}

func (h *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if current, ok := h.sessions.Current(c); ok {
		return c.Redirect(homeFor(current.Role), fiber.StatusSeeOther)
	}
	return views.Render(c, "login.html", h.data(c, "Log in", loginView{}))
}

func (h *Handler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return views.Render(c, "login.html", h.data(c, "Log in", loginView{
			Email: email,
			Error: "Email and password are required",
		}))
	}

	result, err := h.api.Login(c.Context(), model.Credentials{Email: email, Password: password})
	if err != nil {
		if backend.IsAuthError(err) {
			return views.Render(c, "login.html", h.data(c, "Log in", loginView{
				Email: email,
				Error: "Invalid email or password",
			}))
		}
		h.logger.Error("login request failed", "error", err)
		return views.Render(c, "login.html", h.data(c, "Log in", loginView{
			Email: email,
			Error: "Login is unavailable right now. Please try again.",
		}))
	}

	if err := h.sessions.SignIn(c, result); err != nil {
		h.logger.Error("failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create session")
	}

	h.logger.Info("user logged in", "email", email, "role", result.Role)

	if result.Role != model.RoleAdmin && result.Role != model.RoleUser {
		h.sessions.SetFlash(c, "error", "Unknown role, showing the standard dashboard")
	}
	return c.Redirect(homeFor(result.Role), fiber.StatusSeeOther)
}

func homeFor(role string) string {
	if role == model.RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Clear(c); err != nil {
		h.logger.Error("failed to clear session", "error", err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

type signupView struct {
	Draft form.UserDraft
	Error string
}

func (h *Handler) ShowSignupPage(c *fiber.Ctx) error {
	return views.Render(c, "signup.html", h.data(c, "Sign up", signupView{Draft: form.NewUserDraft(nil)}))
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	draft := form.UserDraft{
		FirstName: strings.TrimSpace(c.FormValue("firstName")),
		LastName:  strings.TrimSpace(c.FormValue("lastName")),
		Email:     strings.TrimSpace(strings.ToLower(c.FormValue("email"))),
		Password:  c.FormValue("password"),
		Role:      model.UserRoleUser,
	}

	payload, err := draft.Payload(false)
	if err != nil {
		return views.Render(c, "signup.html", h.data(c, "Sign up", signupView{Draft: draft, Error: err.Error()}))
	}

	if err := h.api.CreateAccount(c.Context(), payload); err != nil {
		h.logger.Error("signup request failed", "error", err)
		return views.Render(c, "signup.html", h.data(c, "Sign up", signupView{
			Draft: draft,
			Error: "Could not create the account. Please try again.",
		}))
	}

	h.sessions.SetFlash(c, "success", "Account created. Please log in.")
	return c.Redirect("/login", fiber.StatusSeeOther)
}
