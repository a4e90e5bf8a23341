package web

import (
	"github.com/gofiber/fiber/v2"

	"eventapp/internal/session"
)

// RegisterRoutes wires every page onto the app. Authenticated pages sit
// behind the session gates; the admin console additionally requires the
// admin role.
func RegisterRoutes(app *fiber.App, h *Handler, admin *AdminHandler, sessions *session.Manager, loginLimiter fiber.Handler) {
	app.Get("/", h.ShowHomePage)
	app.Get("/about", h.ShowAboutPage)
	app.Get("/contact", h.ShowContactPage)

	app.Get("/login", h.ShowLoginPage)
	app.Post("/login", loginLimiter, h.Login)
	app.Post("/logout", h.Logout)
	app.Get("/signup", h.ShowSignupPage)
	app.Post("/signup", loginLimiter, h.Signup)

	dashboard := app.Group("/dashboard", sessions.RequireUser())
	dashboard.Get("/", h.ShowDashboard)
	dashboard.Get("/my-events", h.ShowMyEvents)
	dashboard.Get("/profile", h.ShowProfile)
	dashboard.Post("/profile", h.UpdateProfile)
	dashboard.Post("/events/:id/register", h.RegisterForEvent)
	dashboard.Post("/registrations/:id/cancel", h.CancelRegistration)

	console := app.Group("/admin", sessions.RequireAdmin())
	console.Get("/", admin.Overview)

	console.Get("/users", admin.ShowUsers)
	console.Get("/users/new", admin.ShowNewUser)
	console.Post("/users", admin.CreateUser)
	console.Get("/users/:id/delete", admin.ConfirmDeleteUser)
	console.Post("/users/:id/delete", admin.DeleteUser)

	console.Get("/events", admin.ShowEvents)
	console.Get("/events/new", admin.ShowNewEvent)
	console.Post("/events", admin.CreateEvent)
	console.Get("/events/:id/edit", admin.ShowEditEvent)
	console.Post("/events/:id", admin.UpdateEvent)
	console.Get("/events/:id/delete", admin.ConfirmDeleteEvent)
	console.Post("/events/:id/delete", admin.DeleteEvent)

	console.Get("/registrations", admin.ShowRegistrations)
	console.Get("/registrations/new", admin.ShowNewRegistration)
	console.Post("/registrations", admin.CreateRegistration)
	console.Post("/registrations/:id/approve", admin.ApproveRegistration)
	console.Post("/registrations/:id/reject", admin.RejectRegistration)

	console.Get("/analytics", admin.ShowAnalytics)
}
