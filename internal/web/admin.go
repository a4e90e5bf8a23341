package web

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"eventapp/internal/backend"
	"eventapp/internal/filter"
	"eventapp/internal/form"
	"eventapp/internal/model"
	"eventapp/internal/reconcile"
	"eventapp/internal/session"
	"eventapp/internal/web/views"
)

// AdminHandler serves the administrator console. The inflight set is the
// per-registration double-submission guard for approve/reject.
type AdminHandler struct {
	api      backend.API
	sessions *session.Manager
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewAdminHandler(api backend.API, sessions *session.Manager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		api:      api,
		sessions: sessions,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

func (a *AdminHandler) data(c *fiber.Ctx, title string, content any) views.Data {
	return pageData(c, a.sessions, title, content)
}

type overviewStats struct {
	Users         int
	Events        int
	Registrations int
	Pending       int
}

type overviewView struct {
	Stats      overviewStats
	Activities []model.Activity
	Sample     bool
	Error      string
}

// Overview renders the stat cards and the recent-activity feed. All five
// resources are fetched in one fan-out; if anything fails the screen falls
// back to a sample dataset so the console stays navigable.
func (a *AdminHandler) Overview(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	var (
		users      []model.User
		events     []model.Event
		regs       []model.Registration
		pending    []model.Registration
		activities []model.Activity
	)
	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		users, err = a.api.AdminUsers(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = a.api.AdminEvents(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = a.api.AdminRegistrations(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = a.api.PendingRegistrations(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = a.api.RecentActivities(ctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("admin overview load failed", "error", err)
		return views.Render(c, "admin/overview.html", a.data(c, "Admin", overviewView{
			Stats:      sampleStats(),
			Activities: sampleActivities(),
			Sample:     true,
			Error:      loadFailedMessage,
		}))
	}

	view := overviewView{
		Stats: overviewStats{
			Users:         len(users),
			Events:        len(events),
			Registrations: len(regs),
			Pending:       len(pending),
		},
		Activities: activities,
	}
	return views.Render(c, "admin/overview.html", a.data(c, "Admin", view))
}

type usersView struct {
	Users []model.User
	Query string
	Total int
	Error string
}

func (a *AdminHandler) ShowUsers(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	query := c.Query("q")

	users, err := a.api.AdminUsers(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("admin users load failed", "error", err)
		return views.Render(c, "admin/users.html", a.data(c, "Users", usersView{Query: query, Error: loadFailedMessage}))
	}

	view := usersView{
		Users: filter.Users(users, query),
		Query: query,
		Total: len(users),
	}
	return views.Render(c, "admin/users.html", a.data(c, "Users", view))
}

type userFormView struct {
	Draft form.UserDraft
	Error string
}

func (a *AdminHandler) ShowNewUser(c *fiber.Ctx) error {
	return views.Render(c, "admin/user_form.html", a.data(c, "Add User", userFormView{Draft: form.NewUserDraft(nil)}))
}

func (a *AdminHandler) CreateUser(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	draft := form.UserDraft{
		FirstName: strings.TrimSpace(c.FormValue("firstName")),
		LastName:  strings.TrimSpace(c.FormValue("lastName")),
		Email:     strings.TrimSpace(strings.ToLower(c.FormValue("email"))),
		Password:  c.FormValue("password"),
		Role:      c.FormValue("role", model.UserRoleUser),
	}

	payload, err := draft.Payload(false)
	if err != nil {
		return views.Render(c, "admin/user_form.html", a.data(c, "Add User", userFormView{Draft: draft, Error: err.Error()}))
	}

	if err := a.api.AddUser(c.Context(), sess.Token, payload); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("add user failed", "error", err)
		return views.Render(c, "admin/user_form.html", a.data(c, "Add User", userFormView{
			Draft: draft,
			Error: "Failed to create user. Please try again.",
		}))
	}

	a.sessions.SetFlash(c, "success", "User "+payload.Email+" created")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

type confirmView struct {
	Kind   string
	Name   string
	Action string
	Cancel string
}

func (a *AdminHandler) ConfirmDeleteUser(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	userID := c.Params("id")

	users, err := a.api.AdminUsers(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", loadFailedMessage)
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	name := userID
	for _, u := range users {
		if u.ID == userID {
			name = u.FullName()
			break
		}
	}
	return views.Render(c, "admin/confirm_delete.html", a.data(c, "Delete User", confirmView{
		Kind:   "User",
		Name:   name,
		Action: "/admin/users/" + userID + "/delete",
		Cancel: "/admin/users",
	}))
}

func (a *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	userID := c.Params("id")

	if err := a.api.DeleteUser(c.Context(), sess.Token, userID); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("delete user failed", "user_id", userID, "error", err)
		a.sessions.SetFlash(c, "error", "Failed to delete user. Please try again.")
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	a.sessions.SetFlash(c, "success", "User deleted")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

type eventRow struct {
	Event     model.Event
	Occupancy reconcile.Occupancy
}

type eventsView struct {
	Rows       []eventRow
	Query      string
	Category   string
	Categories []string
	Total      int
	Error      string
}

// ShowEvents lists events with a per-event registration count derived from
// the full registrations list; the API does not return counts itself.
func (a *AdminHandler) ShowEvents(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	query := c.Query("q")
	category := c.Query("category", "All")

	var (
		events []model.Event
		regs   []model.Registration
	)
	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		events, err = a.api.AdminEvents(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = a.api.AdminRegistrations(ctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("admin events load failed", "error", err)
		return views.Render(c, "admin/events.html", a.data(c, "Events", eventsView{
			Query: query, Category: category, Error: loadFailedMessage,
		}))
	}

	counts := reconcile.CountByEvent(regs)
	filtered := filter.Events(events, query, category)
	rows := make([]eventRow, 0, len(filtered))
	for _, event := range filtered {
		rows = append(rows, eventRow{Event: event, Occupancy: reconcile.OccupancyFor(event, counts[event.ID])})
	}

	view := eventsView{
		Rows:       rows,
		Query:      query,
		Category:   category,
		Categories: categoriesOf(events),
		Total:      len(events),
	}
	return views.Render(c, "admin/events.html", a.data(c, "Events", view))
}

func categoriesOf(events []model.Event) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range events {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	sort.Strings(out)
	return out
}

type eventFormView struct {
	Draft   form.EventDraft
	Editing bool
	MinDate string
	Error   string
}

func (a *AdminHandler) ShowNewEvent(c *fiber.Ctx) error {
	return views.Render(c, "admin/event_form.html", a.data(c, "Create Event", eventFormView{
		Draft:   form.NewEventDraft(nil),
		MinDate: form.Today(),
	}))
}

func (a *AdminHandler) CreateEvent(c *fiber.Ctx) error {
	return a.saveEvent(c, "")
}

func (a *AdminHandler) ShowEditEvent(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	eventID := c.Params("id")

	events, err := a.api.AdminEvents(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", loadFailedMessage)
		return c.Redirect("/admin/events", fiber.StatusSeeOther)
	}

	for i := range events {
		if events[i].ID == eventID {
			return views.Render(c, "admin/event_form.html", a.data(c, "Edit Event", eventFormView{
				Draft:   form.NewEventDraft(&events[i]),
				Editing: true,
				MinDate: form.Today(),
			}))
		}
	}

	a.sessions.SetFlash(c, "error", "Event not found")
	return c.Redirect("/admin/events", fiber.StatusSeeOther)
}

func (a *AdminHandler) UpdateEvent(c *fiber.Ctx) error {
	return a.saveEvent(c, c.Params("id"))
}

// saveEvent serializes the form draft and either creates or updates,
// depending on whether an event id is present.
func (a *AdminHandler) saveEvent(c *fiber.Ctx, eventID string) error {
	sess := session.FromCtx(c)
	editing := eventID != ""

	draft := form.EventDraft{
		ID:              eventID,
		EventName:       strings.TrimSpace(c.FormValue("eventName")),
		Date:            c.FormValue("date"),
		Location:        strings.TrimSpace(c.FormValue("location")),
		MaxParticipants: strings.TrimSpace(c.FormValue("maxParticipants")),
		Description:     strings.TrimSpace(c.FormValue("description")),
		Category:        strings.TrimSpace(c.FormValue("category")),
	}

	title := "Create Event"
	if editing {
		title = "Edit Event"
	}

	payload, err := draft.Payload()
	if err != nil {
		return views.Render(c, "admin/event_form.html", a.data(c, title, eventFormView{
			Draft: draft, Editing: editing, MinDate: form.Today(), Error: err.Error(),
		}))
	}

	if editing {
		err = a.api.UpdateEvent(c.Context(), sess.Token, eventID, payload)
	} else {
		err = a.api.CreateEvent(c.Context(), sess.Token, payload)
	}
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("save event failed", "event_id", eventID, "error", err)
		return views.Render(c, "admin/event_form.html", a.data(c, title, eventFormView{
			Draft: draft, Editing: editing, MinDate: form.Today(),
			Error: "Failed to save event. Please try again.",
		}))
	}

	if editing {
		a.sessions.SetFlash(c, "success", "Event updated")
	} else {
		a.sessions.SetFlash(c, "success", "Event created")
	}
	return c.Redirect("/admin/events", fiber.StatusSeeOther)
}

func (a *AdminHandler) ConfirmDeleteEvent(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	eventID := c.Params("id")

	events, err := a.api.AdminEvents(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", loadFailedMessage)
		return c.Redirect("/admin/events", fiber.StatusSeeOther)
	}

	name := eventID
	for _, e := range events {
		if e.ID == eventID {
			name = e.EventName
			break
		}
	}
	return views.Render(c, "admin/confirm_delete.html", a.data(c, "Delete Event", confirmView{
		Kind:   "Event",
		Name:   name,
		Action: "/admin/events/" + eventID + "/delete",
		Cancel: "/admin/events",
	}))
}

func (a *AdminHandler) DeleteEvent(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	eventID := c.Params("id")

	if err := a.api.DeleteEvent(c.Context(), sess.Token, eventID); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("delete event failed", "event_id", eventID, "error", err)
		a.sessions.SetFlash(c, "error", "Failed to delete event. Please try again.")
		return c.Redirect("/admin/events", fiber.StatusSeeOther)
	}

	a.sessions.SetFlash(c, "success", "Event deleted")
	return c.Redirect("/admin/events", fiber.StatusSeeOther)
}
