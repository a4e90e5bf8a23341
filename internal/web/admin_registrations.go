package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"eventapp/internal/backend"
	"eventapp/internal/filter"
	"eventapp/internal/form"
	"eventapp/internal/model"
	"eventapp/internal/session"
	"eventapp/internal/web/views"
)

type registrationRow struct {
	ID        string
	UserName  string
	UserEmail string
	EventName string
	DateText  string
	Location  string
	Status    string
}

type registrationsView struct {
	Rows     []registrationRow
	Query    string
	Status   string
	Total    int
	Filtered bool
	Error    string
}

func (a *AdminHandler) ShowRegistrations(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	query := c.Query("q")
	status := c.Query("status", "All")

	regs, err := a.api.AdminRegistrations(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("admin registrations load failed", "error", err)
		return views.Render(c, "admin/registrations.html", a.data(c, "Registrations", registrationsView{
			Query: query, Status: status, Error: "Failed to load registrations. Please try again later.",
		}))
	}

	filtered := filter.Registrations(regs, query, status)
	rows := make([]registrationRow, 0, len(filtered))
	for _, reg := range filtered {
		row := registrationRow{
			ID:        reg.ID,
			UserName:  "Unknown User",
			EventName: "Unknown Event",
			DateText:  "TBA",
			Status:    reg.StatusOrPending(),
		}
		if reg.User != nil {
			row.UserName = reg.User.FullName()
			row.UserEmail = reg.User.Email
		}
		if reg.Event != nil {
			row.EventName = reg.Event.EventName
			row.Location = reg.Event.Location
			row.DateText = model.FormatEventDate(reg.Event.Date)
		}
		rows = append(rows, row)
	}

	view := registrationsView{
		Rows:     rows,
		Query:    query,
		Status:   status,
		Total:    len(regs),
		Filtered: query != "" || !strings.EqualFold(status, "All"),
	}
	return views.Render(c, "admin/registrations.html", a.data(c, "Registrations", view))
}

type registrationFormView struct {
	Draft  form.RegistrationDraft
	Users  []model.User
	Events []model.Event
	Error  string
}

func (a *AdminHandler) ShowNewRegistration(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	var (
		users  []model.User
		events []model.Event
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
	if err := g.Wait(); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", loadFailedMessage)
		return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
	}

	return views.Render(c, "admin/registration_form.html", a.data(c, "Add Registration", registrationFormView{
		Draft:  form.NewRegistrationDraft(),
		Users:  users,
		Events: events,
	}))
}

// CreateRegistration submits the admin registration form. The API only
// offers registration of the calling account, so the selected ids are
// validated and the event id is what gets sent.
func (a *AdminHandler) CreateRegistration(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	var (
		users  []model.User
		events []model.Event
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
	if err := g.Wait(); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", loadFailedMessage)
		return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
	}

	draft := form.NewRegistrationDraft()
	draft.SelectUser(users, c.FormValue("userId"))
	draft.SelectEvent(events, c.FormValue("eventId"))
	draft.Status = c.FormValue("status", model.StatusPending)

	if errs := form.Check(draft); len(errs) > 0 {
		return views.Render(c, "admin/registration_form.html", a.data(c, "Add Registration", registrationFormView{
			Draft: draft, Users: users, Events: events,
			Error: "Select both a user and an event",
		}))
	}

	if err := a.api.RegisterForEvent(c.Context(), sess.Token, draft.EventID); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("create registration failed", "event_id", draft.EventID, "error", err)
		return views.Render(c, "admin/registration_form.html", a.data(c, "Add Registration", registrationFormView{
			Draft: draft, Users: users, Events: events,
			Error: "Failed to create registration. Please try again.",
		}))
	}

	a.sessions.SetFlash(c, "success", "Registration created for "+draft.EventName)
	return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
}

func (a *AdminHandler) ApproveRegistration(c *fiber.Ctx) error {
	return a.transition(c, model.StatusApproved)
}

func (a *AdminHandler) RejectRegistration(c *fiber.Ctx) error {
	return a.transition(c, model.StatusRejected)
}

// transition drives the Pending -> {Approved, Rejected} state machine. A
// decided registration is terminal in both directions, and a registration
// with a request already in flight is skipped rather than double-submitted.
func (a *AdminHandler) transition(c *fiber.Ctx, target string) error {
	sess := session.FromCtx(c)
	registrationID := c.Params("id")

	if !a.begin(registrationID) {
		a.sessions.SetFlash(c, "error", "Registration "+registrationID+" is still being processed")
		return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
	}
	defer a.end(registrationID)

	regs, err := a.api.AdminRegistrations(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.sessions.SetFlash(c, "error", "Failed to load registration. Please try again.")
		return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
	}

	var current string
	found := false
	for _, reg := range regs {
		if reg.ID == registrationID {
			current = reg.StatusOrPending()
			found = true
			break
		}
	}

	switch {
	case !found:
		a.sessions.SetFlash(c, "error", "Registration "+registrationID+" no longer exists")
	case current == target:
		// Resubmission of an applied decision is a no-op.
		a.sessions.SetFlash(c, "success", "Registration "+registrationID+" is already "+strings.ToLower(target))
	case current != model.StatusPending:
		a.sessions.SetFlash(c, "error", "Registration "+registrationID+" has already been decided")
	default:
		if target == model.StatusApproved {
			err = a.api.ApproveRegistration(c.Context(), sess.Token, registrationID)
		} else {
			err = a.api.RejectRegistration(c.Context(), sess.Token, registrationID)
		}
		if err != nil {
			if backend.IsAuthError(err) {
				return expire(c, a.sessions, a.logger)
			}
			a.logger.Error("registration transition failed", "registration_id", registrationID, "target", target, "error", err)
			a.sessions.SetFlash(c, "error", "Failed to "+strings.ToLower(verbFor(target))+" registration. Please try again.")
			break
		}
		a.sessions.SetFlash(c, "success", "Registration "+registrationID+" has been "+strings.ToLower(target))
	}

	return c.Redirect("/admin/registrations", fiber.StatusSeeOther)
}

func verbFor(target string) string {
	if target == model.StatusApproved {
		return "Approve"
	}
	return "Reject"
}

func (a *AdminHandler) begin(registrationID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.inflight[registrationID]; busy {
		return false
	}
	a.inflight[registrationID] = struct{}{}
	return true
}

func (a *AdminHandler) end(registrationID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inflight, registrationID)
}
