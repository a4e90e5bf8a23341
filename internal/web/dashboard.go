package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"eventapp/internal/backend"
	"eventapp/internal/form"
	"eventapp/internal/model"
	"eventapp/internal/reconcile"
	"eventapp/internal/session"
	"eventapp/internal/web/views"
)

const loadFailedMessage = "Failed to load data. Please try again."

type eventCard struct {
	Event          model.Event
	Occupancy      reconcile.Occupancy
	IsRegistered   bool
	RegistrationID string
}

type dashboardView struct {
	User  model.User
	Cards []eventCard
	Error string
}

// ShowDashboard renders the All Events tab. The three resources it needs
// are fetched concurrently; if any one fails the whole screen is treated as
// failed and rendered as an error state.
func (h *Handler) ShowDashboard(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	var (
		user   model.User
		events []model.Event
		regs   []model.Registration
	)
	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		user, err = h.api.CurrentUser(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = h.api.Events(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = h.api.MyRegistrations(ctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("dashboard load failed", "error", err)
		return views.Render(c, "dashboard.html", h.data(c, "Dashboard", dashboardView{Error: loadFailedMessage}))
	}

	counts := reconcile.CountByEvent(regs)
	upcoming, past := reconcile.SplitByDate(events, time.Now())
	cards := make([]eventCard, 0, len(events))
	for _, event := range append(upcoming, past...) {
		cards = append(cards, eventCard{
			Event:          event,
			Occupancy:      reconcile.OccupancyFor(event, counts[event.ID]),
			IsRegistered:   reconcile.IsRegistered(regs, event.ID),
			RegistrationID: reconcile.RegistrationIDFor(regs, event.ID),
		})
	}

	return views.Render(c, "dashboard.html", h.data(c, "Dashboard", dashboardView{User: user, Cards: cards}))
}

func (h *Handler) RegisterForEvent(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	eventID := c.Params("id")

	if err := h.api.RegisterForEvent(c.Context(), sess.Token, eventID); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("event registration failed", "event_id", eventID, "error", err)
		h.sessions.SetFlash(c, "error", "Failed to register for event. Please try again.")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	h.sessions.SetFlash(c, "success", "You are registered. The organizer will review your registration.")
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (h *Handler) CancelRegistration(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	registrationID := c.Params("id")

	target := c.FormValue("redirect", "/dashboard")
	if !strings.HasPrefix(target, "/") {
		target = "/dashboard"
	}

	if err := h.api.CancelRegistration(c.Context(), sess.Token, registrationID); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("cancel registration failed", "registration_id", registrationID, "error", err)
		h.sessions.SetFlash(c, "error", "Failed to cancel registration. Please try again.")
		return c.Redirect(target, fiber.StatusSeeOther)
	}

	h.sessions.SetFlash(c, "success", "Registration cancelled.")
	return c.Redirect(target, fiber.StatusSeeOther)
}

type myEventRow struct {
	RegistrationID string
	EventName      string
	Location       string
	DateText       string
	TimeText       string
	Status         string
}

type myEventsView struct {
	Rows  []myEventRow
	Error string
}

func (h *Handler) ShowMyEvents(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	regs, err := h.api.MyRegistrations(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("my events load failed", "error", err)
		return views.Render(c, "my_events.html", h.data(c, "My Events", myEventsView{Error: loadFailedMessage}))
	}

	rows := make([]myEventRow, 0, len(regs))
	for _, reg := range regs {
		row := myEventRow{
			RegistrationID: reg.ID,
			EventName:      "Unknown Event",
			DateText:       "TBA",
			TimeText:       "TBA",
			Status:         reg.StatusOrPending(),
		}
		if reg.Event != nil {
			row.EventName = reg.Event.EventName
			row.Location = reg.Event.Location
			row.DateText = model.FormatEventDate(reg.Event.Date)
			row.TimeText = model.FormatEventTime(reg.Event.Date)
		}
		rows = append(rows, row)
	}

	return views.Render(c, "my_events.html", h.data(c, "My Events", myEventsView{Rows: rows}))
}

type profileView struct {
	User    model.User
	Draft   form.ProfileDraft
	Editing bool
	Errors  map[string]string
	Error   string
}

func (h *Handler) ShowProfile(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	user, err := h.api.CurrentUser(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("profile load failed", "error", err)
		return views.Render(c, "profile.html", h.data(c, "Profile", profileView{Error: loadFailedMessage}))
	}

	view := profileView{
		User:    user,
		Draft:   form.NewProfileDraft(user),
		Editing: c.Query("edit") == "1",
	}
	return views.Render(c, "profile.html", h.data(c, "Profile", view))
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	user, err := h.api.CurrentUser(c.Context(), sess.Token)
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("profile load failed", "error", err)
		return views.Render(c, "profile.html", h.data(c, "Profile", profileView{Error: loadFailedMessage}))
	}

	draft := form.ProfileDraft{
		FirstName:       strings.TrimSpace(c.FormValue("firstName")),
		LastName:        strings.TrimSpace(c.FormValue("lastName")),
		Email:           strings.TrimSpace(strings.ToLower(c.FormValue("email"))),
		NewPassword:     c.FormValue("newPassword"),
		ConfirmPassword: c.FormValue("confirmPassword"),
	}

	if errs := form.Check(draft); len(errs) > 0 {
		return views.Render(c, "profile.html", h.data(c, "Profile", profileView{
			User:    user,
			Draft:   draft,
			Editing: true,
			Errors:  errs,
		}))
	}

	if err := h.api.UpdateProfile(c.Context(), sess.Token, draft.Payload(user.Role)); err != nil {
		if backend.IsAuthError(err) {
			return expire(c, h.sessions, h.logger)
		}
		h.logger.Error("profile update failed", "error", err)
		return views.Render(c, "profile.html", h.data(c, "Profile", profileView{
			User:    user,
			Draft:   draft,
			Editing: true,
			Error:   "Failed to update profile. Please try again.",
		}))
	}

	h.sessions.SetFlash(c, "success", "Profile updated.")
	return c.Redirect("/dashboard/profile", fiber.StatusSeeOther)
}
