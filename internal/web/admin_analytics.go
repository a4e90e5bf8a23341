package web

import (
	"github.com/gofiber/fiber/v2"

	"eventapp/internal/backend"
	"eventapp/internal/session"
	"eventapp/internal/web/views"
)

type analyticsRow struct {
	Name          string
	Registrations int
	Percent       float64
}

type analyticsView struct {
	Timeframe string
	Rows      []analyticsRow
	Total     int
	Sample    bool
	Error     string
}

// ShowAnalytics renders the registration trend for the chosen timeframe.
// Unknown timeframes fall back to weekly; a failed fetch falls back to
// sample data with an error banner, keeping the chart on screen.
func (a *AdminHandler) ShowAnalytics(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	timeframe := c.Query("timeframe", "weekly")
	switch timeframe {
	case "weekly", "monthly", "yearly":
	default:
		timeframe = "weekly"
	}

	points, err := a.api.RegistrationAnalytics(c.Context(), sess.Token, timeframe)
	view := analyticsView{Timeframe: timeframe}
	if err != nil {
		if backend.IsAuthError(err) {
			return expire(c, a.sessions, a.logger)
		}
		a.logger.Error("analytics load failed", "timeframe", timeframe, "error", err)
		points = sampleAnalytics(timeframe)
		view.Sample = true
		view.Error = "Failed to load chart data"
	}

	max := 0
	for _, p := range points {
		view.Total += p.Registrations
		if p.Registrations > max {
			max = p.Registrations
		}
	}
	for _, p := range points {
		row := analyticsRow{Name: p.Name, Registrations: p.Registrations}
		if max > 0 {
			row.Percent = float64(p.Registrations) / float64(max) * 100
		}
		view.Rows = append(view.Rows, row)
	}

	return views.Render(c, "admin/analytics.html", a.data(c, "Analytics", view))
}
