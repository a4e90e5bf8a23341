package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp/internal/model"
)

func adminAPI() *fakeAPI {
	return &fakeAPI{
		loginResult: model.LoginResult{Token: "tok", Role: model.RoleAdmin},
		adminUsers: []model.User{
			{ID: "u1", FirstName: "Sarah", LastName: "Johnson", Email: "sarah@example.com", Role: model.UserRoleAdmin},
			{ID: "u2", FirstName: "Mike", LastName: "Chen", Email: "mike@example.com", Role: model.UserRoleUser},
		},
		adminEvents: []model.Event{
			{ID: "e1", EventName: "Tech Conference", Location: "Berlin", Category: "Technology"},
			{ID: "e2", EventName: "Food Expo", Location: "Lisbon", Category: "Food"},
		},
		adminRegs: []model.Registration{
			{ID: "r1", User: &model.User{FirstName: "Mike", LastName: "Chen"}, Event: &model.Event{ID: "e1", EventName: "Tech Conference"}, Status: model.StatusPending},
			{ID: "r2", User: &model.User{FirstName: "Ana", LastName: "Silva"}, Event: &model.Event{ID: "e2", EventName: "Food Expo"}, Status: model.StatusApproved},
			{ID: "r3", User: &model.User{FirstName: "Tom", LastName: "Reed"}, Event: &model.Event{ID: "e1", EventName: "Tech Conference"}, Status: model.StatusRejected},
		},
		pending: []model.Registration{
			{ID: "r1", Status: model.StatusPending},
		},
	}
}

func adminGet(t *testing.T, app *fiber.App, cookie *http.Cookie, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func adminPost(t *testing.T, app *fiber.App, cookie *http.Cookie, path string, values url.Values) *http.Response {
	t.Helper()
	req := postForm(path, values)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestOverviewStats(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Total Users")
	assert.NotContains(t, html, "(sample data)")
}

func TestOverviewFallsBackToSampleData(t *testing.T) {
	api := adminAPI()
	api.fetchErr = errors.New("connection refused")
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "(sample data)")
	assert.Contains(t, html, "Failed to load data")
}

func TestApprovePendingRegistration(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/registrations/r1/approve", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/registrations", resp.Header.Get("Location"))
	assert.Equal(t, []string{"r1"}, api.approved)
}

func TestApproveIsIdempotentPerDecision(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	// r2 is already approved: resubmitting the same decision calls nothing.
	resp := adminPost(t, app, cookie, "/admin/registrations/r2/approve", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, api.approved)
}

func TestDecidedRegistrationIsTerminal(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	// r2 is approved, r3 is rejected: neither can flip to the other state.
	resp := adminPost(t, app, cookie, "/admin/registrations/r2/reject", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	resp = adminPost(t, app, cookie, "/admin/registrations/r3/approve", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	assert.Empty(t, api.approved)
	assert.Empty(t, api.rejected)
}

func TestApproveUnknownRegistration(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/registrations/r9/approve", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, api.approved)
}

func TestRegistrationsFilter(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/registrations?q=mike")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Mike Chen")
	assert.NotContains(t, html, "Ana Silva")

	resp = adminGet(t, app, cookie, "/admin/registrations?status=Approved")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html = body(t, resp)
	assert.Contains(t, html, "Ana Silva")
	assert.NotContains(t, html, "Mike Chen")
}

func TestCreateEvent(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/events", url.Values{
		"eventName":       {"Startup Pitch Night"},
		"date":            {"2025-11-05"},
		"location":        {"Porto"},
		"maxParticipants": {"60"},
		"category":        {"Business"},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/events", resp.Header.Get("Location"))
	require.Len(t, api.createdEvents, 1)
	assert.Equal(t, "2025-11-05T18:00:00", api.createdEvents[0].Date)
	require.NotNil(t, api.createdEvents[0].MaxParticipants)
	assert.Equal(t, 60, *api.createdEvents[0].MaxParticipants)
}

func TestCreateEventValidation(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/events", url.Values{
		"eventName": {"Broken"},
		"date":      {"someday"},
		"location":  {"Porto"},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, api.createdEvents)
	assert.Contains(t, body(t, resp), "must be a valid date")
}

func TestUpdateEvent(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/events/e1", url.Values{
		"eventName": {"Tech Conference"},
		"date":      {"2025-12-01"},
		"location":  {"Berlin"},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, []string{"e1"}, api.updatedEvents)
}

func TestDeleteEventConfirmThenDelete(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/events/e2/delete")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Food Expo")
	assert.Empty(t, api.deletedEvents)

	resp = adminPost(t, app, cookie, "/admin/events/e2/delete", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, []string{"e2"}, api.deletedEvents)
}

func TestAddUser(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminPost(t, app, cookie, "/admin/users", url.Values{
		"firstName": {"Tom"},
		"lastName":  {"Reed"},
		"email":     {"tom@example.com"},
		"password":  {"secret123"},
		"role":      {model.UserRoleAdmin},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Len(t, api.addedUsers, 1)
	assert.Equal(t, model.UserRoleAdmin, api.addedUsers[0].Role)
}

func TestUsersSearch(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/users?q=sarah")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Sarah Johnson")
	assert.NotContains(t, html, "Mike Chen")
}

func TestAnalyticsTimeframes(t *testing.T) {
	api := adminAPI()
	api.analytics = []model.AnalyticsPoint{
		{Name: "Mon", Registrations: 5},
		{Name: "Tue", Registrations: 10},
	}
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/analytics?timeframe=monthly")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Mon")
	assert.Contains(t, html, "15")
	assert.NotContains(t, html, "(sample data)")

	// Unknown timeframe falls back to weekly rather than erroring.
	resp = adminGet(t, app, cookie, "/admin/analytics?timeframe=hourly")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAnalyticsSampleFallback(t *testing.T) {
	api := adminAPI()
	api.fetchErr = errors.New("connection refused")
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/analytics")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "(sample data)")
}

func TestEventsCategoryFilter(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/events?category=Food")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Food Expo")
	assert.NotContains(t, html, "Tech Conference")
}

func TestInflightGuard(t *testing.T) {
	a := NewAdminHandler(&fakeAPI{}, nil, nil)

	assert.True(t, a.begin("r1"))
	assert.False(t, a.begin("r1"))
	assert.True(t, a.begin("r2"))

	a.end("r1")
	assert.True(t, a.begin("r1"))
}

func TestConcurrentDecisionsAreDropped(t *testing.T) {
	api := adminAPI()
	started := make(chan struct{})
	release := make(chan struct{})
	api.approveHook = func() {
		close(started)
		<-release
	}
	app := newTestApp(t, api)
	cookie := login(t, app)

	firstDone := make(chan error, 1)
	go func() {
		req := postForm("/admin/registrations/r1/approve", url.Values{})
		req.AddCookie(cookie)
		_, err := app.Test(req, 5000)
		firstDone <- err
	}()
	<-started

	// Second decision for the same registration while the first request is
	// still in flight: dropped without another backend call.
	resp := adminPost(t, app, cookie, "/admin/registrations/r1/approve", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/registrations", resp.Header.Get("Location"))

	resp = adminGet(t, app, cookie, "/admin/registrations")
	assert.Contains(t, body(t, resp), "still being processed")

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, []string{"r1"}, api.approved)
}

func TestNewUserFormRenders(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/users/new")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Add User")
	assert.Contains(t, html, `name="role"`)
	assert.Contains(t, html, `name="password"`)
}

func TestNewRegistrationFormRenders(t *testing.T) {
	api := adminAPI()
	app := newTestApp(t, api)
	cookie := login(t, app)

	resp := adminGet(t, app, cookie, "/admin/registrations/new")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Add Registration")
	assert.Contains(t, html, "Sarah Johnson")
	assert.Contains(t, html, "Food Expo")
	assert.Contains(t, html, `name="status"`)
}
