// Package filter implements the client-side search and categorical filters
// applied to fetched lists. Filters are order-preserving, never mutate their
// input, and treat missing fields as empty strings.
package filter

import (
	"strings"

	"eventapp/internal/model"
)

// matchAll is the categorical filter value meaning "no filter".
func matchAll(value string) bool {
	return value == "" || strings.EqualFold(value, "All")
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// Users filters by free-text query against full name, email and role.
func Users(users []model.User, query string) []model.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if contains(u.FullName(), query) || contains(u.Email, query) || contains(u.Role, query) {
			out = append(out, u)
		}
	}
	return out
}

// Events filters by free-text query against name and location, plus an
// optional category.
func Events(events []model.Event, query, category string) []model.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && matchAll(category) {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if query != "" && !contains(e.EventName, query) && !contains(e.Location, query) {
			continue
		}
		if !matchAll(category) && !strings.EqualFold(e.Category, category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Registrations filters by free-text query against the registrant's full
// name and the event name, plus an optional status. Registrations with a
// missing user or event still match an empty query.
func Registrations(regs []model.Registration, query, status string) []model.Registration {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && matchAll(status) {
		return regs
	}
	out := make([]model.Registration, 0, len(regs))
	for _, r := range regs {
		if query != "" {
			var userName, eventName string
			if r.User != nil {
				userName = r.User.FullName()
			}
			if r.Event != nil {
				eventName = r.Event.EventName
			}
			if !contains(userName, query) && !contains(eventName, query) {
				continue
			}
		}
		if !matchAll(status) && !strings.EqualFold(r.StatusOrPending(), status) {
			continue
		}
		out = append(out, r)
	}
	return out
}
