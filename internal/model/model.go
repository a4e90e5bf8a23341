package model

import (
	"strings"
	"time"
)

// Session roles as issued by the login endpoint.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User roles as stored on the user record.
const (
	UserRoleAdmin = "ADMIN"
	UserRoleUser  = "USER"
)

// Registration statuses. The API leaves the field empty for legacy rows,
// which the client reads as Pending.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Provider  string `json:"provider,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Event struct {
	ID              string `json:"id"`
	EventName       string `json:"eventName"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	MaxParticipants *int   `json:"maxParticipants"`
	Description     string `json:"description"`
	Category        string `json:"category,omitempty"`
}

// Unlimited reports whether the event has no participant cap.
func (e Event) Unlimited() bool {
	return e.MaxParticipants == nil
}

type Registration struct {
	ID     string `json:"id"`
	User   *User  `json:"user"`
	Event  *Event `json:"event"`
	Status string `json:"status"`
}

func (r Registration) StatusOrPending() string {
	if r.Status == "" {
		return StatusPending
	}
	return r.Status
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// UserPayload is the write shape for user create/update calls. Password is
// omitted when blank so edits never round-trip a plaintext password.
type UserPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
}

// EventPayload is the write shape for event create/update calls.
type EventPayload struct {
	EventName       string `json:"eventName"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	MaxParticipants *int   `json:"maxParticipants,omitempty"`
	Description     string `json:"description"`
	Category        string `json:"category,omitempty"`
}

type AnalyticsPoint struct {
	Name          string `json:"name"`
	Registrations int    `json:"registrations"`
}

// Activity types rendered by the admin recent-activity feed.
const (
	ActivityUserRegistered       = "user_registered"
	ActivityUserUpdated          = "user_updated"
	ActivityEventCreated         = "event_created"
	ActivityEventUpdated         = "event_updated"
	ActivityRegistrationApproved = "registration_approved"
	ActivityRegistrationRejected = "registration_rejected"
)

type Activity struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	User  string `json:"user,omitempty"`
	Event string `json:"event,omitempty"`
	Title string `json:"title,omitempty"`
	Time  string `json:"time"`
}

// eventDateLayouts covers the datetime shapes the API has been seen to emit:
// a zone-less LocalDateTime, full RFC 3339, and a bare date.
var eventDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func ParseEventDate(s string) (time.Time, bool) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatEventDate renders a long-form date, or "TBA" when the value is
// missing or unparseable.
func FormatEventDate(s string) string {
	t, ok := ParseEventDate(s)
	if !ok {
		return "TBA"
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatEventTime renders a 12-hour clock time, or "TBA".
func FormatEventTime(s string) string {
	t, ok := ParseEventDate(s)
	if !ok {
		return "TBA"
	}
	return t.Format("3:04 PM")
}

// DateInputValue converts an API datetime to the YYYY-MM-DD shape expected
// by a date input.
func DateInputValue(s string) string {
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}
