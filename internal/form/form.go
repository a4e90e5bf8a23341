// Package form holds the controlled-input drafts behind every entity form.
// A draft is a flat, fully defaulted shape bound to the HTML inputs; Payload
// maps it back to what the API expects on submit.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"eventapp/internal/model"
)

var validate = validator.New()

// DefaultEventTime is appended to the date input on submit; the form only
// collects a day.
const DefaultEventTime = "18:00:00"

// DefaultMaxParticipants seeds the capacity input on event creation.
const DefaultMaxParticipants = 100

type EventDraft struct {
	ID              string
	EventName       string `validate:"required"`
	Date            string `validate:"required,datetime=2006-01-02"`
	Location        string `validate:"required"`
	MaxParticipants string
	Description     string
	Category        string
}

// NewEventDraft flattens an event into editable fields, or seeds the
// defaults for create mode.
func NewEventDraft(event *model.Event) EventDraft {
	if event == nil {
		return EventDraft{MaxParticipants: strconv.Itoa(DefaultMaxParticipants)}
	}
	draft := EventDraft{
		ID:          event.ID,
		EventName:   event.EventName,
		Date:        model.DateInputValue(event.Date),
		Location:    event.Location,
		Description: event.Description,
		Category:    event.Category,
	}
	if event.MaxParticipants != nil {
		draft.MaxParticipants = strconv.Itoa(*event.MaxParticipants)
	}
	return draft
}

// Payload serializes the draft. The date gains the fixed default time of
// day; an empty capacity means unlimited and is omitted from the payload.
func (d EventDraft) Payload() (model.EventPayload, error) {
	if errs := Check(d); len(errs) > 0 {
		return model.EventPayload{}, errors.New(firstError(errs))
	}
	payload := model.EventPayload{
		EventName:   d.EventName,
		Date:        d.Date + "T" + DefaultEventTime,
		Location:    d.Location,
		Description: d.Description,
		Category:    d.Category,
	}
	if d.MaxParticipants != "" {
		n, err := strconv.Atoi(d.MaxParticipants)
		if err != nil || n < 1 {
			return model.EventPayload{}, fmt.Errorf("maximum participants must be a positive number")
		}
		payload.MaxParticipants = &n
	}
	return payload, nil
}

type UserDraft struct {
	ID        string
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string
	Role      string `validate:"required,oneof=USER ADMIN"`
}

func NewUserDraft(user *model.User) UserDraft {
	if user == nil {
		return UserDraft{Role: model.UserRoleUser}
	}
	// Password stays blank in edit mode; the stored hash never round-trips.
	return UserDraft{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}

// Payload serializes the draft. On create the password is required; on edit
// a blank password is dropped from the payload so the account keeps its
// current one.
func (d UserDraft) Payload(editing bool) (model.UserPayload, error) {
	if errs := Check(d); len(errs) > 0 {
		return model.UserPayload{}, errors.New(firstError(errs))
	}
	if !editing && d.Password == "" {
		return model.UserPayload{}, fmt.Errorf("password is required")
	}
	payload := model.UserPayload{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Role:      d.Role,
	}
	if d.Password != "" {
		payload.Password = d.Password
	}
	return payload, nil
}

// RegistrationDraft backs the admin registration form. The names are
// denormalized for local rendering only; submits carry ids.
type RegistrationDraft struct {
	UserID    string `validate:"required"`
	UserName  string
	EventID   string `validate:"required"`
	EventName string
	Status    string
}

func NewRegistrationDraft() RegistrationDraft {
	return RegistrationDraft{Status: model.StatusPending}
}

func (d *RegistrationDraft) SelectUser(users []model.User, id string) {
	d.UserID = id
	d.UserName = ""
	for _, u := range users {
		if u.ID == id {
			d.UserName = u.FullName()
			return
		}
	}
}

func (d *RegistrationDraft) SelectEvent(events []model.Event, id string) {
	d.EventID = id
	d.EventName = ""
	for _, e := range events {
		if e.ID == id {
			d.EventName = e.EventName
			return
		}
	}
}

// ProfileDraft backs the profile edit form, including the optional password
// change. The only cross-field rules in the app live here: minimum length
// and confirmation equality.
type ProfileDraft struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	NewPassword     string `validate:"omitempty,min=8"`
	ConfirmPassword string `validate:"eqfield=NewPassword"`
}

func NewProfileDraft(user model.User) ProfileDraft {
	return ProfileDraft{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

func (d ProfileDraft) Payload(role string) model.UserPayload {
	payload := model.UserPayload{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Role:      role,
	}
	if d.NewPassword != "" {
		payload.Password = d.NewPassword
	}
	return payload
}

// Check validates a draft and maps violations to per-field messages keyed by
// struct field name.
func Check(draft any) map[string]string {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(violations))
	for _, v := range violations {
		out[v.Field()] = messageFor(v)
	}
	return out
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", v.Field())
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", v.Field(), v.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", v.Field(), v.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a valid date", v.Field())
	default:
		return fmt.Sprintf("%s is invalid", v.Field())
	}
}

func firstError(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return "invalid input"
}

// Today returns the min attribute for the event date input.
func Today() string {
	return time.Now().Format("2006-01-02")
}
