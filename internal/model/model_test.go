package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Sarah Johnson", User{FirstName: "Sarah", LastName: "Johnson"}.FullName())
	assert.Equal(t, "Sarah", User{FirstName: "Sarah"}.FullName())
	assert.Equal(t, "", User{}.FullName())
}

func TestStatusOrPending(t *testing.T) {
	assert.Equal(t, StatusPending, Registration{}.StatusOrPending())
	assert.Equal(t, StatusApproved, Registration{Status: StatusApproved}.StatusOrPending())
}

func TestFormatEventDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-09-12T18:00:00", "Friday, September 12, 2025"},
		{"2025-09-12T18:00:00Z", "Friday, September 12, 2025"},
		{"2025-09-12", "Friday, September 12, 2025"},
		{"", "TBA"},
		{"soon", "TBA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEventDate(tt.in), "input %q", tt.in)
	}
}

func TestFormatEventTime(t *testing.T) {
	assert.Equal(t, "6:00 PM", FormatEventTime("2025-09-12T18:00:00"))
	assert.Equal(t, "12:00 AM", FormatEventTime("2025-09-12"))
	assert.Equal(t, "TBA", FormatEventTime(""))
}

func TestDateInputValue(t *testing.T) {
	assert.Equal(t, "2025-09-12", DateInputValue("2025-09-12T18:00:00"))
	assert.Equal(t, "2025-09-12", DateInputValue("2025-09-12"))
	assert.Equal(t, "", DateInputValue(""))
}
