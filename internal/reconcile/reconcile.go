// Package reconcile derives display state from already-fetched events and
// registrations. Everything here is a pure function over its inputs and is
// recomputed on every render.
package reconcile

import (
	"time"

	"eventapp/internal/model"
)

// IsRegistered reports whether any registration references the event.
func IsRegistered(regs []model.Registration, eventID string) bool {
	for _, reg := range regs {
		if reg.Event != nil && reg.Event.ID == eventID {
			return true
		}
	}
	return false
}

// RegistrationIDFor returns the id of the first registration referencing the
// event, or "" when there is none. The id is what the cancel call needs.
func RegistrationIDFor(regs []model.Registration, eventID string) string {
	for _, reg := range regs {
		if reg.Event != nil && reg.Event.ID == eventID {
			return reg.ID
		}
	}
	return ""
}

// CountByEvent tallies registrations per event id. Registrations without an
// embedded event are skipped.
func CountByEvent(regs []model.Registration) map[string]int {
	counts := make(map[string]int, len(regs))
	for _, reg := range regs {
		if reg.Event != nil && reg.Event.ID != "" {
			counts[reg.Event.ID]++
		}
	}
	return counts
}

// Band is the fill color of the occupancy indicator.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// Occupancy is the derived capacity state of one event.
type Occupancy struct {
	Count     int
	Percent   float64
	Band      Band
	Unlimited bool // capacity absent: percent is meaningless, hide the bar
}

// OccupancyFor computes how full an event is. Without a participant cap the
// ratio is pinned at 0 and flagged Unlimited.
func OccupancyFor(event model.Event, count int) Occupancy {
	if event.MaxParticipants == nil {
		return Occupancy{Count: count, Unlimited: true, Band: BandGreen}
	}
	percent := float64(count) / float64(*event.MaxParticipants) * 100
	band := BandGreen
	switch {
	case percent >= 90:
		band = BandRed
	case percent >= 70:
		band = BandYellow
	}
	return Occupancy{Count: count, Percent: percent, Band: band}
}

// IsUpcoming reports whether the event's date is in the future. Undated
// events count as upcoming so they stay visible.
func IsUpcoming(event model.Event, now time.Time) bool {
	t, ok := model.ParseEventDate(event.Date)
	if !ok {
		return true
	}
	return t.After(now)
}

// SplitByDate partitions events into upcoming and past, preserving order.
func SplitByDate(events []model.Event, now time.Time) (upcoming, past []model.Event) {
	for _, event := range events {
		if IsUpcoming(event, now) {
			upcoming = append(upcoming, event)
		} else {
			past = append(past, event)
		}
	}
	return upcoming, past
}
