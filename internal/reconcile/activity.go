package reconcile

import (
	"fmt"

	"eventapp/internal/model"
)

// ActivityLine renders one recent-activity entry as feed text. Unknown
// activity types get a generic line rather than being dropped.
func ActivityLine(a model.Activity) string {
	switch a.Type {
	case model.ActivityUserRegistered:
		return fmt.Sprintf("%s registered a new account", a.User)
	case model.ActivityUserUpdated:
		return fmt.Sprintf("%s updated their profile", a.User)
	case model.ActivityEventCreated:
		return fmt.Sprintf("New event created: %s", a.Title)
	case model.ActivityEventUpdated:
		return fmt.Sprintf("Event updated: %s", a.Title)
	case model.ActivityRegistrationApproved:
		return fmt.Sprintf("%s's registration for %s was approved", a.User, a.Event)
	case model.ActivityRegistrationRejected:
		return fmt.Sprintf("%s's registration for %s was rejected", a.User, a.Event)
	default:
		return "System activity"
	}
}
