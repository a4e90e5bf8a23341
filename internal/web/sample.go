package web

import (
	"github.com/google/uuid"

	"eventapp/internal/model"
)

// Fallback datasets keep the admin console navigable when the API is down.

func sampleStats() overviewStats {
	return overviewStats{Users: 120, Events: 25, Registrations: 480, Pending: 15}
}

func sampleActivities() []model.Activity {
	return []model.Activity{
		{ID: uuid.NewString(), Type: model.ActivityUserRegistered, User: "Sarah Johnson", Time: "2 minutes ago"},
		{ID: uuid.NewString(), Type: model.ActivityEventCreated, Title: "Tech Conference 2025", Time: "1 hour ago"},
		{ID: uuid.NewString(), Type: model.ActivityRegistrationApproved, User: "Mike Chen", Event: "Design Workshop", Time: "3 hours ago"},
		{ID: uuid.NewString(), Type: model.ActivityRegistrationRejected, User: "Alex Turner", Event: "Startup Pitch Night", Time: "5 hours ago"},
		{ID: uuid.NewString(), Type: model.ActivityEventUpdated, Title: "Food Expo", Time: "yesterday"},
	}
}

func sampleAnalytics(timeframe string) []model.AnalyticsPoint {
	switch timeframe {
	case "monthly":
		return []model.AnalyticsPoint{
			{Name: "Week 1", Registrations: 42},
			{Name: "Week 2", Registrations: 58},
			{Name: "Week 3", Registrations: 37},
			{Name: "Week 4", Registrations: 65},
		}
	case "yearly":
		return []model.AnalyticsPoint{
			{Name: "Jan", Registrations: 110}, {Name: "Feb", Registrations: 95},
			{Name: "Mar", Registrations: 132}, {Name: "Apr", Registrations: 120},
			{Name: "May", Registrations: 150}, {Name: "Jun", Registrations: 98},
			{Name: "Jul", Registrations: 84}, {Name: "Aug", Registrations: 91},
			{Name: "Sep", Registrations: 143}, {Name: "Oct", Registrations: 160},
			{Name: "Nov", Registrations: 125}, {Name: "Dec", Registrations: 105},
		}
	default:
		return []model.AnalyticsPoint{
			{Name: "Mon", Registrations: 12}, {Name: "Tue", Registrations: 19},
			{Name: "Wed", Registrations: 15}, {Name: "Thu", Registrations: 22},
			{Name: "Fri", Registrations: 30}, {Name: "Sat", Registrations: 18},
			{Name: "Sun", Registrations: 9},
		}
	}
}
