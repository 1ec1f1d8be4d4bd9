package models

// PageConfig is the client side configuration served to every session.
type PageConfig struct {
	AppName  string          `json:"app_name" example:"huddle"`
	Features map[string]bool `json:"features"`
	Version  string          `json:"version"`
}

// AdminStats are the counters shown on the superadmin console.
type AdminStats struct {
	Organizations   int64 `json:"organizations"`
	Users           int64 `json:"users"`
	Seats           int64 `json:"seats"`
	OccupiedSeats   int64 `json:"occupied_seats"`
	Teams           int64 `json:"teams"`
	Courses         int64 `json:"courses"`
	PendingInvites  int64 `json:"pending_invites"`
	FeedbackEntries int64 `json:"feedback_entries"`
}
