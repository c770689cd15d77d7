package models

import "time"

// Plan is a user's single "going out tonight" entry within a city scope.
// The unique index on (UserID, Scope) is the hard backstop for the
// one-plan-per-user-per-city invariant.
type Plan struct {
	BaseModel
	UserID  uint   `gorm:"not null;uniqueIndex:idx_plan_user_scope" json:"userId"`
	User    User   `gorm:"foreignKey:UserID" json:"-"`
	VenueID uint   `gorm:"not null;index" json:"venueId"`
	Venue   Venue  `gorm:"foreignKey:VenueID" json:"-"`
	Scope   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_plan_user_scope" json:"scope"` // venue's city at write time
}

// PlanDetails is the plan row joined with its user and venue, as returned by
// the list endpoint and echoed after a write.
type PlanDetails struct {
	PlanID    uint      `json:"planId"`
	UserID    uint      `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	VenueID   uint      `json:"venueId"`
	VenueName string    `json:"venueName"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
}
