package models

// Venue is read-only reference data from this service's perspective.
// Rows are written by the seed command only.
type Venue struct {
	BaseModel
	Name string  `gorm:"type:varchar(255);not null;index" json:"name"`
	City string  `gorm:"type:varchar(100);not null;index" json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// VenueAttendance is one row of the attendance aggregation: a venue plus the
// total and friends-only counts of users currently planning to go there.
type VenueAttendance struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	TotalGoing   int     `json:"totalGoing"`
	FriendsGoing int     `json:"friendsGoing"`
}
