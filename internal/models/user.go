package models

// User is a local mirror of an upstream-verified identity. Rows are created
// and refreshed by identity sync only; nothing in this service deletes them.
type User struct {
	BaseModel
	// ExternalSubject is the stable subject claim from the identity provider.
	// Reconciliation is keyed on email, the subject is kept for reference.
	ExternalSubject string `gorm:"type:varchar(255);index" json:"-"`
	Email           string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	DisplayName     string `gorm:"type:varchar(100)" json:"displayName,omitempty"`
	AvatarURL       string `gorm:"type:varchar(255)" json:"avatarUrl,omitempty"`
}

// UserBasicInfo holds minimal public information about a user.
// Used for friend lists and pending-request listings.
type UserBasicInfo struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
