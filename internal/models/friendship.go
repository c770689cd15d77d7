package models

// FriendshipStatus is the lifecycle state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a single edge between two users. The request direction is
// kept in RequesterID/AddresseeID; PairMinID/PairMaxID hold the same pair in
// canonical order (smaller ID first) so the unique index rejects a second
// edge for the pair regardless of direction or status.
type Friendship struct {
	BaseModel
	RequesterID uint             `gorm:"not null;index" json:"requesterId"`
	AddresseeID uint             `gorm:"not null;index" json:"addresseeId"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	PairMinID uint `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	PairMaxID uint `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
}

// EnsureCanonicalPair fills PairMinID/PairMaxID from the requester and
// addressee. Must be called before creating a Friendship record.
func (f *Friendship) EnsureCanonicalPair() {
	f.PairMinID, f.PairMaxID = f.RequesterID, f.AddresseeID
	if f.PairMinID > f.PairMaxID {
		f.PairMinID, f.PairMaxID = f.PairMaxID, f.PairMinID
	}
}

// OtherUserID returns the participant that is not userID.
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// FriendshipWithRequester is a DTO for listing incoming pending requests
// along with basic information about the user who sent each one.
type FriendshipWithRequester struct {
	Friendship
	Requester *UserBasicInfo `json:"requester"`
}
