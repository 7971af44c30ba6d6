package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	// FriendshipStatusRejected indicates a rejected friendship request.
	FriendshipStatusRejected FriendshipStatus = "rejected"
	// FriendshipStatusBlocked indicates a blocked relationship.
	FriendshipStatusBlocked FriendshipStatus = "blocked"
)

// Friendship is the single relationship edge between two users. Direction is
// preserved (requester vs addressee) to distinguish sent from received pending
// requests; friendship itself is symmetric once accepted.
type Friendship struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	RequesterID uint `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint `gorm:"not null;index" json:"addressee_id"`
	// PairKey is the canonical "lo:hi" form of the two user ids. The unique
	// index makes concurrent opposite-direction inserts collide at the store,
	// so at most one edge can exist per unordered pair.
	PairKey   string           `gorm:"size:42;not null;uniqueIndex:idx_friendship_pair" json:"-"`
	Status    FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// FriendshipPairKey returns the canonical unordered-pair key for two user ids.
func FriendshipPairKey(userID1, userID2 uint) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("%d:%d", userID1, userID2)
}

// BeforeSave keeps PairKey in sync with the requester/addressee pair.
func (f *Friendship) BeforeSave(_ *gorm.DB) error {
	f.PairKey = FriendshipPairKey(f.RequesterID, f.AddresseeID)
	return nil
}

// Involves reports whether the given user is either endpoint of the edge.
func (f *Friendship) Involves(userID uint) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// OtherUserID returns the id of the opposite endpoint.
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
