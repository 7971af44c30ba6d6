package models

import "time"

// Group represents a named chat group. Membership is normalized into
// GroupMembership rows; the creator is always a member.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Creator *User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// GroupMembership maps users to groups. The composite primary key keeps the
// member set duplicate-free at the store.
type GroupMembership struct {
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (GroupMembership) TableName() string {
	return "group_memberships"
}
