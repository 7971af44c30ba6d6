package models

import "time"

// MessageStatus represents the delivery state of a direct message.
// Transitions are monotonic: sent -> delivered -> read.
type MessageStatus string

const (
	// MessageStatusSent is the initial state of every message.
	MessageStatusSent MessageStatus = "sent"
	// MessageStatusDelivered indicates the message reached the receiver.
	MessageStatusDelivered MessageStatus = "delivered"
	// MessageStatusRead indicates the receiver opened the message.
	MessageStatusRead MessageStatus = "read"
)

// rank orders statuses for the monotonicity check.
func (s MessageStatus) rank() int {
	switch s {
	case MessageStatusDelivered:
		return 1
	case MessageStatusRead:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether s is equal to or later than other in the
// sent -> delivered -> read progression.
func (s MessageStatus) AtLeast(other MessageStatus) bool {
	return s.rank() >= other.rank()
}

// Message is a direct message between two users who were friends at send time.
type Message struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	SenderID   uint          `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint          `gorm:"not null;index" json:"receiver_id"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Status     MessageStatus `gorm:"type:varchar(20);not null;default:'sent'" json:"status"`
	CreatedAt  time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relationships
	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// GroupMessage is a message sent to all members of a group.
type GroupMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for GORM
func (GroupMessage) TableName() string {
	return "group_messages"
}
