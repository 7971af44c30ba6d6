// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account.
type User struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Email                  string    `gorm:"unique;not null" json:"email"`
	Password               string    `gorm:"not null" json:"-"`
	FirstName              string    `gorm:"size:80" json:"first_name"`
	LastName               string    `gorm:"size:80" json:"last_name"`
	EmailVerified          bool      `gorm:"not null;default:false" json:"email_verified"`
	EmailVerificationToken string    `gorm:"size:64;index" json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
