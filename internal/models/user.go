// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a referenced identity record. Accounts are provisioned by the
// external identity provider; the engagement core never mutates them.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"unique;not null" json:"display_name"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}
