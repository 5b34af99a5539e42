package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an authored piece of content. Posts are soft-deleted: the row
// stays as a tombstone and ledger entries referencing it become orphans
// that are ignored rather than cascaded.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Content     string `gorm:"type:text;not null" json:"content"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Author      User   `gorm:"foreignKey:AuthorID" json:"author"`
	// No column default here: gorm drops zero-valued fields that carry one
	// from the INSERT, which would store every draft as published.
	IsPublished bool `gorm:"not null" json:"is_published"`
	// LikeCount and CommentCount are counter projections maintained in the
	// same transaction as the underlying ledger or comment mutation. The
	// reconciler is the authority if they ever disagree with the ledger.
	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`
	// Liked and Saved reflect the current caller's relations (computed per request).
	Liked     bool           `gorm:"-" json:"liked"`
	Saved     bool           `gorm:"-" json:"saved"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
