package models

import "time"

// Comment is a reader comment on a post. PostID is immutable after creation
// and is not re-validated afterwards: comments survive their post's
// soft-delete to preserve history. Unlike posts, comments are hard-deleted
// (purged, not archived), so there is no DeletedAt column.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"type:text;not null" json:"content"`
	// LikeCount is the counter projection for kind=like_comment ledger rows.
	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	// Liked reflects the current caller's relation (computed per request).
	Liked     bool      `gorm:"-" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}
