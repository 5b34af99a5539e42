package models

import "time"

// RelationKind identifies which membership relation a ledger row records.
type RelationKind string

const (
	RelationLikePost    RelationKind = "like_post"
	RelationSavePost    RelationKind = "save_post"
	RelationLikeComment RelationKind = "like_comment"
)

// Valid reports whether k is one of the known relation kinds.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationLikePost, RelationSavePost, RelationLikeComment:
		return true
	}
	return false
}

// Membership is one row of the membership ledger: the boolean fact
// "user k object". The unique index makes set semantics a storage-level
// guarantee and is the conflict target of the atomic toggle. The secondary
// indexes support lookup from both directions (all likers of an object,
// everything a user saved) without a scan.
//
// There is deliberately no foreign key to posts or comments: rows pointing
// at a tombstoned post are kept for audit and ignored by readers.
type Membership struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Kind      RelationKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_member_kind_user_object;index:idx_member_kind_object,priority:1;index:idx_member_kind_user,priority:1" json:"kind"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_member_kind_user_object;index:idx_member_kind_user,priority:2" json:"user_id"`
	ObjectID  uint         `gorm:"not null;uniqueIndex:idx_member_kind_user_object;index:idx_member_kind_object,priority:2" json:"object_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// ToggleOutcome is the state a toggle left a relation in.
type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleRemoved ToggleOutcome = "removed"
)
