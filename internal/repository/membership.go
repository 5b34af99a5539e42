// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// MembershipRepository is the membership ledger: set-valued relations between
// users and objects, mutated only through the atomic toggle.
type MembershipRepository interface {
	// Toggle flips the (kind, userID, objectID) relation and returns the new
	// state plus the object's member count. The membership test, the
	// add-or-remove, and the counter projection update happen in a single
	// storage transaction; correctness under concurrent callers is delegated
	// entirely to the unique index, never to an in-process lock.
	Toggle(ctx context.Context, kind models.RelationKind, userID, objectID uint) (added bool, count int, err error)
	IsMember(ctx context.Context, kind models.RelationKind, userID, objectID uint) (bool, error)
	// ObjectsFor lists object IDs the user holds the relation with, newest first.
	ObjectsFor(ctx context.Context, kind models.RelationKind, userID uint) ([]uint, error)
	// ObjectsAmong filters objectIDs down to those the user holds the relation with.
	ObjectsAmong(ctx context.Context, kind models.RelationKind, userID uint, objectIDs []uint) ([]uint, error)
	// CountFor recomputes the member count from the ledger itself.
	CountFor(ctx context.Context, kind models.RelationKind, objectID uint) (int64, error)
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership ledger over db.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// projectionFor maps a relation kind to the denormalized counter column it
// maintains. save_post has no projected column; its count comes from the
// ledger directly.
func projectionFor(kind models.RelationKind) (table, column string, ok bool) {
	switch kind {
	case models.RelationLikePost:
		return "posts", "like_count", true
	case models.RelationLikeComment:
		return "comments", "like_count", true
	default:
		return "", "", false
	}
}

func (r *membershipRepository) Toggle(ctx context.Context, kind models.RelationKind, userID, objectID uint) (bool, int, error) {
	defer observability.TrackQuery("toggle", "memberships")()

	var added bool
	var count int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-toggle: the insert and the membership test are one
		// statement. A concurrent insert on the same pair blocks on the
		// unique index until the winner commits, so both callers observe
		// consistent, serialized outcomes. Never read-then-write.
		ins := tx.Exec(
			`INSERT INTO memberships (kind, user_id, object_id, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (kind, user_id, object_id) DO NOTHING`,
			kind, userID, objectID, time.Now().UTC(),
		)
		if ins.Error != nil {
			return ins.Error
		}

		if ins.RowsAffected == 1 {
			added = true
		} else {
			del := tx.Exec(
				`DELETE FROM memberships WHERE kind = ? AND user_id = ? AND object_id = ?`,
				kind, userID, objectID,
			)
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				// The row vanished between the conflicting insert and the
				// delete: another committed toggle won the race.
				return models.NewConflictError("concurrent toggle on the same relation, please retry")
			}
			added = false
		}

		table, column, hasProjection := projectionFor(kind)
		if !hasProjection {
			var n int64
			if err := tx.Model(&models.Membership{}).
				Where("kind = ? AND object_id = ?", kind, objectID).
				Count(&n).Error; err != nil {
				return err
			}
			count = int(n)
			return nil
		}

		// Counter projection: applied in the same transaction as the ledger
		// mutation, floored at zero. CASE keeps the statement portable
		// across postgres and sqlite.
		var upd *gorm.DB
		if added {
			upd = tx.Exec(
				fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE id = ?`, table, column, column),
				objectID,
			)
		} else {
			upd = tx.Exec(
				fmt.Sprintf(`UPDATE %s SET %s = CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END WHERE id = ?`,
					table, column, column, column),
				objectID,
			)
		}
		if upd.Error != nil {
			return upd.Error
		}

		return tx.Raw(
			fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, column, table),
			objectID,
		).Scan(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return added, count, nil
}

func (r *membershipRepository) IsMember(ctx context.Context, kind models.RelationKind, userID, objectID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("kind = ? AND user_id = ? AND object_id = ?", kind, userID, objectID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *membershipRepository) ObjectsFor(ctx context.Context, kind models.RelationKind, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("kind = ? AND user_id = ?", kind, userID).
		Order("created_at DESC").
		Pluck("object_id", &ids).Error
	return ids, err
}

func (r *membershipRepository) ObjectsAmong(ctx context.Context, kind models.RelationKind, userID uint, objectIDs []uint) ([]uint, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("kind = ? AND user_id = ? AND object_id IN ?", kind, userID, objectIDs).
		Pluck("object_id", &ids).Error
	return ids, err
}

func (r *membershipRepository) CountFor(ctx context.Context, kind models.RelationKind, objectID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("kind = ? AND object_id = ?", kind, objectID).
		Count(&n).Error
	return n, err
}
