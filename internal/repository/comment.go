package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository is the content store for comments. Comments hard-delete;
// the parent post's comment_count projection is maintained in the same
// transaction as every create and delete.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, newestFirst bool, limit, offset int) ([]*models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE posts SET comment_count = comment_count + 1 WHERE id = ? AND deleted_at IS NULL`,
			comment.PostID,
		).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, newestFirst bool, limit, offset int) ([]*models.Comment, error) {
	order := "created_at ASC"
	if newestFirst {
		order = "created_at DESC"
	}
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already gone; nothing to decrement.
			return nil
		}
		// Purge the comment's like ledger rows so the ledger never counts
		// likes of an absent comment.
		if err := tx.Exec(
			`DELETE FROM memberships WHERE kind = ? AND object_id = ?`,
			models.RelationLikeComment, comment.ID,
		).Error; err != nil {
			return err
		}
		// Best-effort decrement: the deleted_at guard skips tombstoned
		// parents instead of erroring.
		return tx.Exec(
			`UPDATE posts SET comment_count = CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END
			 WHERE id = ? AND deleted_at IS NULL`,
			comment.PostID,
		).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}
