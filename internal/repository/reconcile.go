package repository

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// Corrections reports how many projected counter rows a reconciliation pass repaired.
type Corrections struct {
	PostLikes    int64
	CommentLikes int64
	PostComments int64
}

// Total returns the number of rows corrected across all projections.
func (c Corrections) Total() int64 {
	return c.PostLikes + c.CommentLikes + c.PostComments
}

// Reconciler recomputes every counter projection from its source of truth
// and repairs rows that disagree. The recomputation is the authority: drift
// is logged and corrected, never surfaced to callers.
type Reconciler struct {
	db *gorm.DB
}

// NewReconciler returns a Reconciler over db.
func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// Run executes one full reconciliation pass. Each statement touches only
// rows whose projection disagrees with the ledger, so a clean pass writes
// nothing.
func (r *Reconciler) Run(ctx context.Context) (Corrections, error) {
	defer observability.TrackQuery("reconcile", "memberships")()

	var c Corrections

	res := r.db.WithContext(ctx).Exec(`
		UPDATE posts SET like_count = (
			SELECT COUNT(*) FROM memberships m
			WHERE m.kind = 'like_post' AND m.object_id = posts.id
		)
		WHERE like_count <> (
			SELECT COUNT(*) FROM memberships m
			WHERE m.kind = 'like_post' AND m.object_id = posts.id
		)`)
	if res.Error != nil {
		return c, res.Error
	}
	c.PostLikes = res.RowsAffected

	res = r.db.WithContext(ctx).Exec(`
		UPDATE comments SET like_count = (
			SELECT COUNT(*) FROM memberships m
			WHERE m.kind = 'like_comment' AND m.object_id = comments.id
		)
		WHERE like_count <> (
			SELECT COUNT(*) FROM memberships m
			WHERE m.kind = 'like_comment' AND m.object_id = comments.id
		)`)
	if res.Error != nil {
		return c, res.Error
	}
	c.CommentLikes = res.RowsAffected

	res = r.db.WithContext(ctx).Exec(`
		UPDATE posts SET comment_count = (
			SELECT COUNT(*) FROM comments cm WHERE cm.post_id = posts.id
		)
		WHERE comment_count <> (
			SELECT COUNT(*) FROM comments cm WHERE cm.post_id = posts.id
		)`)
	if res.Error != nil {
		return c, res.Error
	}
	c.PostComments = res.RowsAffected

	if c.Total() > 0 {
		observability.Logger.WarnContext(ctx, "reconciler corrected drifted counters",
			slog.Int64("post_likes", c.PostLikes),
			slog.Int64("comment_likes", c.CommentLikes),
			slog.Int64("post_comments", c.PostComments),
		)
		observability.ReconcilerCorrections.WithLabelValues("post_likes").Add(float64(c.PostLikes))
		observability.ReconcilerCorrections.WithLabelValues("comment_likes").Add(float64(c.CommentLikes))
		observability.ReconcilerCorrections.WithLabelValues("post_comments").Add(float64(c.PostComments))
	}

	return c, nil
}

// RunEvery runs reconciliation passes on the given interval until ctx is done.
func (r *Reconciler) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Run(ctx); err != nil {
				observability.Logger.ErrorContext(ctx, "reconciliation pass failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
