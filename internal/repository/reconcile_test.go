package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_RepairsDriftedCounters(t *testing.T) {
	db := setupTestDB(t)
	memberships := NewMembershipRepository(db)
	rec := NewReconciler(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	liked := createTestPost(t, db, author, "liked post")
	clean := createTestPost(t, db, author, "clean post")

	_, _, err := memberships.Toggle(ctx, models.RelationLikePost, alice.ID, liked.ID)
	require.NoError(t, err)
	_, _, err = memberships.Toggle(ctx, models.RelationLikePost, bob.ID, liked.ID)
	require.NoError(t, err)

	comment := createTestComment(t, db, alice, liked, "note")
	_, _, err = memberships.Toggle(ctx, models.RelationLikeComment, bob.ID, comment.ID)
	require.NoError(t, err)

	// Manufacture drift: corrupt the projections directly.
	require.NoError(t, db.Exec(`UPDATE posts SET like_count = 99, comment_count = 99 WHERE id = ?`, liked.ID).Error)
	require.NoError(t, db.Exec(`UPDATE comments SET like_count = 0 WHERE id = ?`, comment.ID).Error)

	corrections, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), corrections.PostLikes)
	assert.Equal(t, int64(1), corrections.CommentLikes)
	assert.Equal(t, int64(1), corrections.PostComments)

	var repaired models.Post
	require.NoError(t, db.First(&repaired, liked.ID).Error)
	assert.Equal(t, 2, repaired.LikeCount)
	assert.Equal(t, 1, repaired.CommentCount)

	var repairedComment models.Comment
	require.NoError(t, db.First(&repairedComment, comment.ID).Error)
	assert.Equal(t, 1, repairedComment.LikeCount)

	// Rows that already agree are never touched.
	var untouched models.Post
	require.NoError(t, db.First(&untouched, clean.ID).Error)
	assert.Equal(t, 0, untouched.LikeCount)

	// A second pass over a consistent store is a no-op.
	corrections, err = rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), corrections.Total())
}

func TestReconciler_CountsOrphanedLedgerRows(t *testing.T) {
	db := setupTestDB(t)
	memberships := NewMembershipRepository(db)
	rec := NewReconciler(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, author, "post")

	_, _, err := memberships.Toggle(ctx, models.RelationLikePost, alice.ID, post.ID)
	require.NoError(t, err)

	// Tombstone the post; the ledger row becomes an orphan but stays.
	require.NoError(t, NewPostRepository(db).SoftDelete(ctx, post.ID))

	ledger, err := memberships.CountFor(ctx, models.RelationLikePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ledger)

	// Reconciliation still converges; nothing to repair on a clean store.
	corrections, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), corrections.Total())
}
