package seed

import (
	"context"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeeder_ProducesConsistentData(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	users, err := s.SeedUsers(5)
	require.NoError(t, err)
	require.Len(t, users, 5)

	posts, err := s.SeedPosts(users, 10)
	require.NoError(t, err)
	require.Len(t, posts, 10)

	require.NoError(t, s.SeedEngagement(ctx, users, posts))

	// Seeded engagement must satisfy the same invariant production data
	// does: every counter projection equals its ledger cardinality.
	var allPosts []models.Post
	require.NoError(t, db.Find(&allPosts).Error)
	for _, p := range allPosts {
		var likes int64
		require.NoError(t, db.Model(&models.Membership{}).
			Where("kind = ? AND object_id = ?", models.RelationLikePost, p.ID).
			Count(&likes).Error)
		assert.Equal(t, int(likes), p.LikeCount, "post %d like_count drifted", p.ID)

		var comments int64
		require.NoError(t, db.Model(&models.Comment{}).
			Where("post_id = ?", p.ID).
			Count(&comments).Error)
		assert.Equal(t, int(comments), p.CommentCount, "post %d comment_count drifted", p.ID)
	}

	var allComments []models.Comment
	require.NoError(t, db.Find(&allComments).Error)
	for _, c := range allComments {
		var likes int64
		require.NoError(t, db.Model(&models.Membership{}).
			Where("kind = ? AND object_id = ?", models.RelationLikeComment, c.ID).
			Count(&likes).Error)
		assert.Equal(t, int(likes), c.LikeCount, "comment %d like_count drifted", c.ID)
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(2)
	require.NoError(t, err)
	_, err = s.SeedPosts(users, 3)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	for _, model := range []any{&models.Membership{}, &models.Comment{}, &models.Post{}, &models.User{}} {
		var n int64
		require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
		assert.Equal(t, int64(0), n)
	}
}

func TestFactory_CreateComment(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.DisplayName)

	post := f.BuildPost(user, func(p *models.Post) { p.IsPublished = true })
	require.NoError(t, f.CreatePostsBatch([]*models.Post{post}))

	_, err = f.CreateComment(user, post)
	require.NoError(t, err)

	var persisted models.Post
	require.NoError(t, db.First(&persisted, post.ID).Error)
	assert.Equal(t, 1, persisted.CommentCount)
}
