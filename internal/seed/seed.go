package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// Seeder populates the database with demo users, posts, comments, and
// engagement. Engagement is written through the repository toggle so the
// counter projections always agree with the membership ledger.
type Seeder struct {
	db          *gorm.DB
	factory     *Factory
	memberships repository.MembershipRepository
	rng         *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:          db,
		factory:     NewFactory(db),
		memberships: repository.NewMembershipRepository(db),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters for referential sanity
// even though the ledger carries no foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	for _, stmt := range []string{
		"DELETE FROM memberships",
		"DELETE FROM comments",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// SeedUsers creates n demo users.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d users created", len(users))
	return users, nil
}

// SeedPosts creates n posts spread across the given users.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))
	return posts, nil
}

// SeedEngagement sprinkles likes, saves, comments, and comment likes over
// the given posts. Every membership goes through the atomic toggle so the
// demo data satisfies the same consistency invariants production data does.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, posts []*models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return fmt.Errorf("need users and posts before engagement")
	}

	var likes, saves, comments, commentLikes int

	for _, post := range posts {
		if !post.IsPublished {
			continue
		}

		for _, user := range users {
			if s.rng.Intn(3) == 0 {
				if _, _, err := s.memberships.Toggle(ctx, models.RelationLikePost, user.ID, post.ID); err != nil {
					return fmt.Errorf("failed to like post %d: %w", post.ID, err)
				}
				likes++
			}
			if s.rng.Intn(8) == 0 {
				if _, _, err := s.memberships.Toggle(ctx, models.RelationSavePost, user.ID, post.ID); err != nil {
					return fmt.Errorf("failed to save post %d: %w", post.ID, err)
				}
				saves++
			}
		}

		numComments := s.rng.Intn(6)
		for i := 0; i < numComments; i++ {
			author := users[s.rng.Intn(len(users))]
			comment, err := s.factory.CreateComment(author, post)
			if err != nil {
				return fmt.Errorf("failed to comment on post %d: %w", post.ID, err)
			}
			comments++

			for _, user := range users {
				if s.rng.Intn(10) == 0 {
					if _, _, err := s.memberships.Toggle(ctx, models.RelationLikeComment, user.ID, comment.ID); err != nil {
						return fmt.Errorf("failed to like comment %d: %w", comment.ID, err)
					}
					commentLikes++
				}
			}
		}
	}

	log.Printf("✓ engagement created: %d post likes, %d saves, %d comments, %d comment likes",
		likes, saves, comments, commentLikes)
	return nil
}
