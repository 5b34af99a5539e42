package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// PostService handles the content-store side: authoring, reading, and
// soft-deleting posts. Engagement mutations live in EngagementService.
type PostService struct {
	posts       repository.PostRepository
	memberships repository.MembershipRepository
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	AuthorID    uint
	Title       string
	Content     string
	IsPublished bool
}

// NewPostService constructs a PostService.
func NewPostService(posts repository.PostRepository, memberships repository.MembershipRepository) *PostService {
	return &PostService{posts: posts, memberships: memberships}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    in.AuthorID,
		IsPublished: in.IsPublished,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID, in.AuthorID)
}

// GetPost fetches a live post and marks the caller's Liked/Saved relations
// with explicit ledger lookups rather than hidden joins.
func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translateStorageErr(err, "post", id)
	}
	if currentUserID != 0 {
		if err := s.enrichRelations(ctx, currentUserID, []*models.Post{post}); err != nil {
			return nil, err
		}
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if currentUserID != 0 {
		if err := s.enrichRelations(ctx, currentUserID, posts); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	// Drafts are only visible in the author's own listing.
	includeDrafts := currentUserID != 0 && currentUserID == authorID
	posts, err := s.posts.ListByAuthor(ctx, authorID, limit, offset, includeDrafts)
	if err != nil {
		return nil, err
	}
	if currentUserID != 0 {
		if err := s.enrichRelations(ctx, currentUserID, posts); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// DeletePost tombstones the author's own post. Ledger rows referencing it
// are left in place for audit; readers ignore them.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return translateStorageErr(err, "post", postID)
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.posts.SoftDelete(ctx, postID)
}

func (s *PostService) enrichRelations(ctx context.Context, userID uint, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	liked, err := s.memberships.ObjectsAmong(ctx, models.RelationLikePost, userID, ids)
	if err != nil {
		return err
	}
	saved, err := s.memberships.ObjectsAmong(ctx, models.RelationSavePost, userID, ids)
	if err != nil {
		return err
	}

	likedSet := make(map[uint]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}
	savedSet := make(map[uint]bool, len(saved))
	for _, id := range saved {
		savedSet[id] = true
	}
	for _, p := range posts {
		p.Liked = likedSet[p.ID]
		p.Saved = savedSet[p.ID]
	}
	return nil
}
