// Package service contains the orchestration layer between the HTTP surface
// and the repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxCommentLen = 10000

// ToggleLikeResult is the new state of a like relation after a toggle.
type ToggleLikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ToggleSaveResult is the new state of a save relation after a toggle.
type ToggleSaveResult struct {
	Saved bool `json:"saved"`
}

// EngagementService is the public façade over the membership ledger and the
// counter projections. It validates referential integrity against the
// content store, applies the atomic toggle, and reports the new state.
type EngagementService struct {
	memberships    repository.MembershipRepository
	posts          repository.PostRepository
	comments       repository.CommentRepository
	idem           *cache.IdempotencyStore
	notifier       *notifications.Notifier
	storageTimeout time.Duration
}

// NewEngagementService constructs the service. idem and notifier may be nil;
// both degrade gracefully without Redis.
func NewEngagementService(
	memberships repository.MembershipRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	idem *cache.IdempotencyStore,
	notifier *notifications.Notifier,
	storageTimeout time.Duration,
) *EngagementService {
	return &EngagementService{
		memberships:    memberships,
		posts:          posts,
		comments:       comments,
		idem:           idem,
		notifier:       notifier,
		storageTimeout: storageTimeout,
	}
}

// opContext bounds the storage work and detaches it from caller
// cancellation: a client that navigates away after submitting must not be
// able to abort a toggle mid-flight. The transaction inside the toggle is
// what makes the operation all-or-nothing; this keeps a late cancellation
// from racing the commit.
func (s *EngagementService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.storageTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.storageTimeout)
}

// translateStorageErr maps raw storage failures onto the error taxonomy.
func translateStorageErr(err error, resource string, id uint) error {
	var appErr *models.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewUnavailableError(err)
	}
	return err
}

// ToggleLikePost flips the caller's like on a live post. A non-empty
// idempotencyKey lets a retried request be answered from the recorded
// outcome instead of flipping the relation back.
func (s *EngagementService) ToggleLikePost(ctx context.Context, userID, postID uint, idempotencyKey string) (ToggleLikeResult, error) {
	added, count, err := s.toggle(ctx, models.RelationLikePost, userID, postID, idempotencyKey)
	if err != nil {
		return ToggleLikeResult{}, err
	}
	return ToggleLikeResult{Liked: added, LikeCount: count}, nil
}

// ToggleSavePost flips the caller's save on a live post.
func (s *EngagementService) ToggleSavePost(ctx context.Context, userID, postID uint, idempotencyKey string) (ToggleSaveResult, error) {
	added, _, err := s.toggle(ctx, models.RelationSavePost, userID, postID, idempotencyKey)
	if err != nil {
		return ToggleSaveResult{}, err
	}
	return ToggleSaveResult{Saved: added}, nil
}

// ToggleLikeComment flips the caller's like on a comment. The parent post's
// tombstone does not invalidate the comment: history is preserved.
func (s *EngagementService) ToggleLikeComment(ctx context.Context, userID, commentID uint, idempotencyKey string) (ToggleLikeResult, error) {
	added, count, err := s.toggle(ctx, models.RelationLikeComment, userID, commentID, idempotencyKey)
	if err != nil {
		return ToggleLikeResult{}, err
	}
	return ToggleLikeResult{Liked: added, LikeCount: count}, nil
}

func (s *EngagementService) toggle(ctx context.Context, kind models.RelationKind, userID, objectID uint, idempotencyKey string) (bool, int, error) {
	ctx, span := observability.StartSpan(ctx, "engagement.toggle",
		attribute.String("relation", string(kind)),
		attribute.Int64("object_id", int64(objectID)),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	scopedKey := ""
	if idempotencyKey != "" {
		scopedKey = string(kind) + ":" + idempotencyKey
		if rec, found, lookupErr := s.idem.Lookup(ctx, userID, scopedKey); lookupErr == nil && found {
			observability.IdempotentReplays.Inc()
			return rec.Added, rec.Count, nil
		}
	}

	// Referential guard: the object must resolve before any ledger write.
	if err = s.checkObject(ctx, kind, objectID); err != nil {
		return false, 0, err
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	added, count, toggleErr := s.memberships.Toggle(opCtx, kind, userID, objectID)
	if toggleErr != nil {
		if models.ErrorCode(toggleErr) == models.CodeConflict {
			observability.ToggleConflicts.WithLabelValues(string(kind)).Inc()
		}
		err = translateStorageErr(toggleErr, "object", objectID)
		return false, 0, err
	}

	outcome := models.ToggleRemoved
	if added {
		outcome = models.ToggleAdded
	}
	observability.ToggleOutcomes.WithLabelValues(string(kind), string(outcome)).Inc()

	switch kind {
	case models.RelationLikePost, models.RelationSavePost:
		cache.InvalidatePost(opCtx, objectID)
	}

	if scopedKey != "" {
		_ = s.idem.Record(opCtx, userID, scopedKey, cache.RecordedToggle{Added: added, Count: count})
	}

	s.notifier.PublishEngagement(opCtx, notifications.EngagementEvent{
		Kind:     kind,
		Outcome:  outcome,
		UserID:   userID,
		ObjectID: objectID,
		Count:    count,
	})

	return added, count, nil
}

// checkObject enforces the per-kind referential precondition. Post-scoped
// relations need a live post; comment likes only need the comment to exist.
func (s *EngagementService) checkObject(ctx context.Context, kind models.RelationKind, objectID uint) error {
	switch kind {
	case models.RelationLikePost, models.RelationSavePost:
		if _, err := s.posts.GetByID(ctx, objectID); err != nil {
			return translateStorageErr(err, "post", objectID)
		}
	case models.RelationLikeComment:
		if _, err := s.comments.GetByID(ctx, objectID); err != nil {
			return translateStorageErr(err, "comment", objectID)
		}
	default:
		return models.NewValidationError("Unknown relation kind")
	}
	return nil
}

// AddComment creates a comment on a live post and bumps the post's comment
// counter in the same transaction.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, translateStorageErr(err, "post", postID)
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.comments.Create(opCtx, comment); err != nil {
		return nil, translateStorageErr(err, "post", postID)
	}

	created, err := s.comments.GetByID(opCtx, comment.ID)
	if err != nil {
		return nil, translateStorageErr(err, "comment", comment.ID)
	}
	return created, nil
}

// DeleteComment hard-deletes the caller's own comment. Forbidden for anyone
// else, distinct from NotFound when the comment is already gone.
func (s *EngagementService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return translateStorageErr(err, "comment", commentID)
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.comments.Delete(opCtx, comment); err != nil {
		return translateStorageErr(err, "comment", commentID)
	}
	return nil
}

// ListComments returns a snapshot page of a post's comments. The parent is
// deliberately not re-validated: comments outlive a tombstoned post.
func (s *EngagementService) ListComments(ctx context.Context, userID, postID uint, newestFirst bool, limit, offset int) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID, newestFirst, limit, offset)
	if err != nil {
		return nil, translateStorageErr(err, "post", postID)
	}
	if userID != 0 && len(comments) > 0 {
		ids := make([]uint, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		liked, err := s.memberships.ObjectsAmong(ctx, models.RelationLikeComment, userID, ids)
		if err != nil {
			return nil, err
		}
		likedSet := make(map[uint]bool, len(liked))
		for _, id := range liked {
			likedSet[id] = true
		}
		for _, c := range comments {
			c.Liked = likedSet[c.ID]
		}
	}
	return comments, nil
}

// ListSavedPosts returns the caller's saved set, newest save first.
// Saves pointing at tombstoned posts are orphaned ledger rows and are
// silently skipped here rather than cascaded away.
func (s *EngagementService) ListSavedPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	ids, err := s.memberships.ObjectsFor(ctx, models.RelationSavePost, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Post, len(posts))
	for _, p := range posts {
		p.Saved = true
		byID[p.ID] = p
	}
	// Preserve save order; drop orphans.
	ordered := make([]*models.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if len(ordered) > 0 {
		postIDs := make([]uint, len(ordered))
		for i, p := range ordered {
			postIDs[i] = p.ID
		}
		liked, err := s.memberships.ObjectsAmong(ctx, models.RelationLikePost, userID, postIDs)
		if err != nil {
			return nil, err
		}
		likedSet := make(map[uint]bool, len(liked))
		for _, id := range liked {
			likedSet[id] = true
		}
		for _, p := range ordered {
			p.Liked = likedSet[p.ID]
		}
	}

	return ordered, nil
}
