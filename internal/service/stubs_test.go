package service

import (
	"context"

	"inkwell/internal/models"
)

// membershipRepoStub is a stub for repository.MembershipRepository.
type membershipRepoStub struct {
	toggleFn       func(context.Context, models.RelationKind, uint, uint) (bool, int, error)
	isMemberFn     func(context.Context, models.RelationKind, uint, uint) (bool, error)
	objectsForFn   func(context.Context, models.RelationKind, uint) ([]uint, error)
	objectsAmongFn func(context.Context, models.RelationKind, uint, []uint) ([]uint, error)
	countForFn     func(context.Context, models.RelationKind, uint) (int64, error)
}

func (s *membershipRepoStub) Toggle(ctx context.Context, kind models.RelationKind, userID, objectID uint) (bool, int, error) {
	return s.toggleFn(ctx, kind, userID, objectID)
}
func (s *membershipRepoStub) IsMember(ctx context.Context, kind models.RelationKind, userID, objectID uint) (bool, error) {
	return s.isMemberFn(ctx, kind, userID, objectID)
}
func (s *membershipRepoStub) ObjectsFor(ctx context.Context, kind models.RelationKind, userID uint) ([]uint, error) {
	return s.objectsForFn(ctx, kind, userID)
}
func (s *membershipRepoStub) ObjectsAmong(ctx context.Context, kind models.RelationKind, userID uint, objectIDs []uint) ([]uint, error) {
	return s.objectsAmongFn(ctx, kind, userID, objectIDs)
}
func (s *membershipRepoStub) CountFor(ctx context.Context, kind models.RelationKind, objectID uint) (int64, error) {
	return s.countForFn(ctx, kind, objectID)
}

func noopMembershipRepo() *membershipRepoStub {
	return &membershipRepoStub{
		toggleFn: func(_ context.Context, _ models.RelationKind, _, _ uint) (bool, int, error) {
			return true, 1, nil
		},
		isMemberFn: func(_ context.Context, _ models.RelationKind, _, _ uint) (bool, error) {
			return false, nil
		},
		objectsForFn: func(_ context.Context, _ models.RelationKind, _ uint) ([]uint, error) {
			return nil, nil
		},
		objectsAmongFn: func(_ context.Context, _ models.RelationKind, _ uint, _ []uint) ([]uint, error) {
			return nil, nil
		},
		countForFn: func(_ context.Context, _ models.RelationKind, _ uint) (int64, error) {
			return 0, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	listFn         func(context.Context, int, int) ([]*models.Post, error)
	listByAuthorFn func(context.Context, uint, int, int, bool) ([]*models.Post, error)
	listByIDsFn    func(context.Context, []uint) ([]*models.Post, error)
	softDeleteFn   func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, includeDrafts bool) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset, includeDrafts)
}
func (s *postRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]*models.Post, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int, _ bool) ([]*models.Post, error) {
			return nil, nil
		},
		listByIDsFn:  func(_ context.Context, _ []uint) ([]*models.Post, error) { return nil, nil },
		softDeleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, bool, int, int) ([]*models.Comment, error)
	deleteFn     func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, newestFirst bool, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, newestFirst, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _ bool, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ *models.Comment) error { return nil },
	}
}
