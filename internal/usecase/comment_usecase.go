package usecase

import (
	"context"
	"errors"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/repo/persistent"
	"community-board/pkg/logger"
)

type CommentUseCase interface {
	List(ctx context.Context, postID uint) ([]*entity.Comment, error)
	Create(ctx context.Context, postID uint, content string, author entity.Identity) (*entity.Comment, error)
	Update(ctx context.Context, postID, commentID uint, content string, requester entity.Identity) error
	Delete(ctx context.Context, postID, commentID uint, requester entity.Identity) error
}

type commentUseCase struct {
	postRepo    persistent.PostRepository
	commentRepo persistent.CommentRepository
	events      *activityEvents
	logger      *logger.Logger
}

func NewCommentUseCase(
	postRepo persistent.PostRepository,
	commentRepo persistent.CommentRepository,
	publisher ActivityPublisher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		events:      newActivityEvents(publisher, logger),
		logger:      logger,
	}
}

func (uc *commentUseCase) List(ctx context.Context, postID uint) ([]*entity.Comment, error) {
	if err := uc.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return comments, nil
}

func (uc *commentUseCase) Create(ctx context.Context, postID uint, content string, author entity.Identity) (*entity.Comment, error) {
	if err := uc.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:  postID,
		UserID:  author.UserID(),
		Content: content,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		uc.logger.Error("Failed to create comment: %v", err)
		return nil, apperr.Internal(err)
	}

	uc.events.commentCreated(postID, comment.ID, author.UserID())
	return comment, nil
}

func (uc *commentUseCase) Update(ctx context.Context, postID, commentID uint, content string, requester entity.Identity) error {
	if err := uc.authorize(ctx, postID, commentID, requester); err != nil {
		return err
	}

	if err := uc.commentRepo.Update(ctx, commentID, content); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrCommentNotFound
		}
		return apperr.Internal(err)
	}
	return nil
}

func (uc *commentUseCase) Delete(ctx context.Context, postID, commentID uint, requester entity.Identity) error {
	if err := uc.authorize(ctx, postID, commentID, requester); err != nil {
		return err
	}

	if err := uc.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrCommentNotFound
		}
		return apperr.Internal(err)
	}
	return nil
}

func (uc *commentUseCase) ensurePost(ctx context.Context, postID uint) error {
	ok, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.ErrPostNotFound
	}
	return nil
}

// authorize checks, in order, that the post exists, that the comment exists under that post,
// and that the requester wrote it.
func (uc *commentUseCase) authorize(ctx context.Context, postID, commentID uint, requester entity.Identity) error {
	if err := uc.ensurePost(ctx, postID); err != nil {
		return err
	}

	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, persistent.ErrNotFound) {
		return apperr.ErrCommentNotFound
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if comment.PostID != postID {
		return apperr.ErrCommentNotFound
	}
	if !requester.Owns(comment.UserID) {
		return apperr.ErrForbidden
	}
	return nil
}
