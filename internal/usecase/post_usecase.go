package usecase

import (
	"context"
	"errors"
	"math"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/repo/persistent"
	"community-board/pkg/logger"
	"community-board/pkg/storage"

	"github.com/google/uuid"
)

type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

type PostUseCase interface {
	List(ctx context.Context, page, size int) ([]*entity.Post, error)
	Get(ctx context.Context, postID uint, viewer entity.Identity) (*entity.Post, error)
	Create(ctx context.Context, in PostInput, owner entity.Identity) (*entity.Post, error)
	Update(ctx context.Context, postID uint, update entity.PostUpdate, requester entity.Identity) error
	Delete(ctx context.Context, postID uint, requester entity.Identity) error
	Like(ctx context.Context, postID uint, user entity.Identity) (int64, error)
	Unlike(ctx context.Context, postID uint, user entity.Identity) (int64, error)
	UploadImage(ctx context.Context, file Upload) (string, error)
}

type PostOptions struct {
	MaxPageSize int
	Upload      UploadPolicy
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	uploader    *imageUploader
	events      *activityEvents
	maxPageSize int
	logger      *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	store storage.Storage,
	publisher ActivityPublisher,
	opts PostOptions,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		uploader:    newImageUploader(store, opts.Upload),
		events:      newActivityEvents(publisher, logger),
		maxPageSize: opts.MaxPageSize,
		logger:      logger,
	}
}

func (uc *postUseCase) List(ctx context.Context, page, size int) ([]*entity.Post, error) {
	if page <= 0 {
		return nil, apperr.Invalid("page", "greater_than", "page must be greater than 0")
	}
	if size <= 0 {
		return nil, apperr.Invalid("size", "greater_than", "size must be greater than 0")
	}
	if uc.maxPageSize > 0 && size > uc.maxPageSize {
		size = uc.maxPageSize
	}
	if page-1 > math.MaxInt/size {
		return nil, apperr.Invalid("page", "less_than", "page is too large")
	}

	posts, err := uc.postRepo.List(ctx, size, (page-1)*size)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return posts, nil
}

// Get returns the post with fresh counters. An authenticated viewer's first visit is recorded
// before the counters are read.
func (uc *postUseCase) Get(ctx context.Context, postID uint, viewer entity.Identity) (*entity.Post, error) {
	post, err := uc.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !viewer.IsZero() {
		if err := uc.postRepo.RecordView(ctx, postID, viewer.UserID()); err != nil {
			return nil, apperr.Internal(err)
		}
		liked, err := uc.postRepo.IsLiked(ctx, postID, viewer.UserID())
		if err != nil {
			return nil, apperr.Internal(err)
		}
		post.IsLiked = liked
	}

	counts, err := uc.postRepo.Counts(ctx, postID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	post.LikeCount = counts.Likes
	post.ViewCount = counts.Views
	post.CommentCount = counts.Comments
	return post, nil
}

func (uc *postUseCase) Create(ctx context.Context, in PostInput, owner entity.Identity) (*entity.Post, error) {
	if owner.IsZero() {
		return nil, apperr.ErrUnauthorized
	}

	post := &entity.Post{
		UserID:   owner.UserID(),
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, apperr.Internal(err)
	}
	return post, nil
}

func (uc *postUseCase) Update(ctx context.Context, postID uint, update entity.PostUpdate, requester entity.Identity) error {
	if err := uc.authorize(ctx, postID, requester); err != nil {
		return err
	}

	if err := uc.postRepo.Update(ctx, postID, update); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrPostNotFound
		}
		return apperr.Internal(err)
	}
	return nil
}

func (uc *postUseCase) Delete(ctx context.Context, postID uint, requester entity.Identity) error {
	if err := uc.authorize(ctx, postID, requester); err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrPostNotFound
		}
		uc.logger.Error("Failed to delete post %d: %v", postID, err)
		return apperr.Internal(err)
	}
	return nil
}

func (uc *postUseCase) Like(ctx context.Context, postID uint, user entity.Identity) (int64, error) {
	if err := uc.ensureExists(ctx, postID); err != nil {
		return 0, err
	}

	likeCount, err := uc.postRepo.Like(ctx, postID, user.UserID())
	if errors.Is(err, persistent.ErrDuplicate) {
		return 0, apperr.ErrAlreadyLiked
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}

	uc.events.postLiked(postID, user.UserID(), likeCount)
	return likeCount, nil
}

func (uc *postUseCase) Unlike(ctx context.Context, postID uint, user entity.Identity) (int64, error) {
	if err := uc.ensureExists(ctx, postID); err != nil {
		return 0, err
	}

	likeCount, err := uc.postRepo.Unlike(ctx, postID, user.UserID())
	if errors.Is(err, persistent.ErrNotFound) {
		return 0, apperr.ErrAlreadyUnliked
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return likeCount, nil
}

func (uc *postUseCase) UploadImage(ctx context.Context, file Upload) (string, error) {
	return uc.uploader.save(ctx, "image/posts/"+uuid.New().String(), file)
}

func (uc *postUseCase) load(ctx context.Context, postID uint) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, apperr.ErrPostNotFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return post, nil
}

func (uc *postUseCase) ensureExists(ctx context.Context, postID uint) error {
	ok, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.ErrPostNotFound
	}
	return nil
}

func (uc *postUseCase) authorize(ctx context.Context, postID uint, requester entity.Identity) error {
	post, err := uc.load(ctx, postID)
	if err != nil {
		return err
	}
	if !requester.Owns(post.UserID) {
		return apperr.ErrForbidden
	}
	return nil
}
