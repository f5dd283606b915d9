package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/repo/persistent"
	"community-board/pkg/logger"
	"community-board/pkg/storage"
)

type PasswordChange struct {
	NewPassword     string
	CurrentPassword string
}

type UserUseCase interface {
	Get(ctx context.Context, userID uint, requester entity.Identity) (*entity.User, error)
	Update(ctx context.Context, userID uint, update entity.UserUpdate, requester entity.Identity) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID uint, change PasswordChange, requester entity.Identity) error
	Delete(ctx context.Context, userID uint, requester entity.Identity) error
	UploadProfileImage(ctx context.Context, userID uint, file Upload, requester entity.Identity) (string, error)
}

type userUseCase struct {
	userRepo               persistent.UserRepository
	uploader               *imageUploader
	requireCurrentPassword bool
	logger                 *logger.Logger
}

type UserOptions struct {
	RequireCurrentPassword bool
	Upload                 UploadPolicy
}

func NewUserUseCase(
	userRepo persistent.UserRepository,
	store storage.Storage,
	opts UserOptions,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo:               userRepo,
		uploader:               newImageUploader(store, opts.Upload),
		requireCurrentPassword: opts.RequireCurrentPassword,
		logger:                 logger,
	}
}

func (uc *userUseCase) load(ctx context.Context, userID uint, requester entity.Identity) (*entity.User, error) {
	if !requester.Owns(userID) {
		return nil, apperr.ErrForbidden
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (uc *userUseCase) Get(ctx context.Context, userID uint, requester entity.Identity) (*entity.User, error) {
	user, err := uc.load(ctx, userID, requester)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (uc *userUseCase) Update(ctx context.Context, userID uint, update entity.UserUpdate, requester entity.Identity) (*entity.User, error) {
	if _, err := uc.load(ctx, userID, requester); err != nil {
		return nil, err
	}

	if update.Nickname != nil {
		holder, err := uc.userRepo.GetByNickname(ctx, *update.Nickname)
		switch {
		case errors.Is(err, persistent.ErrNotFound):
		case err != nil:
			return nil, apperr.Internal(err)
		case holder.ID != userID:
			return nil, apperr.ErrNicknameExists
		}
	}

	if err := uc.userRepo.Update(ctx, userID, update); err != nil {
		switch {
		case errors.Is(err, persistent.ErrDuplicate):
			return nil, apperr.ErrNicknameExists
		case errors.Is(err, persistent.ErrNotFound):
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}

	return uc.Get(ctx, userID, requester)
}

func (uc *userUseCase) UpdatePassword(ctx context.Context, userID uint, change PasswordChange, requester entity.Identity) error {
	user, err := uc.load(ctx, userID, requester)
	if err != nil {
		return err
	}

	if uc.requireCurrentPassword && !verifyPassword(user.Password, change.CurrentPassword) {
		return apperr.ErrInvalidCurrentPassword
	}

	hashed, err := hashPassword(change.NewPassword)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return apperr.Internal(err)
	}

	if err := uc.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return apperr.Internal(err)
	}
	return nil
}

func (uc *userUseCase) Delete(ctx context.Context, userID uint, requester entity.Identity) error {
	if !requester.Owns(userID) {
		return apperr.ErrForbidden
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		uc.logger.Error("Failed to delete user %d: %v", userID, err)
		return apperr.Internal(err)
	}
	return nil
}

func (uc *userUseCase) UploadProfileImage(ctx context.Context, userID uint, file Upload, requester entity.Identity) (string, error) {
	user, err := uc.load(ctx, userID, requester)
	if err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("image/profile/%d", userID)
	url, err := uc.uploader.save(ctx, prefix, file)
	if err != nil {
		return "", err
	}

	if err := uc.userRepo.Update(ctx, userID, entity.UserUpdate{ProfileImageURL: &url}); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", apperr.Internal(err)
	}

	// An upload with another extension lands on a new key; the old object is removed.
	oldKey := profileObjectKey(user.ProfileImageURL, prefix)
	if oldKey != "" && oldKey != profileObjectKey(url, prefix) {
		if err := uc.uploader.store.Delete(ctx, oldKey); err != nil {
			uc.logger.Warn("Failed to delete old profile image %s: %v", oldKey, err)
		}
	}
	return url, nil
}

// profileObjectKey recovers the storage key from a profile image URL, or "" when the URL does not
// point at an uploaded profile image under prefix.
func profileObjectKey(url, prefix string) string {
	i := strings.LastIndex(url, "/"+prefix+".")
	if i < 0 {
		return ""
	}
	key := url[i+1:]
	if _, err := imageExtension(key); err != nil {
		return ""
	}
	return key
}
