package usecase

import (
	"context"
	"errors"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/repo/persistent"
	"community-board/pkg/logger"
)

type SignupInput struct {
	Email           string
	Password        string
	Nickname        string
	ProfileImageURL string
}

type AuthUseCase interface {
	Signup(ctx context.Context, in SignupInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	CurrentUser(ctx context.Context, credential string) (*entity.User, error)
	Logout(ctx context.Context, credential string) error
	CheckEmail(ctx context.Context, email string) error
	CheckNickname(ctx context.Context, nickname string) error
}

type authUseCase struct {
	userRepo            persistent.UserRepository
	credentials         Credentials
	defaultProfileImage string
	logger              *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	credentials Credentials,
	defaultProfileImage string,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:            userRepo,
		credentials:         credentials,
		defaultProfileImage: defaultProfileImage,
		logger:              logger,
	}
}

func (uc *authUseCase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if err := uc.CheckEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	if err := uc.CheckNickname(ctx, in.Nickname); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, apperr.Internal(err)
	}

	profileImage := in.ProfileImageURL
	if profileImage == "" {
		profileImage = uc.defaultProfileImage
	}

	user := &entity.User{
		Email:           in.Email,
		Nickname:        in.Nickname,
		Password:        hashed,
		ProfileImageURL: profileImage,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			// Lost a race with a concurrent signup; report whichever value is now taken.
			if taken, _ := uc.userRepo.EmailExists(ctx, in.Email); taken {
				return nil, apperr.ErrEmailExists
			}
			return nil, apperr.ErrNicknameExists
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, apperr.Internal(err)
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	if !verifyPassword(user.Password, password) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	credential, err := uc.credentials.Issue(ctx, user.ID)
	if err != nil {
		uc.logger.Error("Failed to issue credential: %v", err)
		return nil, "", apperr.Internal(err)
	}

	user.Password = ""
	return user, credential, nil
}

// CurrentUser resolves the credential and reloads the user, so credentials of deleted accounts
// stop working immediately.
func (uc *authUseCase) CurrentUser(ctx context.Context, credential string) (*entity.User, error) {
	if credential == "" {
		return nil, apperr.ErrUnauthorized
	}

	userID, err := uc.credentials.Resolve(ctx, credential)
	if err != nil {
		return nil, apperr.From(err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Logout(ctx context.Context, credential string) error {
	if err := uc.credentials.Revoke(ctx, credential); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (uc *authUseCase) CheckEmail(ctx context.Context, email string) error {
	if email == "" {
		return apperr.Invalid("email", "missing", "email is required")
	}
	taken, err := uc.userRepo.EmailExists(ctx, email)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.ErrEmailExists
	}
	return nil
}

func (uc *authUseCase) CheckNickname(ctx context.Context, nickname string) error {
	if nickname == "" {
		return apperr.Invalid("nickname", "missing", "nickname is required")
	}
	taken, err := uc.userRepo.NicknameExists(ctx, nickname)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.ErrNicknameExists
	}
	return nil
}
