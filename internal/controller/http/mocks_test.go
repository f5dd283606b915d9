package http

import (
	"context"

	"community-board/internal/entity"
	"community-board/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Signup(ctx context.Context, in usecase.SignupInput) (*entity.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) CurrentUser(ctx context.Context, credential string) (*entity.User, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, credential string) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockAuthUseCase) CheckEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthUseCase) CheckNickname(ctx context.Context, nickname string) error {
	return m.Called(ctx, nickname).Error(0)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Get(ctx context.Context, userID uint, requester entity.Identity) (*entity.User, error) {
	args := m.Called(ctx, userID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Update(ctx context.Context, userID uint, update entity.UserUpdate, requester entity.Identity) (*entity.User, error) {
	args := m.Called(ctx, userID, update, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdatePassword(ctx context.Context, userID uint, change usecase.PasswordChange, requester entity.Identity) error {
	return m.Called(ctx, userID, change, requester).Error(0)
}

func (m *MockUserUseCase) Delete(ctx context.Context, userID uint, requester entity.Identity) error {
	return m.Called(ctx, userID, requester).Error(0)
}

func (m *MockUserUseCase) UploadProfileImage(ctx context.Context, userID uint, file usecase.Upload, requester entity.Identity) (string, error) {
	args := m.Called(ctx, userID, file, requester)
	return args.String(0), args.Error(1)
}

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) List(ctx context.Context, page, size int) ([]*entity.Post, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Get(ctx context.Context, postID uint, viewer entity.Identity) (*entity.Post, error) {
	args := m.Called(ctx, postID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Create(ctx context.Context, in usecase.PostInput, owner entity.Identity) (*entity.Post, error) {
	args := m.Called(ctx, in, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Update(ctx context.Context, postID uint, update entity.PostUpdate, requester entity.Identity) error {
	return m.Called(ctx, postID, update, requester).Error(0)
}

func (m *MockPostUseCase) Delete(ctx context.Context, postID uint, requester entity.Identity) error {
	return m.Called(ctx, postID, requester).Error(0)
}

func (m *MockPostUseCase) Like(ctx context.Context, postID uint, user entity.Identity) (int64, error) {
	args := m.Called(ctx, postID, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostUseCase) Unlike(ctx context.Context, postID uint, user entity.Identity) (int64, error) {
	args := m.Called(ctx, postID, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostUseCase) UploadImage(ctx context.Context, file usecase.Upload) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) List(ctx context.Context, postID uint) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Create(ctx context.Context, postID uint, content string, author entity.Identity) (*entity.Comment, error) {
	args := m.Called(ctx, postID, content, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Update(ctx context.Context, postID, commentID uint, content string, requester entity.Identity) error {
	return m.Called(ctx, postID, commentID, content, requester).Error(0)
}

func (m *MockCommentUseCase) Delete(ctx context.Context, postID, commentID uint, requester entity.Identity) error {
	return m.Called(ctx, postID, commentID, requester).Error(0)
}

var (
	_ usecase.AuthUseCase    = (*MockAuthUseCase)(nil)
	_ usecase.UserUseCase    = (*MockUserUseCase)(nil)
	_ usecase.PostUseCase    = (*MockPostUseCase)(nil)
	_ usecase.CommentUseCase = (*MockCommentUseCase)(nil)
)
