package persistent

import (
	"context"

	"community-board/internal/entity"
	"community-board/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByNickname(ctx context.Context, nickname string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	Update(ctx context.Context, id uint, update entity.UserUpdate) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return translate(err, "create user")
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, translate(err, "get user by id")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&userModel).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&userModel).Error; err != nil {
		return nil, translate(err, "get user by nickname")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("email = ?", model.NormalizeEmail(email)).Count(&count).Error
	return count > 0, translate(err, "count users by email")
}

func (r *userRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("nickname = ?", nickname).Count(&count).Error
	return count > 0, translate(err, "count users by nickname")
}

func (r *userRepository) Update(ctx context.Context, id uint, update entity.UserUpdate) error {
	values := map[string]interface{}{}
	if update.Nickname != nil {
		values["nickname"] = *update.Nickname
	}
	if update.ProfileImageURL != nil {
		values["profile_image_url"] = *update.ProfileImageURL
	}
	return r.updateColumns(ctx, id, values, "update user")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password": passwordHash}, "update password")
}

func (r *userRepository) updateColumns(ctx context.Context, id uint, values map[string]interface{}, msg string) error {
	db := r.db.WithContext(ctx)
	if len(values) == 0 {
		var count int64
		if err := db.Model(&model.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err, msg)
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}

	result := db.Model(&model.UserModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translate(result.Error, msg)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account and everything that references it in one transaction: the user's
// posts with their comments, likes and views, and the user's own comments, likes and views.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.ViewModel{}, &model.LikeModel{}, &model.CommentModel{}} {
			ownPosts := tx.Model(&model.PostModel{}).Select("id").Where("user_id = ?", id)
			if err := tx.Where("post_id IN (?) OR user_id = ?", ownPosts, id).Delete(m).Error; err != nil {
				return translate(err, "delete user dependents")
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PostModel{}).Error; err != nil {
			return translate(err, "delete user posts")
		}

		result := tx.Unscoped().Where("id = ?", id).Delete(&model.UserModel{})
		if result.Error != nil {
			return translate(result.Error, "delete user")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
