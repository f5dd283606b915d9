package persistent

import (
	"context"

	"community-board/internal/entity"
	"community-board/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id uint) (*entity.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*entity.Comment, error)
	Update(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(commentModel).Error; err != nil {
		return translate(err, "create comment")
	}
	comment.ID = commentModel.ID
	comment.CreatedAt = commentModel.CreatedAt
	comment.UpdatedAt = commentModel.UpdatedAt
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var commentModel model.CommentModel
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&commentModel).Error; err != nil {
		return nil, translate(err, "get comment by id")
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&commentModels).Error
	if err != nil {
		return nil, translate(err, "list comments")
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).Model(&model.CommentModel{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return translate(result.Error, "update comment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CommentModel{})
	if result.Error != nil {
		return translate(result.Error, "delete comment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
