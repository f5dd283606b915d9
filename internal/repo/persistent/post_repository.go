package persistent

import (
	"context"

	"community-board/internal/entity"
	"community-board/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id uint) (*entity.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Post, error)
	Update(ctx context.Context, id uint, update entity.PostUpdate) error
	Delete(ctx context.Context, id uint) error
	Counts(ctx context.Context, id uint) (entity.PostCounts, error)
	RecordView(ctx context.Context, postID, userID uint) error
	IsLiked(ctx context.Context, postID, userID uint) (bool, error)
	Like(ctx context.Context, postID, userID uint) (int64, error)
	Unlike(ctx context.Context, postID, userID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(postModel).Error; err != nil {
		return translate(err, "create post")
	}
	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	post.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, translate(err, "get post by id")
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err, "count posts")
}

// List returns one page newest first, with author and counters filled in.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, error) {
	db := r.db.WithContext(ctx)

	var postModels []model.PostModel
	err := db.Preload("User").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&postModels).Error
	if err != nil {
		return nil, translate(err, "list posts")
	}

	posts := make([]*entity.Post, len(postModels))
	ids := make([]uint, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
		ids[i] = postModels[i].ID
	}
	if len(ids) == 0 {
		return posts, nil
	}

	likes, err := countByPost(db, &model.LikeModel{}, ids)
	if err != nil {
		return nil, err
	}
	views, err := countByPost(db, &model.ViewModel{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := countByPost(db, &model.CommentModel{}, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		p.LikeCount = likes[p.ID]
		p.ViewCount = views[p.ID]
		p.CommentCount = comments[p.ID]
	}
	return posts, nil
}

type postCount struct {
	PostID uint
	N      int64
}

func countByPost(db *gorm.DB, m interface{}, ids []uint) (map[uint]int64, error) {
	var rows []postCount
	err := db.Model(m).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count by post")
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	return counts, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, update entity.PostUpdate) error {
	values := map[string]interface{}{}
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Content != nil {
		values["content"] = *update.Content
	}
	if update.ImageURL != nil {
		values["image_url"] = *update.ImageURL
	}

	db := r.db.WithContext(ctx)
	if len(values) == 0 {
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}

	result := db.Model(&model.PostModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translate(result.Error, "update post")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.ViewModel{}, &model.LikeModel{}, &model.CommentModel{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return translate(err, "delete post dependents")
			}
		}

		result := tx.Where("id = ?", id).Delete(&model.PostModel{})
		if result.Error != nil {
			return translate(result.Error, "delete post")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) Counts(ctx context.Context, id uint) (entity.PostCounts, error) {
	return counts(r.db.WithContext(ctx), id)
}

func counts(db *gorm.DB, id uint) (entity.PostCounts, error) {
	var c entity.PostCounts
	if err := db.Model(&model.LikeModel{}).Where("post_id = ?", id).Count(&c.Likes).Error; err != nil {
		return c, translate(err, "count likes")
	}
	if err := db.Model(&model.ViewModel{}).Where("post_id = ?", id).Count(&c.Views).Error; err != nil {
		return c, translate(err, "count views")
	}
	if err := db.Model(&model.CommentModel{}).Where("post_id = ?", id).Count(&c.Comments).Error; err != nil {
		return c, translate(err, "count comments")
	}
	return c, nil
}

// RecordView stores the first view of a post by a user; repeat views are ignored.
func (r *postRepository) RecordView(ctx context.Context, postID, userID uint) error {
	view := &model.ViewModel{PostID: postID, UserID: userID}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(view).Error
	return translate(err, "record view")
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LikeModel{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, translate(err, "check like")
}

// Like inserts the (post, user) pair and returns the new like count from the same transaction.
// An existing pair yields ErrDuplicate.
func (r *postRepository) Like(ctx context.Context, postID, userID uint) (int64, error) {
	var likeCount int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.LikeModel{}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Count(&existing).Error; err != nil {
			return translate(err, "check like")
		}
		if existing > 0 {
			return ErrDuplicate
		}

		like := &model.LikeModel{PostID: postID, UserID: userID}
		if err := tx.Omit(clause.Associations).Create(like).Error; err != nil {
			return translate(err, "create like")
		}

		if err := tx.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&likeCount).Error; err != nil {
			return translate(err, "count likes")
		}
		return nil
	})
	return likeCount, err
}

// Unlike removes the pair and returns the new like count. A missing pair yields ErrNotFound.
func (r *postRepository) Unlike(ctx context.Context, postID, userID uint) (int64, error) {
	var likeCount int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.LikeModel{})
		if result.Error != nil {
			return translate(result.Error, "delete like")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&likeCount).Error; err != nil {
			return translate(err, "count likes")
		}
		return nil
	})
	return likeCount, err
}
