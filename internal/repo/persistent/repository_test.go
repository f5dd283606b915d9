package persistent_test

import (
	"context"
	"testing"
	"time"

	"community-board/internal/entity"
	"community-board/internal/model"
	"community-board/internal/repo/persistent"
	"community-board/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repos struct {
	db       *gorm.DB
	users    persistent.UserRepository
	posts    persistent.PostRepository
	comments persistent.CommentRepository
}

func setup(t *testing.T) repos {
	db := testdb.New(t)
	return repos{
		db:       db,
		users:    persistent.NewUserRepository(db),
		posts:    persistent.NewPostRepository(db),
		comments: persistent.NewCommentRepository(db),
	}
}

func (r repos) user(t *testing.T, email, nickname string) *entity.User {
	u := &entity.User{Email: email, Password: "hash", Nickname: nickname}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r repos) post(t *testing.T, userID uint, title string) *entity.Post {
	p := &entity.Post{UserID: userID, Title: title, Content: "body"}
	require.NoError(t, r.posts.Create(context.Background(), p))
	return p
}

func TestUserRepository_CreateNormalizesEmail(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	u := r.user(t, "  Neo@Matrix.IO ", "neo")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "neo@matrix.io", u.Email)

	found, err := r.users.GetByEmail(ctx, "NEO@matrix.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	exists, err := r.users.EmailExists(ctx, "neo@MATRIX.io")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_Duplicates(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	r.user(t, "neo@matrix.io", "neo")

	err := r.users.Create(ctx, &entity.User{Email: "neo@matrix.io", Password: "x", Nickname: "other"})
	assert.ErrorIs(t, err, persistent.ErrDuplicate)

	err = r.users.Create(ctx, &entity.User{Email: "other@matrix.io", Password: "x", Nickname: "neo"})
	assert.ErrorIs(t, err, persistent.ErrDuplicate)
}

func TestUserRepository_NotFound(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	_, err := r.users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, persistent.ErrNotFound)

	_, err = r.users.GetByNickname(ctx, "ghost")
	assert.ErrorIs(t, err, persistent.ErrNotFound)

	nickname := "x"
	assert.ErrorIs(t, r.users.Update(ctx, 42, entity.UserUpdate{Nickname: &nickname}), persistent.ErrNotFound)
	assert.ErrorIs(t, r.users.Update(ctx, 42, entity.UserUpdate{}), persistent.ErrNotFound)
	assert.ErrorIs(t, r.users.Delete(ctx, 42), persistent.ErrNotFound)
}

func TestUserRepository_UpdatePartial(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := r.user(t, "neo@matrix.io", "neo")

	image := "/public/image/profile/1.png"
	require.NoError(t, r.users.Update(ctx, u.ID, entity.UserUpdate{ProfileImageURL: &image}))
	require.NoError(t, r.users.UpdatePassword(ctx, u.ID, "new-hash"))

	got, err := r.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "neo", got.Nickname)
	assert.Equal(t, image, got.ProfileImageURL)
	assert.Equal(t, "new-hash", got.Password)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	bob := r.user(t, "bob@example.com", "bob")

	alicePost := r.post(t, alice.ID, "alice post")
	bobPost := r.post(t, bob.ID, "bob post")

	require.NoError(t, r.comments.Create(ctx, &entity.Comment{PostID: alicePost.ID, UserID: bob.ID, Content: "bob on alice"}))
	require.NoError(t, r.comments.Create(ctx, &entity.Comment{PostID: bobPost.ID, UserID: alice.ID, Content: "alice on bob"}))
	require.NoError(t, r.comments.Create(ctx, &entity.Comment{PostID: bobPost.ID, UserID: bob.ID, Content: "bob on bob"}))
	_, err := r.posts.Like(ctx, bobPost.ID, alice.ID)
	require.NoError(t, err)
	_, err = r.posts.Like(ctx, alicePost.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, r.posts.RecordView(ctx, bobPost.ID, alice.ID))
	require.NoError(t, r.posts.RecordView(ctx, alicePost.ID, bob.ID))

	require.NoError(t, r.users.Delete(ctx, alice.ID))

	_, err = r.users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, persistent.ErrNotFound)
	_, err = r.posts.GetByID(ctx, alicePost.ID)
	assert.ErrorIs(t, err, persistent.ErrNotFound)

	var unscoped int64
	require.NoError(t, r.db.Unscoped().Model(&model.UserModel{}).Where("id = ?", alice.ID).Count(&unscoped).Error)
	assert.Zero(t, unscoped)

	counts, err := r.posts.Counts(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostCounts{Likes: 0, Views: 0, Comments: 1}, counts)

	var orphans int64
	require.NoError(t, r.db.Model(&model.CommentModel{}).Where("post_id = ?", alicePost.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
	require.NoError(t, r.db.Model(&model.LikeModel{}).Where("post_id = ?", alicePost.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
	require.NoError(t, r.db.Model(&model.ViewModel{}).Where("post_id = ?", alicePost.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestPostRepository_ListOrderAndCounts(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	bob := r.user(t, "bob@example.com", "bob")

	first := r.post(t, alice.ID, "first")
	second := r.post(t, alice.ID, "second")
	third := r.post(t, bob.ID, "third")

	// Same timestamp on every row so ordering falls back to id.
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.db.Model(&model.PostModel{}).Where("1 = 1").Update("created_at", stamp).Error)

	_, err := r.posts.Like(ctx, second.ID, alice.ID)
	require.NoError(t, err)
	_, err = r.posts.Like(ctx, second.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, r.posts.RecordView(ctx, second.ID, bob.ID))
	require.NoError(t, r.comments.Create(ctx, &entity.Comment{PostID: first.ID, UserID: bob.ID, Content: "hi"}))

	page, err := r.posts.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, third.ID, page[0].ID)
	assert.Equal(t, "bob", page[0].Author.Nickname)
	assert.Equal(t, second.ID, page[1].ID)
	assert.Equal(t, int64(2), page[1].LikeCount)
	assert.Equal(t, int64(1), page[1].ViewCount)
	assert.Equal(t, "alice", page[1].Author.Nickname)

	page, err = r.posts.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
	assert.Equal(t, int64(1), page[0].CommentCount)
	assert.Zero(t, page[0].LikeCount)

	page, err = r.posts.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestPostRepository_RecordViewOnce(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	p := r.post(t, alice.ID, "post")

	for i := 0; i < 3; i++ {
		require.NoError(t, r.posts.RecordView(ctx, p.ID, alice.ID))
	}

	counts, err := r.posts.Counts(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Views)
}

func TestPostRepository_LikeUnlike(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	bob := r.user(t, "bob@example.com", "bob")
	p := r.post(t, alice.ID, "post")

	n, err := r.posts.Like(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.posts.Like(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = r.posts.Like(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, persistent.ErrDuplicate)

	liked, err := r.posts.IsLiked(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err = r.posts.Unlike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.posts.Unlike(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, persistent.ErrNotFound)
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	p := r.post(t, alice.ID, "title")
	require.NoError(t, r.comments.Create(ctx, &entity.Comment{PostID: p.ID, UserID: alice.ID, Content: "c"}))

	title := "new title"
	require.NoError(t, r.posts.Update(ctx, p.ID, entity.PostUpdate{Title: &title}))
	require.NoError(t, r.posts.Update(ctx, p.ID, entity.PostUpdate{}))

	got, err := r.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "body", got.Content)

	require.NoError(t, r.posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, r.posts.Delete(ctx, p.ID), persistent.ErrNotFound)
	assert.ErrorIs(t, r.posts.Update(ctx, p.ID, entity.PostUpdate{Title: &title}), persistent.ErrNotFound)

	comments, err := r.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentRepository(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	alice := r.user(t, "alice@example.com", "alice")
	p := r.post(t, alice.ID, "post")

	c1 := &entity.Comment{PostID: p.ID, UserID: alice.ID, Content: "one"}
	c2 := &entity.Comment{PostID: p.ID, UserID: alice.ID, Content: "two"}
	require.NoError(t, r.comments.Create(ctx, c1))
	require.NoError(t, r.comments.Create(ctx, c2))

	list, err := r.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c2.ID, list[0].ID)
	assert.Equal(t, "alice", list[0].Author.Nickname)

	require.NoError(t, r.comments.Update(ctx, c1.ID, "edited"))
	got, err := r.comments.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, r.comments.Delete(ctx, c1.ID))
	_, err = r.comments.GetByID(ctx, c1.ID)
	assert.ErrorIs(t, err, persistent.ErrNotFound)
	assert.ErrorIs(t, r.comments.Update(ctx, c1.ID, "x"), persistent.ErrNotFound)
	assert.ErrorIs(t, r.comments.Delete(ctx, c1.ID), persistent.ErrNotFound)
}
