package http

import (
	"time"

	"github.com/jinzhu/copier"
)

type AuthorResponse struct {
	ID              uint   `json:"userId"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type UserResponse struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type LoginUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	AuthToken string `json:"authToken,omitempty"`
}

type LoginResponse struct {
	User LoginUser `json:"user"`
}

type PostResponse struct {
	ID           uint           `json:"postId"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	ImageURL     string         `json:"imageUrl"`
	LikeCount    int64          `json:"likeCount"`
	CommentCount int64          `json:"commentCount"`
	ViewCount    int64          `json:"hits"`
	IsLiked      bool           `json:"isLiked"`
	Author       AuthorResponse `json:"author"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type CommentResponse struct {
	ID        uint           `json:"commentId"`
	PostID    uint           `json:"postId"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type PostIDResponse struct {
	PostID uint `json:"postId"`
}

type CommentIDResponse struct {
	CommentID uint `json:"commentId"`
}

type LikeCountResponse struct {
	LikeCount int64 `json:"likeCount"`
}

type PostFileResponse struct {
	PostFileURL string `json:"postFileUrl"`
}

type ProfileImageResponse struct {
	ProfileImageURL string `json:"profileImageUrl"`
}

// copyTo fills a response DTO from an entity (or slice of entities) by field name.
func copyTo(to, from interface{}) error {
	return copier.Copy(to, from)
}
