package entity

import "time"

type Author struct {
	ID              uint   `json:"id"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type Post struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl"`
	Author       Author    `json:"author"`
	LikeCount    int64     `json:"likeCount"`
	ViewCount    int64     `json:"viewCount"`
	CommentCount int64     `json:"commentCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// PostCounts are the derived counters of one post.
type PostCounts struct {
	Likes    int64
	Views    int64
	Comments int64
}
