package entity

import "time"

type User struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	Password        string    `json:"-"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserUpdate holds the optional fields of a profile update; nil leaves the column unchanged.
type UserUpdate struct {
	Nickname        *string
	ProfileImageURL *string
}
