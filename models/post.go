package models

import "time"

// Post - модель поста пользователя. AuthorID неизменяем после создания.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID  int64     `gorm:"index" json:"author_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// Like - отметка "нравится" на посте, уникальна для пары (post_id, user_id)
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"index:like_post_user_idx,unique" json:"post_id"`
	UserID    int64     `gorm:"index:like_post_user_idx,unique" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// FeedPost - структура для ленты с дополнительной информацией об авторе
type FeedPost struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedResponse - ответ API для ленты
type FeedResponse struct {
	Posts   []FeedPost `json:"posts"`
	HasMore bool       `json:"has_more"`
	LastID  int64      `json:"last_id,omitempty"`
}
