package models

import "time"

// Comment - комментарий к посту. Жизненный цикл привязан к родительскому посту:
// при удалении поста комментарии удаляются вместе с ним.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"index" json:"post_id"`
	AuthorID  int64     `gorm:"index" json:"author_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
