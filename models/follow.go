package models

import "time"

// Follow - направленная подписка одного пользователя на другого.
// Ребро уникально для пары (follower_id, followee_id), самоподписка запрещена.
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID int64     `gorm:"index:follow_edge_idx,unique" json:"follower_id"`
	FolloweeID int64     `gorm:"index:follow_edge_idx,unique;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
