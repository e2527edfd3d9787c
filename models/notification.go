package models

import "time"

// Verb - тип действия, породившего уведомление
type Verb string

const (
	VerbFollowed  Verb = "followed"
	VerbLiked     Verb = "liked"
	VerbCommented Verb = "commented"
)

// TargetKind - вид сущности, на которую указывает уведомление
type TargetKind string

const (
	TargetUser TargetKind = "user"
	TargetPost TargetKind = "post"
)

// Notification - уведомление о действии другого пользователя.
// Target хранится как помеченная пара (kind, id), а не внешний ключ:
// уведомление может указывать и на пользователя, и на пост.
// После создания меняется только флаг IsRead.
type Notification struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     int64      `gorm:"index" json:"actor_id"`
	RecipientID int64      `gorm:"index" json:"recipient_id"`
	Verb        Verb       `gorm:"size:20" json:"verb"`
	TargetKind  TargetKind `gorm:"size:10" json:"target_kind"`
	TargetID    int64      `json:"target_id"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	IsRead      bool       `gorm:"default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
