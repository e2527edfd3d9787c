package services

import "pulse/models"

// Owned - ресурс, принадлежащий ровно одному автору (пост, комментарий)
type Owned interface {
	OwnerID() int64
}

type ownedPost models.Post

func (p ownedPost) OwnerID() int64 { return p.AuthorID }

type ownedComment models.Comment

func (c ownedComment) OwnerID() int64 { return c.AuthorID }

// CanMutate - единая проверка права на изменение ресурса:
// писать может только владелец, читать могут все (включая анонимов).
// Вызывается перед каждой мутацией поста или комментария.
func CanMutate(actorID int64, resource Owned) bool {
	return resource.OwnerID() == actorID
}

// mustOwn возвращает ErrForbidden, если актор не владеет ресурсом
func mustOwn(actorID int64, resource Owned) error {
	if !CanMutate(actorID, resource) {
		return ErrForbidden
	}
	return nil
}
