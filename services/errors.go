package services

import "errors"

// Ошибки доменного уровня. Хендлеры мапят их на HTTP-статусы через errors.Is,
// сами сервисы статусов не знают.
var (
	// ErrForbidden - актор пытается изменить чужой ресурс
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound - указанный пользователь, пост или уведомление не существует
	ErrNotFound = errors.New("not found")
	// ErrSelfFollow - попытка подписаться на самого себя
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrEmptyComment - текст комментария пуст после обрезки пробелов
	ErrEmptyComment = errors.New("comment text is empty")
	// ErrEmptyPost - текст поста пуст после обрезки пробелов
	ErrEmptyPost = errors.New("post content is empty")
)
