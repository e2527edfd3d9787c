package services

import (
	"testing"

	"pulse/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	post := models.Post{ID: 1, AuthorID: 10}
	comment := models.Comment{ID: 2, AuthorID: 20}

	assert.True(t, CanMutate(10, ownedPost(post)))
	assert.False(t, CanMutate(11, ownedPost(post)))

	assert.True(t, CanMutate(20, ownedComment(comment)))
	assert.False(t, CanMutate(10, ownedComment(comment)))
}

func TestMustOwn(t *testing.T) {
	post := models.Post{ID: 1, AuthorID: 10}

	assert.NoError(t, mustOwn(10, ownedPost(post)))
	assert.ErrorIs(t, mustOwn(11, ownedPost(post)), ErrForbidden)
}
