package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/models"
)

func TestListForPostOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "anna")
	post := seedPost(t, db, author, nil, "discussed", time.Now())

	first := models.Comment{PostID: post.ID, UserID: reader.ID, Text: "first", Created: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	second := models.Comment{PostID: post.ID, UserID: author.ID, Text: "second", Created: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	comments, err := repo.ListForPost(post.ID)
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)
	assert.Equal(t, "anna", comments[1].User.Username)
}

func TestListForPostScopedToPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	author := seedUser(t, db, "leo")
	a := seedPost(t, db, author, nil, "post a", time.Now())
	b := seedPost(t, db, author, nil, "post b", time.Now())

	seedComment(t, db, a, author, "on a")
	seedComment(t, db, b, author, "on b")

	comments, err := repo.ListForPost(a.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on a", comments[0].Text)
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	author := seedUser(t, db, "leo")
	post := seedPost(t, db, author, nil, "post", time.Now())
	comment := seedComment(t, db, post, author, "temporary")

	require.NoError(t, repo.Delete(&comment))

	comments, err := repo.ListForPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
