package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yatube/models"
)

func TestListAllOrdersByTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	seedGroup(t, db, "Zebras", "zebras")
	seedGroup(t, db, "Ants", "ants")
	seedGroup(t, db, "Moths", "moths")

	groups, err := repo.ListAll()
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, "Ants", groups[0].Title)
	assert.Equal(t, "Moths", groups[1].Title)
	assert.Equal(t, "Zebras", groups[2].Title)
}

func TestSlugTaken(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)
	seedGroup(t, db, "Cats", "cats")

	taken, err := repo.SlugTaken("cats")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugTaken("dogs")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGetBySlugUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	_, err := repo.GetBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteGroupKeepsPostsUngrouped(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)
	posts := NewPostRepository(db, 10)

	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "Doomed", "doomed")
	post := seedPost(t, db, author, &group, "survives the group", time.Now())

	require.NoError(t, repo.Delete(&group))

	_, err := repo.GetBySlug("doomed")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	survivor, err := posts.Get(post.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.GroupID)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
