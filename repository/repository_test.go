package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yatube/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.Bookmark{},
		&models.PageView{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Provider: "local",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, title, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug, Description: title + " description"}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func seedPost(t *testing.T, db *gorm.DB, user models.User, group *models.Group, text string, pubDate time.Time) models.Post {
	t.Helper()
	post := models.Post{
		UserID:  user.ID,
		Text:    text,
		PubDate: pubDate,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, post models.Post, user models.User, text string) models.Comment {
	t.Helper()
	comment := models.Comment{PostID: post.ID, UserID: user.ID, Text: text}
	require.NoError(t, db.Create(&comment).Error)
	return comment
}

func seedPosts(t *testing.T, db *gorm.DB, user models.User, n int, start time.Time) []models.Post {
	t.Helper()
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, seedPost(t, db, user, nil, fmt.Sprintf("post %d", i), start.Add(time.Duration(i)*time.Minute)))
	}
	return posts
}
