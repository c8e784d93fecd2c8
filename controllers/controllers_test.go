package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yatube/middleware"
	"yatube/models"
	"yatube/repository"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAMES", "admin")

	gin.SetMode(gin.TestMode)

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

	posts := repository.NewPostRepository(db, 10)
	groups := repository.NewGroupRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	users := repository.NewUserRepository(db)

	authCtrl := NewAuthController(users)
	postCtrl := NewPostController(posts, groups, comments, follows, users)
	groupCtrl := NewGroupController(groups, posts)
	profileCtrl := NewProfileController(users, posts, follows)
	followCtrl := NewFollowController(follows, users, posts)
	bookmarkCtrl := NewBookmarkController(bookmarks, posts)

	router := gin.New()
	api := router.Group("/api/v1")

	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)
	api.GET("/auth/me", middleware.AuthRequired(), authCtrl.Me)

	api.GET("/posts", postCtrl.ListPosts)
	api.GET("/posts/search", postCtrl.SearchPosts)
	api.GET("/posts/saved", middleware.AuthRequired(), bookmarkCtrl.ListSaved)
	api.GET("/posts/feed", middleware.AuthRequired(), followCtrl.Feed)
	api.GET("/posts/:id", middleware.AuthOptional(), postCtrl.GetPost)
	api.POST("/posts", middleware.AuthRequired(), postCtrl.CreatePost)
	api.PUT("/posts/:id", middleware.AuthRequired(), postCtrl.UpdatePost)
	api.DELETE("/posts/:id", middleware.AuthRequired(), postCtrl.DeletePost)
	api.POST("/posts/:id/comments", middleware.AuthRequired(), postCtrl.CreateComment)
	api.POST("/posts/:id/save", middleware.AuthRequired(), bookmarkCtrl.Save)
	api.DELETE("/posts/:id/save", middleware.AuthRequired(), bookmarkCtrl.Remove)
	api.DELETE("/comments/:id", middleware.AuthRequired(), postCtrl.DeleteComment)

	api.GET("/groups", groupCtrl.ListGroups)
	api.POST("/groups", middleware.AuthRequired(), groupCtrl.CreateGroup)
	api.GET("/groups/:slug/posts", groupCtrl.GroupPosts)
	api.POST("/groups/:slug/posts", middleware.AuthRequired(), postCtrl.CreateGroupPost)
	api.DELETE("/groups/:slug", middleware.AuthRequired(), groupCtrl.DeleteGroup)

	api.GET("/users/:username", middleware.AuthOptional(), profileCtrl.GetProfile)
	api.GET("/users/:username/posts", profileCtrl.ListUserPosts)
	api.POST("/users/:username/follow", middleware.AuthRequired(), followCtrl.Follow)
	api.DELETE("/users/:username/follow", middleware.AuthRequired(), followCtrl.Unfollow)
	api.PATCH("/users/me/profile", middleware.AuthRequired(), profileCtrl.UpdateProfile)

	return router, db
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createPost(t *testing.T, router *gin.Engine, token, text string) uint {
	t.Helper()

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/posts", token, gin.H{"text": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotZero(t, data.Post.ID)
	return data.Post.ID
}

func createGroup(t *testing.T, router *gin.Engine, token, title, slug string) {
	t.Helper()

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/groups", token, gin.H{
		"title":       title,
		"slug":        slug,
		"description": title + " description",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
