package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/repository"
	"yatube/utils"
)

// FollowController manages author subscriptions and the personal feed.
type FollowController struct {
	follows *repository.FollowRepository
	users   *repository.UserRepository
	posts   *repository.PostRepository
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(follows *repository.FollowRepository, users *repository.UserRepository, posts *repository.PostRepository) *FollowController {
	return &FollowController{follows: follows, users: users, posts: posts}
}

// Follow subscribes the authenticated user to an author. Following yourself
// or an author you already follow changes nothing.
func (f *FollowController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	author, err := f.users.GetByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	if author.ID != userID {
		if err := f.follows.Follow(userID, author.ID); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to follow author")
			return
		}
	}

	utils.Success(ctx, gin.H{"following": author.ID != userID})
}

// Unfollow removes a subscription. Unfollowing an author you do not follow
// is a no-op.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	author, err := f.users.GetByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	if err := f.follows.Unfollow(userID, author.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to unfollow author")
		return
	}

	utils.Success(ctx, gin.H{"following": false})
}

// Feed returns one page of posts by authors the authenticated user follows.
func (f *FollowController) Feed(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page := repository.ParsePage(ctx.Query("page"))
	posts, meta, err := f.posts.Feed(userID, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load feed")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "page": meta})
}
