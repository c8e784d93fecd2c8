package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/repository"
	"yatube/utils"
)

// ProfileController serves author pages and profile editing.
type ProfileController struct {
	users   *repository.UserRepository
	posts   *repository.PostRepository
	follows *repository.FollowRepository
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(users *repository.UserRepository, posts *repository.PostRepository, follows *repository.FollowRepository) *ProfileController {
	return &ProfileController{users: users, posts: posts, follows: follows}
}

// GetProfile returns an author's account, profile, and social counts. For
// authenticated viewers it also reports whether they follow the author.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	user, err := p.users.GetByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	profile, err := p.users.GetOrCreateProfile(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load profile")
		return
	}

	postCount, err := p.users.PostCount(user.ID)
	if err != nil {
		warnf("post count for user %d: %v", user.ID, err)
	}
	followerCount, err := p.follows.FollowerCount(user.ID)
	if err != nil {
		warnf("follower count for user %d: %v", user.ID, err)
	}
	followingCount, err := p.follows.FollowingCount(user.ID)
	if err != nil {
		warnf("following count for user %d: %v", user.ID, err)
	}

	following := false
	if viewerID, ok := getUserID(ctx); ok && viewerID != user.ID {
		if following, err = p.follows.IsFollowing(viewerID, user.ID); err != nil {
			warnf("following check for user %d: %v", viewerID, err)
		}
	}

	utils.Success(ctx, gin.H{
		"user":            user,
		"profile":         profile,
		"posts_count":     postCount,
		"follower_count":  followerCount,
		"following_count": followingCount,
		"following":       following,
	})
}

// ListUserPosts returns one page of an author's posts, newest first.
func (p *ProfileController) ListUserPosts(ctx *gin.Context) {
	page := repository.ParsePage(ctx.Query("page"))

	user, posts, meta, err := p.posts.ByAuthor(ctx.Param("username"), page)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{"user": user, "items": posts, "page": meta})
}

type profileRequest struct {
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile lets the authenticated user edit their own profile fields.
// Absent fields are left untouched.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	profile, err := p.users.GetOrCreateProfile(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load profile")
		return
	}

	if req.Bio != nil {
		profile.Bio = utils.Sanitize(strings.TrimSpace(*req.Bio))
	}
	if req.Location != nil {
		profile.Location = strings.TrimSpace(*req.Location)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := p.users.UpdateProfile(&profile); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{"profile": profile})
}
