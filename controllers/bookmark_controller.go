package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/models"
	"yatube/repository"
	"yatube/utils"
)

// BookmarkController manages each user's private list of saved posts.
type BookmarkController struct {
	bookmarks *repository.BookmarkRepository
	posts     *repository.PostRepository
}

// NewBookmarkController creates a new BookmarkController instance.
func NewBookmarkController(bookmarks *repository.BookmarkRepository, posts *repository.PostRepository) *BookmarkController {
	return &BookmarkController{bookmarks: bookmarks, posts: posts}
}

// Save adds a post to the authenticated user's saved list. Saving an already
// saved post changes nothing.
func (b *BookmarkController) Save(ctx *gin.Context) {
	userID, post, ok := b.resolve(ctx)
	if !ok {
		return
	}

	if err := b.bookmarks.Save(userID, post.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to save post")
		return
	}

	utils.Success(ctx, gin.H{"saved": true})
}

// Remove takes a post off the saved list. Removing a post that is not saved
// is a no-op.
func (b *BookmarkController) Remove(ctx *gin.Context) {
	userID, post, ok := b.resolve(ctx)
	if !ok {
		return
	}

	if err := b.bookmarks.Remove(userID, post.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to remove saved post")
		return
	}

	utils.Success(ctx, gin.H{"saved": false})
}

// ListSaved returns one page of the authenticated user's saved posts.
func (b *BookmarkController) ListSaved(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page := repository.ParsePage(ctx.Query("page"))
	posts, meta, err := b.posts.SavedBy(userID, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to list saved posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "page": meta})
}

func (b *BookmarkController) resolve(ctx *gin.Context) (uint, models.Post, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return 0, models.Post{}, false
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return 0, models.Post{}, false
	}

	post, err := b.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return 0, models.Post{}, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return 0, models.Post{}, false
	}

	return userID, post, true
}
