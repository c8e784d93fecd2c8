package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yatube/config"
	"yatube/middleware"
	"yatube/models"
	"yatube/repository"
	"yatube/utils"
)

// PostController manages post listings, search, detail, and post/comment CRUD.
type PostController struct {
	posts    *repository.PostRepository
	groups   *repository.GroupRepository
	comments *repository.CommentRepository
	follows  *repository.FollowRepository
	users    *repository.UserRepository
}

// NewPostController creates a new PostController instance.
func NewPostController(
	posts *repository.PostRepository,
	groups *repository.GroupRepository,
	comments *repository.CommentRepository,
	follows *repository.FollowRepository,
	users *repository.UserRepository,
) *PostController {
	return &PostController{posts: posts, groups: groups, comments: comments, follows: follows, users: users}
}

// ListPosts returns one page of all posts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page := repository.ParsePage(ctx.Query("page"))

	posts, meta, err := p.posts.All(page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "page": meta})
}

// SearchPosts returns posts containing any word of the query; an empty query
// degrades to the full listing.
func (p *PostController) SearchPosts(ctx *gin.Context) {
	page := repository.ParsePage(ctx.Query("page"))
	query := strings.TrimSpace(ctx.Query("query"))

	posts, meta, err := p.posts.Search(query, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to search posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "page": meta, "query": query})
}

// GetPost returns a single post with its ordered comments and the author's
// social counts. When the viewer is authenticated the response also reports
// whether they follow the author and may edit the post.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return
	}

	post, err := p.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	comments, err := p.comments.ListForPost(post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load comments")
		return
	}

	followerCount, err := p.follows.FollowerCount(post.UserID)
	if err != nil {
		warnf("follower count for user %d: %v", post.UserID, err)
	}
	followingCount, err := p.follows.FollowingCount(post.UserID)
	if err != nil {
		warnf("following count for user %d: %v", post.UserID, err)
	}
	postCount, err := p.users.PostCount(post.UserID)
	if err != nil {
		warnf("post count for user %d: %v", post.UserID, err)
	}

	following := false
	editable := false
	if viewerID, ok := getUserID(ctx); ok {
		if following, err = p.follows.IsFollowing(viewerID, post.UserID); err != nil {
			warnf("following check for user %d: %v", viewerID, err)
		}
		editable = viewerID == post.UserID
	}

	utils.Success(ctx, gin.H{
		"post":            post,
		"comments":        comments,
		"follower_count":  followerCount,
		"following_count": followingCount,
		"posts_count":     postCount,
		"following":       following,
		"editable":        editable,
	})
}

type postRequest struct {
	Text     string `json:"text" binding:"required"`
	Group    string `json:"group"`
	ImageURL string `json:"image_url"`
}

// CreatePost allows authenticated users to create a new post, optionally
// assigned to a group by slug.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}
	p.createPost(ctx, req, strings.TrimSpace(req.Group))
}

// CreateGroupPost creates a post pre-assigned to the group in the path.
func (p *PostController) CreateGroupPost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}
	p.createPost(ctx, req, strings.TrimSpace(ctx.Param("slug")))
}

func (p *PostController) createPost(ctx *gin.Context, req postRequest, slug string) {
	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "text cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var groupID *uint
	if slug != "" {
		group, err := p.groups.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40402, "group not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load group")
			return
		}
		groupID = &group.ID
	}

	post := models.Post{
		UserID:   userID,
		GroupID:  groupID,
		Text:     text,
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	if err := p.posts.Create(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create post")
		return
	}

	created, err := p.posts.Get(post.ID)
	if err == nil {
		post = created
	}
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to edit their post's text, image, and group.
// Non-authors receive 403; pub_date never changes.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "text cannot be empty")
		return
	}

	post, err := p.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only edit your own posts")
		return
	}

	post.Text = text
	post.ImageURL = strings.TrimSpace(req.ImageURL)
	if slug := strings.TrimSpace(req.Group); slug != "" {
		group, err := p.groups.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40402, "group not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load group")
			return
		}
		post.GroupID = &group.ID
	} else {
		post.GroupID = nil
	}

	if err := p.posts.Update(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update post")
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author (or an admin) to delete their post together
// with its comments and bookmarks.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return
	}

	post, err := p.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if post.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	if err := p.posts.Delete(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to delete post")
		return
	}

	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment allows authenticated users to comment on a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, "text cannot be empty")
		return
	}

	post, err := p.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{PostID: post.ID, UserID: userID, Text: text}
	if err := p.comments.Create(&comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to create comment")
		return
	}

	if created, err := p.comments.Get(comment.ID); err == nil {
		comment = created
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the comment author or the post's author to delete a comment.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid comment id")
		return
	}

	comment, err := p.comments.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to load comment")
		return
	}

	post, err := p.posts.Get(comment.PostID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if comment.UserID != userID && post.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40303, "you can only delete your own comments")
		return
	}

	if err := p.comments.Delete(&comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to delete comment")
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// UploadImage stores an uploaded image under the media directory and returns
// its public URL for use as a post's image_url.
func (p *PostController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "image file is required")
		return
	}
	if file.Size > maxImageSize {
		utils.Error(ctx, http.StatusBadRequest, 40027, "image exceeds the size limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40028, "unsupported image type")
		return
	}

	cfg := config.Get()
	rel := filepath.Join("posts", time.Now().Format("2006/01/02"), uuid.NewString()+ext)
	dst := filepath.Join(cfg.MediaDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store image")
		return
	}
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store image")
		return
	}

	utils.Success(ctx, gin.H{"image_url": "/media/" + filepath.ToSlash(rel)})
}

const maxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func warnf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}

func isAdmin(ctx *gin.Context) bool {
	unameVal, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return false
	}
	uname, _ := unameVal.(string)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
