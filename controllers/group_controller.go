package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/models"
	"yatube/repository"
	"yatube/utils"
)

const groupsCacheKey = "cache:groups:index"

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GroupController manages thematic groups and their post listings.
type GroupController struct {
	groups *repository.GroupRepository
	posts  *repository.PostRepository
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(groups *repository.GroupRepository, posts *repository.PostRepository) *GroupController {
	return &GroupController{groups: groups, posts: posts}
}

// ListGroups returns every group ordered by title. The listing changes rarely
// and carries no per-viewer data, so it is served from cache when possible.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(groupsCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	groups, err := g.groups.ListAll()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list groups")
		return
	}

	payload := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"items": groups}}
	utils.CacheSetJSON(groupsCacheKey, payload, 5*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}

// GroupPosts returns one page of a group's posts together with the group itself.
func (g *GroupController) GroupPosts(ctx *gin.Context) {
	page := repository.ParsePage(ctx.Query("page"))

	group, posts, meta, err := g.posts.ByGroup(ctx.Param("slug"), page)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list group posts")
		return
	}

	utils.Success(ctx, gin.H{"group": group, "items": posts, "page": meta})
}

type groupRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateGroup creates a new group. Slugs are unique and URL-safe.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var req groupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "title, slug and description are required")
		return
	}

	title := strings.TrimSpace(req.Title)
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	description := utils.Sanitize(strings.TrimSpace(req.Description))

	if title == "" || description == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "title, slug and description are required")
		return
	}
	if !slugRe.MatchString(slug) || len(slug) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40041, "slug must be lowercase letters, digits and dashes")
		return
	}

	taken, err := g.groups.SlugTaken(slug)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to check slug")
		return
	}
	if taken {
		utils.Error(ctx, http.StatusConflict, 40940, "slug already taken")
		return
	}

	group := models.Group{Title: title, Slug: slug, Description: description}
	if err := g.groups.Create(&group); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to create group")
		return
	}

	utils.InvalidateByPrefix(groupsCacheKey)
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group. Its posts survive and become ungrouped.
// Admin only.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40340, "admin access required")
		return
	}

	group, err := g.groups.GetBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load group")
		return
	}

	if err := g.groups.Delete(&group); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to delete group")
		return
	}

	utils.InvalidateByPrefix(groupsCacheKey)
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
