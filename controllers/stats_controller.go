package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/models"
	"yatube/utils"
)

// StatsController reports site-wide totals and daily page view counts.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Overview returns total users, posts, comments, and groups plus today's
// page view count.
func (s *StatsController) Overview(ctx *gin.Context) {
	var users, posts, comments, groups int64
	if err := s.db.Model(&models.User{}).Count(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load stats")
		return
	}
	s.db.Model(&models.Post{}).Count(&posts)
	s.db.Model(&models.Comment{}).Count(&comments)
	s.db.Model(&models.Group{}).Count(&groups)

	var todayViews int64
	s.db.Model(&models.PageView{}).
		Where("date = ?", startOfDay(time.Now())).
		Select("COALESCE(SUM(count), 0)").
		Scan(&todayViews)

	utils.Success(ctx, gin.H{
		"users":       users,
		"posts":       posts,
		"comments":    comments,
		"groups":      groups,
		"views_today": todayViews,
	})
}

// DailyViews returns per-day page view totals for the last n days (default 7).
func (s *StatsController) DailyViews(ctx *gin.Context) {
	days := 7
	if raw := ctx.Query("days"); raw != "" {
		if n, ok := parseID(raw); ok && n <= 90 {
			days = int(n)
		}
	}

	since := startOfDay(time.Now().AddDate(0, 0, -days+1))

	type dayRow struct {
		Date  time.Time `json:"date"`
		Total int64     `json:"total"`
	}
	var rows []dayRow
	err := s.db.Model(&models.PageView{}).
		Where("date >= ?", since).
		Select("date, SUM(count) AS total").
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load daily views")
		return
	}

	utils.Success(ctx, gin.H{"days": rows})
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
