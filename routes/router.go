package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"yatube/config"
	"yatube/controllers"
	"yatube/middleware"
	"yatube/repository"
	"yatube/utils"
)

// SetupRouter wires middleware, static file serving, and the API routes.
func SetupRouter() *gin.Engine {
	cfg := config.Get()

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	accessLogger, err := utils.NewRollingFileLogger(
		filepath.Join(cfg.GinPath, "access.log"),
		cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress,
	)
	if err != nil {
		accessLogger = utils.Logger
	}
	router.Use(utils.Ginzap(accessLogger, time.RFC3339, false))
	router.Use(utils.RecoveryWithZap(accessLogger, true))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	db := config.DB()
	router.Use(middleware.PageViewRecorder(db))

	router.Static("/static", "static")
	router.Static("/media", cfg.MediaDir)
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	posts := repository.NewPostRepository(db, cfg.PageSize)
	groups := repository.NewGroupRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	users := repository.NewUserRepository(db)

	authCtrl := controllers.NewAuthController(users)
	postCtrl := controllers.NewPostController(posts, groups, comments, follows, users)
	groupCtrl := controllers.NewGroupController(groups, posts)
	profileCtrl := controllers.NewProfileController(users, posts, follows)
	followCtrl := controllers.NewFollowController(follows, users, posts)
	bookmarkCtrl := controllers.NewBookmarkController(bookmarks, posts)
	statsCtrl := controllers.NewStatsController(db)

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware())
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtrl.Register)
			auth.POST("/login", authCtrl.Login)
			auth.POST("/logout", middleware.AuthRequired(), authCtrl.Logout)
			auth.GET("/me", middleware.AuthRequired(), authCtrl.Me)
			auth.GET("/oauth/:provider/login", authCtrl.OAuthRedirect)
			auth.GET("/oauth/:provider/callback", authCtrl.OAuthCallback)
		}

		postRoutes := api.Group("/posts")
		{
			postRoutes.GET("", postCtrl.ListPosts)
			postRoutes.GET("/search", postCtrl.SearchPosts)
			postRoutes.GET("/saved", middleware.AuthRequired(), bookmarkCtrl.ListSaved)
			postRoutes.GET("/feed", middleware.AuthRequired(), followCtrl.Feed)
			postRoutes.GET("/:id", middleware.AuthOptional(), postCtrl.GetPost)
			postRoutes.POST("", middleware.AuthRequired(), postCtrl.CreatePost)
			postRoutes.PUT("/:id", middleware.AuthRequired(), postCtrl.UpdatePost)
			postRoutes.DELETE("/:id", middleware.AuthRequired(), postCtrl.DeletePost)
			postRoutes.POST("/:id/comments", middleware.AuthRequired(), postCtrl.CreateComment)
			postRoutes.POST("/:id/save", middleware.AuthRequired(), bookmarkCtrl.Save)
			postRoutes.DELETE("/:id/save", middleware.AuthRequired(), bookmarkCtrl.Remove)
		}

		api.DELETE("/comments/:id", middleware.AuthRequired(), postCtrl.DeleteComment)
		api.POST("/upload", middleware.AuthRequired(), postCtrl.UploadImage)

		groupRoutes := api.Group("/groups")
		{
			groupRoutes.GET("", groupCtrl.ListGroups)
			groupRoutes.POST("", middleware.AuthRequired(), groupCtrl.CreateGroup)
			groupRoutes.GET("/:slug/posts", groupCtrl.GroupPosts)
			groupRoutes.POST("/:slug/posts", middleware.AuthRequired(), postCtrl.CreateGroupPost)
			groupRoutes.DELETE("/:slug", middleware.AuthRequired(), groupCtrl.DeleteGroup)
		}

		userRoutes := api.Group("/users")
		{
			userRoutes.GET("/:username", middleware.AuthOptional(), profileCtrl.GetProfile)
			userRoutes.GET("/:username/posts", profileCtrl.ListUserPosts)
			userRoutes.POST("/:username/follow", middleware.AuthRequired(), followCtrl.Follow)
			userRoutes.DELETE("/:username/follow", middleware.AuthRequired(), followCtrl.Unfollow)
		}

		api.PATCH("/users/me/profile", middleware.AuthRequired(), profileCtrl.UpdateProfile)

		stats := api.Group("/stats")
		{
			stats.GET("", statsCtrl.Overview)
			stats.GET("/daily", statsCtrl.DailyViews)
		}
	}

	router.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "resource not found")
			return
		}
		index := filepath.Join("static", "index.html")
		if _, err := os.Stat(index); err == nil {
			ctx.File(index)
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "resource not found")
	})

	return router
}
