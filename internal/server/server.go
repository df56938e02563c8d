package server

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/danishsenju/fixmyhood/internal/handler"
	"github.com/danishsenju/fixmyhood/internal/middleware"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/internal/service"
	"github.com/danishsenju/fixmyhood/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	profileRepo := repository.NewProfileRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	photoStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := os.Getenv("MEILISEARCH_HOST")
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	gamificationSvc := service.NewGamificationService(profileRepo, badgeRepo, reportRepo, commentRepo, verificationRepo, notificationSvc)

	authSvc := service.NewAuthService(profileRepo, photoStorage)
	duplicateSvc := service.NewDuplicateService(reportRepo)
	reportSvc := service.NewReportService(reportRepo, commentRepo, followerRepo, gamificationSvc, searchSvc, photoStorage, redisClient)
	commentSvc := service.NewCommentService(commentRepo, reportRepo, verificationRepo, followerRepo, gamificationSvc, notificationSvc, photoStorage, redisClient)
	followerSvc := service.NewFollowerService(followerRepo, reportRepo, notificationSvc)
	profileSvc := service.NewProfileService(profileRepo, badgeRepo, reportRepo, commentRepo, followerRepo, photoStorage)
	flagSvc := service.NewFlagService(flagRepo, reportRepo, commentRepo)
	adminSvc := service.NewAdminService(profileRepo, reportRepo, commentRepo, searchSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc, duplicateSvc, followerSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	flagHandler := handler.NewFlagHandler(flagSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, reportSvc, flagSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(profileRepo)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Public reads, personalized when a token is present
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/reports", reportHandler.GetFeed)
		public.GET("/reports/map", reportHandler.GetMapReports)
		public.GET("/reports/:id", reportHandler.GetReport)
		public.GET("/reports/:id/comments", commentHandler.GetComments)
		public.GET("/profiles/:id", profileHandler.GetProfile)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Write routes reject banned accounts
		writes := protected.Group("")
		writes.Use(authMiddleware.RequireActiveUser())
		{
			writes.POST("/reports", reportHandler.CreateReport)
			writes.PUT("/reports/:id", reportHandler.UpdateReport)
			writes.DELETE("/reports/:id", reportHandler.DeleteReport)
			writes.POST("/reports/:id/close", reportHandler.CloseReport)
			writes.POST("/reports/:id/follow", reportHandler.FollowReport)
			writes.DELETE("/reports/:id/follow", reportHandler.UnfollowReport)
			writes.POST("/reports/:id/comments", commentHandler.CreateComment)
			writes.POST("/comments/:comment_id/verify", commentHandler.VerifyFix)
			writes.POST("/flags", flagHandler.CreateFlag)
		}

		protected.GET("/reports/duplicate-check", reportHandler.CheckDuplicates)

		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.PUT("/profile/frame", profileHandler.SetActiveFrame)
		protected.GET("/profile/activity", profileHandler.GetActivity)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.POST("/users/:id/ban", adminHandler.BanUser)
			adminGroup.POST("/users/:id/unban", adminHandler.UnbanUser)
			adminGroup.POST("/users/:id/promote", adminHandler.PromoteUser)
			adminGroup.POST("/users/:id/demote", adminHandler.DemoteUser)

			adminGroup.GET("/reports", adminHandler.ListReports)
			adminGroup.POST("/reports/:id/hide", adminHandler.HideReport)
			adminGroup.POST("/reports/:id/unhide", adminHandler.UnhideReport)
			adminGroup.POST("/reports/:id/lock-comments", adminHandler.LockComments)
			adminGroup.POST("/reports/:id/unlock-comments", adminHandler.UnlockComments)
			adminGroup.PUT("/reports/:id/status", adminHandler.SetStatus)
			adminGroup.POST("/reports/:id/duplicate", adminHandler.MarkDuplicate)
			adminGroup.DELETE("/reports/:id/duplicate", adminHandler.UnmarkDuplicate)

			adminGroup.POST("/comments/:id/hide", adminHandler.HideComment)
			adminGroup.POST("/comments/:id/unhide", adminHandler.UnhideComment)

			adminGroup.GET("/flags", adminHandler.ListFlags)
			adminGroup.PUT("/flags/:id", adminHandler.ResolveFlag)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
