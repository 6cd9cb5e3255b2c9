package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gridtalk/gridtalk/internal/config"
	"github.com/gridtalk/gridtalk/internal/handler"
	"github.com/gridtalk/gridtalk/internal/middleware"
	"github.com/gridtalk/gridtalk/internal/repository"
	"github.com/gridtalk/gridtalk/internal/service"
	"github.com/gridtalk/gridtalk/internal/ws"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	hub    *ws.Hub
}

func New(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	threadRepo := repository.NewThreadRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	hub := ws.NewHub()

	threadSvc := service.NewThreadService(threadRepo, commentRepo, hub, redisClient, cfg.RateLimitThread)
	commentSvc := service.NewCommentService(commentRepo, threadRepo, hub, redisClient, cfg.RateLimitComment)
	voteSvc := service.NewVoteService(threadRepo, commentRepo, hub)
	viewSvc := service.NewViewService(redisClient, threadRepo)

	if redisClient != nil {
		go viewSvc.StartViewSyncWorker(context.Background())
	}

	dispatcher := ws.NewDispatcher(hub, threadSvc, commentSvc, voteSvc)

	threadHandler := handler.NewThreadHandler(threadSvc, viewSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	wsHandler := handler.NewWSHandler(hub, dispatcher, cfg.JWTSecret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// The push channel authenticates inside the handshake so it can close
	// with a distinguishing code instead of an HTTP 401.
	api.GET("/ws", wsHandler.HandleWebSocket)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/threads", threadHandler.GetAllThreads)
		protected.POST("/threads", threadHandler.CreateThread)
		protected.GET("/threads/:thread_id", threadHandler.GetThread)
		protected.PUT("/threads/:thread_id", threadHandler.UpdateThread)
		protected.DELETE("/threads/:thread_id", threadHandler.DeleteThread)

		protected.POST("/threads/:thread_id/comments", commentHandler.CreateComment)
		protected.PUT("/comments/:comment_id", commentHandler.UpdateComment)
		protected.DELETE("/comments/:comment_id", commentHandler.DeleteComment)

		protected.POST("/votes", voteHandler.Vote)
	}

	return &Server{engine: router, hub: hub}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
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
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
