package http

import (
	"net/http"
	"time"

	"community-board/internal/usecase"
	"community-board/pkg/logger"
	"community-board/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Auth     usecase.AuthUseCase
	Users    usecase.UserUseCase
	Posts    usecase.PostUseCase
	Comments usecase.CommentUseCase

	Transport      CredentialTransport
	AllowedOrigins []string
	MaxUploadBytes int64

	// RateLimit caps signup and login attempts per caller per minute. A nil Redis disables it.
	Redis     *redis.Client
	RateLimit int

	// StaticRoot is served under StaticPrefix when uploads live on local disk.
	StaticRoot   string
	StaticPrefix string

	Logger *logger.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	registerValidation()

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.NoRoute(noRoute)
	r.NoMethod(noMethod)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.StaticRoot != "" && deps.StaticPrefix != "" {
		r.Static(deps.StaticPrefix, deps.StaticRoot)
	}

	authenticator := NewAuthenticator(deps.Auth, deps.Transport, deps.Logger)
	authHandler := NewAuthHandler(deps.Auth, authenticator, deps.Logger)
	userHandler := NewUserHandler(deps.Users, authenticator, deps.MaxUploadBytes, deps.Logger)
	postHandler := NewPostHandler(deps.Posts, deps.MaxUploadBytes, deps.Logger)
	commentHandler := NewCommentHandler(deps.Comments, deps.Logger)

	requireAuth := authenticator.RequireAuth()
	limiter := middleware.RateLimitMiddleware(deps.Redis, deps.RateLimit, time.Minute)

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", limiter, authHandler.Signup)
		auth.POST("/login", limiter, authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.DELETE("/session", requireAuth, authHandler.Logout)
		auth.GET("/emails/availability", authHandler.CheckEmail)
		auth.GET("/nicknames/availability", authHandler.CheckNickname)

		posts := v1.Group("/posts")
		posts.GET("", postHandler.ListPosts)
		posts.GET("/:postId", authenticator.OptionalAuth(), postHandler.GetPost)
		posts.GET("/:postId/comments", commentHandler.ListComments)

		protected := posts.Group("", requireAuth)
		{
			protected.POST("", postHandler.CreatePost)
			protected.POST("/images", postHandler.UploadPostImage)
			protected.PATCH("/:postId", postHandler.UpdatePost)
			protected.DELETE("/:postId", postHandler.DeletePost)
			protected.POST("/:postId/likes", postHandler.LikePost)
			protected.DELETE("/:postId/likes", postHandler.UnlikePost)
			protected.POST("/:postId/comments", commentHandler.CreateComment)
			protected.PATCH("/:postId/comments/:commentId", commentHandler.UpdateComment)
			protected.DELETE("/:postId/comments/:commentId", commentHandler.DeleteComment)
		}

		users := v1.Group("/users", requireAuth)
		{
			users.GET("/:userId", userHandler.GetUser)
			users.PATCH("/:userId", userHandler.UpdateUser)
			users.DELETE("/:userId", userHandler.DeleteUser)
			users.PATCH("/:userId/password", userHandler.UpdatePassword)
			users.POST("/:userId/profile-image", userHandler.UploadProfileImage)
		}
	}

	return r
}
