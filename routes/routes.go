package routes

import (
	"time"

	"linkedin-backend/handlers"
	"linkedin-backend/middleware"
	"linkedin-backend/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("emailpattern", models.EmailPattern)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	limited := router.Group("/", middleware.RateLimit(60, time.Minute))

	posts := limited.Group("/posts")
	posts.POST("", handlers.CreatePost)
	posts.GET("", handlers.GetPosts)
	posts.GET("/:postId", handlers.GetPost)
	posts.PUT("/:postId", handlers.UpdatePost)
	posts.DELETE("/:postId", handlers.DeletePost)
	posts.POST("/:postId/image", handlers.UploadPostImage)

	posts.POST("/:postId/comments", handlers.AddComment)
	posts.GET("/:postId/comments", handlers.GetComments)
	posts.PUT("/:postId/comments/:commentId", handlers.UpdateComment)
	posts.DELETE("/:postId/comments/:commentId", handlers.RemoveComment)

	posts.POST("/:postId/like", handlers.ToggleLike)

	users := limited.Group("/users")
	users.POST("", handlers.CreateUser)
	users.GET("", handlers.GetUsers)
	users.GET("/:userId", handlers.GetUser)
	users.PUT("/:userId", handlers.UpdateUser)
	users.DELETE("/:userId", handlers.DeleteUser)
	users.POST("/:userId/image", handlers.UploadUserImage)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}
