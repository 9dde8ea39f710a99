package http

import (
	"github.com/gin-gonic/gin"

	"miniblog/internal/bootstrap"
	"miniblog/internal/transport/http/handler"
	"miniblog/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authHandler := handler.NewAuthHandler(app.Identity, app.Sessions, app.Config.Auth.CookieSecure)
	postHandler := handler.NewPostHandler(app.Content)
	commentHandler := handler.NewCommentHandler(app.Content)
	categoryHandler := handler.NewCategoryHandler(app.Taxonomy)
	requireLogin := middleware.RequireLogin()

	v1 := router.Group("/api/v1")
	v1.Use(middleware.LoadSession(app.Sessions))

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", requireLogin, authHandler.Logout)
	authGroup.GET("/me", requireLogin, authHandler.Me)

	v1.GET("/categories", categoryHandler.List)
	v1.GET("/users/:id/posts", postHandler.ListByAuthor)

	posts := v1.Group("/posts")
	posts.GET("", postHandler.List)
	posts.GET("/:id", postHandler.Get)
	posts.POST("", requireLogin, postHandler.Create)
	posts.PUT("/:id", requireLogin, postHandler.Update)
	posts.DELETE("/:id", requireLogin, postHandler.Delete)
	posts.POST("/:id/comments", requireLogin, commentHandler.Create)

	v1.DELETE("/comments/:id", requireLogin, commentHandler.Delete)

	return router
}
