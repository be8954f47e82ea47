package httpapi

import (
	"context"
	"net/http"

	"postapi/internal/adapters/httpapi/middleware"
	postPort "postapi/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PostUseCase is the inbound port the controllers depend on.
type PostUseCase interface {
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	GetPost(ctx context.Context, id string) (*postPort.PostDTO, error)
	CreatePost(ctx context.Context, title, content string) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, id string, changes postPort.PostChanges) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// SetupRoutes wires the controllers on a new engine. Only routing happens
// here: use cases are injected from outside.
func SetupRoutes(postUC PostUseCase, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(),
	)

	pc := NewPostController(postUC, logger)

	posts := r.Group("/posts")
	posts.GET("", pc.ListPosts)
	posts.POST("", pc.CreatePost)
	posts.GET("/:id", pc.GetPost)
	posts.PUT("/:id", pc.UpdatePost)
	posts.DELETE("/:id", pc.DeletePost)

	r.GET("/healthz", pc.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	return r
}
