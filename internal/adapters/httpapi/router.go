package httpapi

import (
	"context"

	postPort "mediafeed/internal/ports/post"

	"github.com/gin-gonic/gin"
)

// PostUseCase is the inbound port the controllers depend on; the use case is
// injected from the outside.
type PostUseCase interface {
	CreatePost(ctx context.Context, caption, contentType, originalName string, data []byte) (*postPort.PostDTO, error)
	GetFeed(ctx context.Context, limit, offset int) (*postPort.FeedDTO, error)
}

// UploadLimits carries the request-validation settings for the upload route.
type UploadLimits struct {
	MaxSizeBytes        int64
	AllowedContentTypes []string
}

func SetupRoutes(postUC PostUseCase, limits UploadLimits, uploadDir string) *gin.Engine {
	r := gin.Default()
	pc := NewPostController(postUC, limits)

	r.POST("/upload", pc.UploadPost)
	r.GET("/feed", pc.GetFeed)

	// Uploaded files are served straight from the storage directory.
	r.Static("/uploads", uploadDir)

	return r
}
