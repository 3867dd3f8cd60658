package httpapi

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type PostController struct {
	pc      PostUseCase
	limits  UploadLimits
	allowed map[string]struct{}
}

func NewPostController(pc PostUseCase, limits UploadLimits) *PostController {
	allowed := make(map[string]struct{}, len(limits.AllowedContentTypes))
	for _, ct := range limits.AllowedContentTypes {
		allowed[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	return &PostController{pc: pc, limits: limits, allowed: allowed}
}

// UploadPost handles POST /upload, a multipart form with fields "file" and
// "caption". Validation happens before any side effect: content type first,
// then the empty and oversize checks on the read bytes.
func (ctl *PostController) UploadPost(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	caption := c.PostForm("caption")

	contentType := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if _, ok := ctl.allowed[contentType]; !ok {
		if contentType == "" {
			contentType = "unknown"
		}
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "unsupported file type '" + contentType + "', allowed types: " + ctl.allowedList(),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	// Read one byte past the cap so an oversized payload is detected
	// without buffering arbitrarily much of it.
	data, err := io.ReadAll(io.LimitReader(f, ctl.limits.MaxSizeBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
		return
	}
	if int64(len(data)) > ctl.limits.MaxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file exceeds max allowed size of " + strconv.FormatInt(ctl.limits.MaxSizeBytes, 10) + " bytes",
		})
		return
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), caption, contentType, fileHeader.Filename, data)
	if err != nil {
		// Detail stays in the server logs.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"post":    res,
	})
}

// GetFeed handles GET /feed with limit/offset paging.
func (ctl *PostController) GetFeed(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(defaultFeedLimit))
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > maxFeedLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	feed, err := ctl.pc.GetFeed(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (ctl *PostController) allowedList() string {
	types := make([]string, 0, len(ctl.allowed))
	for ct := range ctl.allowed {
		types = append(types, ct)
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}
