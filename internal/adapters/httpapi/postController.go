package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"postapi/internal/core/post"
	postPort "postapi/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	posts, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	res, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	data, ok := bindObject(c)
	if !ok {
		writeError(c, ctl.logger, post.NewValidationError(msgTitleAndContent))
		return
	}

	title, hasTitle, titleOK := stringField(data, "title")
	content, hasContent, contentOK := stringField(data, "content")
	if !hasTitle || !hasContent || !titleOK || !contentOK {
		writeError(c, ctl.logger, post.NewValidationError(msgTitleAndContent))
		return
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), title, content)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	c.Header("Location", resourceURL(c, res.ID))
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	id := c.Param("id")

	// Unknown ids answer 404 before the body is looked at.
	if _, err := ctl.pc.GetPost(c.Request.Context(), id); err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	data, ok := bindObject(c)
	if !ok {
		writeError(c, ctl.logger, post.NewValidationError(msgNoData))
		return
	}

	var changes postPort.PostChanges
	if title, present, valid := stringField(data, "title"); present {
		if !valid {
			writeError(c, ctl.logger, post.NewValidationError(msgNoData))
			return
		}
		changes.Title = &title
	}
	if content, present, valid := stringField(data, "content"); present {
		if !valid {
			writeError(c, ctl.logger, post.NewValidationError(msgNoData))
			return
		}
		changes.Content = &content
	}

	res, err := ctl.pc.UpdatePost(c.Request.Context(), id, changes)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) Health(c *gin.Context) {
	if err := ctl.pc.Ping(c.Request.Context()); err != nil {
		ctl.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgDatabaseDown})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindObject decodes the body into a generic map. A non-JSON content type, a
// missing body, malformed JSON, a non-object document or an empty object all
// report false.
func bindObject(c *gin.Context) (map[string]any, bool) {
	if !isJSON(c.ContentType()) {
		return nil, false
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

// isJSON accepts application/json and application/*+json.
func isJSON(mimeType string) bool {
	if mimeType == binding.MIMEJSON {
		return true
	}
	return strings.HasPrefix(mimeType, "application/") && strings.HasSuffix(mimeType, "+json")
}

// stringField looks up key in data. present is false for absent or null
// values; valid is false when a present value is not a string.
func stringField(data map[string]any, key string) (value string, present bool, valid bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", false, false
	}
	value, valid = raw.(string)
	return value, true, valid
}

// resourceURL builds the absolute URL of a post as seen by the client.
func resourceURL(c *gin.Context, id string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme: scheme,
		Host:   c.Request.Host,
		Path:   "/posts/" + id,
	}
	return u.String()
}
