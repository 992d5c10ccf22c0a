package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"site-builder/internal/builder"
	"site-builder/internal/publish"
	"site-builder/internal/sanitize"
	"site-builder/internal/storage"
)

// GetWebsiteCode godoc: GET /get-webSite-code[?userId=]
//
// Without a user it serves the shared legacy site directory.
func (h *Handlers) GetWebsiteCode(c *gin.Context) {
	id := ""
	if raw, given := c.GetQuery("userId"); given {
		var err error
		id, err = sanitize.UserID(raw)
		if err != nil || id != raw {
			fail(c, http.StatusBadRequest, ErrCodeInvalidUserID, "invalid user id")
			return
		}
	}
	code, err := h.svc.SiteCode(id)
	if err != nil {
		serviceError(c, err, ErrCodeReadFailed, "failed to read website files")
		return
	}
	ok(c, code)
}

// Generate godoc: POST /generate/:userId
func (h *Handlers) Generate(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	artifact, err := h.svc.GenerateSite(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, ErrCodeGenerateFailed, "failed to generate the website")
		return
	}
	ok(c, artifact)
}

// Publish godoc: POST /publish/:userId
func (h *Handlers) Publish(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	url, err := h.svc.Publish(c.Request.Context(), id)
	if err == nil {
		ok(c, gin.H{"url": url})
		return
	}

	_ = c.Error(err)
	var (
		authErr   *publish.AuthError
		targetErr *publish.TargetMissingError
	)
	switch {
	case errors.Is(err, sanitize.ErrInvalidUserID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidUserID, "invalid user id")
	case errors.Is(err, builder.ErrPublishDisabled):
		fail(c, http.StatusServiceUnavailable, ErrCodePublishDisabled, "publishing is not configured")
	case errors.Is(err, storage.ErrSiteNotFound):
		fail(c, http.StatusConflict, ErrCodeSiteNotGenerated, "generate the website first")
	case errors.As(err, &authErr):
		fail(c, http.StatusBadGateway, ErrCodePublishAuth, "hosting rejected the publishing credentials")
	case errors.As(err, &targetErr):
		fail(c, http.StatusBadGateway, ErrCodePublishTarget, "publishing target does not exist")
	default:
		fail(c, http.StatusBadGateway, ErrCodePublishFailed, "failed to publish the website")
	}
}

// ServeSiteFile godoc: GET /sites/:userId/:file
func (h *Handlers) ServeSiteFile(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	path, err := h.svc.SiteFilePath(id, c.Param("file"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
		return
	}
	serveFile(c, path)
}

func serveFile(c *gin.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
		return
	}
	c.File(path)
}
