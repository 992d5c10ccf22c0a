package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-builder/internal/builder"
	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/profile"
	"site-builder/internal/sanitize"
	"site-builder/internal/site"
	"site-builder/internal/storage"
)

// Builder is the part of builder.Service the HTTP layer drives.
type Builder interface {
	Profile(userID string) (profile.Profile, error)
	History(userID string) (history.Log, error)
	Reset(userID string) error
	AdvanceConversation(ctx context.Context, userID, text string) (string, history.Log, error)
	IngestImages(ctx context.Context, userID string, uploads []builder.ImageUpload, caption string) ([]profile.ImageRecord, error)
	GenerateSite(ctx context.Context, userID string) (site.Artifact, error)
	Publish(ctx context.Context, userID string) (string, error)
	SiteCode(userID string) (map[string]string, error)
	SiteFilePath(userID, name string) (string, error)
	ImageFilePath(userID, name string) (string, error)
}

// ActivityLog supplies the events behind /stats.
type ActivityLog interface {
	LoadInteractions() ([]storage.Event, error)
}

type Options struct {
	MaxUploadImages int
	MaxUploadBytes  int64
}

type Handlers struct {
	svc      Builder
	activity ActivityLog
	opts     Options
}

func New(svc Builder, activity ActivityLog, opts Options) *Handlers {
	if opts.MaxUploadImages <= 0 {
		opts.MaxUploadImages = 10
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	return &Handlers{svc: svc, activity: activity, opts: opts}
}

// userID validates the :userId route param and writes a 400 when it is
// unusable.
func userID(c *gin.Context) (string, bool) {
	raw := c.Param("userId")
	id, err := sanitize.UserID(raw)
	if err != nil || id != raw {
		fail(c, http.StatusBadRequest, ErrCodeInvalidUserID, "invalid user id")
		return "", false
	}
	return id, true
}

// serviceError writes the response for errors every endpoint can see, and
// falls back to a 500 with code and msg.
func serviceError(c *gin.Context, err error, code, msg string) {
	_ = c.Error(err)
	var mre *llm.ModelResponseError
	switch {
	case errors.Is(err, sanitize.ErrInvalidUserID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidUserID, "invalid user id")
	case errors.As(err, &mre):
		failWith(c, http.StatusInternalServerError, ErrorResponse{
			Code:        ErrCodeModelResponse,
			Error:       "invalid response from the language model",
			RawResponse: mre.Raw,
		})
	default:
		fail(c, http.StatusInternalServerError, code, msg)
	}
}

// GetHistory godoc: GET /history/:userId
func (h *Handlers) GetHistory(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	log, err := h.svc.History(id)
	if err != nil {
		serviceError(c, err, ErrCodeReadFailed, "failed to read chat history")
		return
	}
	if log == nil {
		log = history.Log{}
	}
	ok(c, log)
}

// GetProfile godoc: GET /profile/:userId
func (h *Handlers) GetProfile(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	prof, err := h.svc.Profile(id)
	if err != nil {
		serviceError(c, err, ErrCodeReadFailed, "failed to read user profile")
		return
	}
	ok(c, prof)
}

// Reset godoc: GET /reset/:userId
func (h *Handlers) Reset(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	if err := h.svc.Reset(id); err != nil {
		serviceError(c, err, ErrCodeResetFailed, "Failed to reset files")
		return
	}
	ok(c, gin.H{"message": "Files reset successfully"})
}
