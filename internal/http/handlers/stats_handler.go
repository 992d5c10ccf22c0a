package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"site-builder/internal/analytics"
)

const dateLayout = "2006-01-02"

// Stats godoc: GET /stats?date=YYYY-MM-DD (UTC, defaults to today)
func (h *Handlers) Stats(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidDate, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	if h.activity == nil {
		ok(c, analytics.AnalyzeDailyLogs(nil, day))
		return
	}
	events, err := h.activity.LoadInteractions()
	if err != nil {
		serviceError(c, err, ErrCodeReadFailed, "failed to read the activity log")
		return
	}
	ok(c, analytics.AnalyzeDailyLogs(events, day))
}
