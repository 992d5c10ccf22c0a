package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-builder/internal/builder"
	"site-builder/internal/profile"
)

const uploadField = "images"

type uploadResponse struct {
	Success bool                  `json:"success"`
	Images  []profile.ImageRecord `json:"images"`
	Message string                `json:"message"`
}

// UploadImages godoc: POST /upload-image/:userId (multipart: images[], text)
func (h *Handlers) UploadImages(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeUploadTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.opts.MaxUploadBytes))
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeInvalidUpload, "expected a multipart form")
		return
	}

	files := form.File[uploadField]
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeInvalidUpload, "No files uploaded.")
		return
	}
	if len(files) > h.opts.MaxUploadImages {
		fail(c, http.StatusBadRequest, ErrCodeInvalidUpload,
			fmt.Sprintf("at most %d images per upload", h.opts.MaxUploadImages))
		return
	}

	uploads := make([]builder.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readPart(fh)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidUpload, "could not read "+fh.Filename)
			return
		}
		uploads = append(uploads, builder.ImageUpload{Name: fh.Filename, Data: data})
	}
	caption := ""
	if v := form.Value["text"]; len(v) > 0 {
		caption = v[0]
	}

	recs, err := h.svc.IngestImages(c.Request.Context(), id, uploads, caption)
	var analysis *builder.AnalysisError
	switch {
	case err == nil:
	case errors.Is(err, builder.ErrNotAnImage),
		errors.Is(err, builder.ErrNoImages),
		errors.Is(err, builder.ErrTooManyImages):
		fail(c, http.StatusBadRequest, ErrCodeInvalidUpload, err.Error())
		return
	case errors.As(err, &analysis):
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, "Image upload or analysis failed.")
		return
	default:
		serviceError(c, err, ErrCodeUploadFailed, "Image upload or analysis failed.")
		return
	}

	ok(c, uploadResponse{
		Success: true,
		Images:  recs,
		Message: "Images uploaded and analyzed successfully.",
	})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ServeImage godoc: GET /images/:userId/:file
func (h *Handlers) ServeImage(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	path, err := h.svc.ImageFilePath(id, c.Param("file"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "image not found")
		return
	}
	serveFile(c, path)
}
