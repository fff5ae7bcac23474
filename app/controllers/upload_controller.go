package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/miraedance/atelier/pkg/logger"
	"github.com/miraedance/atelier/pkg/response"
	"github.com/miraedance/atelier/pkg/storage"
)

const maxUploadBytes = 10 << 20 // 10 MB

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Image handles POST /api/admin/uploads (multipart field "file"): stores the
// blob and returns its public URL for use as a product imageUrl.
func (c *UploadController) Image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid or oversized upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		response.Error(w, http.StatusUnprocessableEntity, "unsupported image type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read upload")
		return
	}

	key := "products/" + uuid.NewString() + ext
	if err := storage.Put(key, data); err != nil {
		logger.WithCtx(r.Context()).Error("image upload failed", "key", key, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not store image")
		return
	}

	response.Created(w, map[string]string{
		"key": key,
		"url": storage.URL(key),
	})
}
