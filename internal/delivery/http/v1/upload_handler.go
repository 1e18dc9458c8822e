package v1

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type imageStore interface {
	UploadImage(ctx context.Context, folder string, data []byte, contentType string) (string, error)
}

// UploadHandler accepts product photos and carrier logos, normalises them to
// WebP and stores them in object storage.
type UploadHandler struct {
	store         imageStore
	maxUploadSize int64
}

func NewUploadHandler(s imageStore, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		store:         s,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

// POST /api/v1/admin/uploads?kind=product|logo, multipart field "file".
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.WriteAppError(w, domain.NewFieldErrors(map[string]string{"file": "Fichier trop volumineux ou invalide"}))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteAppError(w, domain.NewFieldErrors(map[string]string{"file": "Fichier manquant"}))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !utils.IsImage(header.Header.Get("Content-Type")) || !allowedExtensions[ext] {
		utils.WriteAppError(w, domain.NewFieldErrors(map[string]string{"file": "Formats acceptés : JPEG, PNG, WebP, GIF"}))
		return
	}

	kind, folder := utils.ImageKindProduct, "products"
	if r.URL.Query().Get("kind") == string(utils.ImageKindLogo) {
		kind, folder = utils.ImageKindLogo, "logos"
	}

	data, contentType, err := utils.ProcessImage(file, header.Filename, kind)
	if err != nil {
		slog.Warn("Handler: UploadImage - decode failed", "file", header.Filename, "error", err)
		utils.WriteAppError(w, domain.NewFieldErrors(map[string]string{"file": "Image illisible"}))
		return
	}

	url, err := h.store.UploadImage(r.Context(), folder, data, contentType)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
