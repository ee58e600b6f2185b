package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/catalog-service/internal/http/middleware"
	"github.com/sandeepkv93/catalog-service/internal/http/response"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

const multipartMemory = 1 << 20

type FilesHandler struct {
	storage service.ImageStorageService
}

func NewFilesHandler(storage service.ImageStorageService) *FilesHandler {
	return &FilesHandler{storage: storage}
}

// UploadProductImage accepts a multipart "file" field and stores it as a
// product image.
func (h *FilesHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File is too large", nil)
			return
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "Make sure that the file is an image", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "Make sure that the file is an image", nil)
		return
	}
	defer file.Close()

	uploaded, err := h.storage.UploadProductImage(r.Context(), file, header.Size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	actorID := ""
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		actorID = actor.ID.String()
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "file.upload",
		ActorUserID: actorID,
		TargetType:  "product_image",
		TargetID:    uploaded.Name,
		Action:      "upload",
		Outcome:     "success",
		Reason:      "image_stored",
	}, "content_type", uploaded.ContentType, "size", uploaded.Size)
	response.JSON(w, r, http.StatusCreated, uploaded)
}

func (h *FilesHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.storage.OpenProductImage(r.Context(), chi.URLParam(r, "imageName"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	if img.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	if !img.ModTime.IsZero() {
		w.Header().Set("Last-Modified", img.ModTime.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, img.Body); err != nil {
		slog.WarnContext(r.Context(), "product image stream interrupted", "error", err)
	}
}
