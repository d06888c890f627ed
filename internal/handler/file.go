package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/retrocade/retrocade/internal/metrics"
	"github.com/retrocade/retrocade/internal/model"
	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/service"
)

type FileHandler struct {
	fileService   *service.FileService
	maxUploadSize int64
	metrics       *metrics.Metrics
}

func NewFileHandler(fileService *service.FileService, maxUploadSize int64, m *metrics.Metrics) *FileHandler {
	return &FileHandler{
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
		metrics:       m,
	}
}

func (h *FileHandler) UploadRom(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, model.FileKindRom)
}

func (h *FileHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, model.FileKindCover)
}

// upload reads the raw request body into memory and stores it as one file.
// The original filename travels in X-Filename, optionally percent-encoded.
func (h *FileHandler) upload(w http.ResponseWriter, r *http.Request, kind string) {
	filename := r.Header.Get("X-Filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}
	if filename == "" {
		h.countUpload(kind, "invalid")
		writeError(w, http.StatusBadRequest, "X-Filename header required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.countUpload(kind, "too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.countUpload(kind, "invalid")
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	file, err := h.fileService.Upload(r.Context(), service.UploadInput{
		Kind:     kind,
		Filename: filename,
		Platform: r.Header.Get("X-Platform"),
		Data:     data,
	})
	if errors.Is(err, service.ErrFileInvalid) {
		h.countUpload(kind, "invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.countUpload(kind, "error")
		writeInternal(w, r, "failed to upload file", err)
		return
	}

	h.countUpload(kind, "success")
	writeJSON(w, http.StatusOK, map[string]string{"path": file.Path()})
}

// Serve streams a stored file. Stored files never change, so they are cached forever.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	file, rc, err := h.fileService.Open(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrFileNotFound) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to open file", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Warn("file stream interrupted", "error", err, "id", file.ID)
	}
}

// List returns upload metadata of one kind (?kind=rom|cover, default rom)
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = model.FileKindRom
	}
	if kind != model.FileKindRom && kind != model.FileKindCover {
		writeError(w, http.StatusBadRequest, "Invalid kind")
		return
	}

	files, err := h.fileService.Files(kind)
	if err != nil {
		writeInternal(w, r, "failed to list files", err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) countUpload(kind, result string) {
	if h.metrics != nil {
		h.metrics.Uploads.WithLabelValues(kind, result).Inc()
	}
}
