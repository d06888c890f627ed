package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/retrocade/retrocade/internal/metrics"
	"github.com/retrocade/retrocade/internal/service"
)

type RomHandler struct {
	proxy   *service.RomProxy
	metrics *metrics.Metrics
}

func NewRomHandler(proxy *service.RomProxy, m *metrics.Metrics) *RomHandler {
	return &RomHandler{
		proxy:   proxy,
		metrics: m,
	}
}

// Proxy streams a ROM from an allow-listed host so the browser can load it
// without cross-origin restrictions.
func (h *RomHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")

	resp, err := h.proxy.Fetch(r.Context(), rawURL)
	if err != nil {
		h.fail(w, r, rawURL, err)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, resp.Body)
	if h.metrics != nil {
		h.metrics.RomBytes.Add(float64(n))
	}
	if err != nil {
		// Headers are gone; the client sees a truncated body
		h.count("interrupted")
		slog.Warn("rom stream interrupted", "error", err, "url", rawURL, "bytes", n)
		return
	}
	h.count("ok")
}

func (h *RomHandler) fail(w http.ResponseWriter, r *http.Request, rawURL string, err error) {
	var statusErr *service.UpstreamStatusError

	switch {
	case errors.Is(err, service.ErrMissingURL):
		h.count("bad_request")
		writeError(w, http.StatusBadRequest, "URL parameter required")
	case errors.Is(err, service.ErrInvalidURL):
		h.count("bad_request")
		writeError(w, http.StatusBadRequest, "Invalid URL")
	case errors.Is(err, service.ErrHostNotAllowed):
		h.count("forbidden")
		slog.Warn("rom proxy host rejected", "url", rawURL, "error", err)
		writeError(w, http.StatusForbidden, "Host not allowed")
	case errors.As(err, &statusErr):
		h.count("upstream_status")
		slog.Error("rom fetch failed", "status", statusErr.StatusCode, "url", rawURL)
		writeError(w, statusErr.StatusCode, "Failed to fetch ROM")
	default:
		h.count("error")
		slog.Error("rom proxy error", "error", err, "url", rawURL)
		writeError(w, http.StatusInternalServerError, "Failed to fetch ROM")
	}
}

func (h *RomHandler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.RomProxy.WithLabelValues(outcome).Inc()
	}
}
