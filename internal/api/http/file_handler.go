package http

import (
	"io"
	"net/http"

	"pamoja-backend/internal/logger"
)

// streamFile copies a stored upload to the response and closes it.
func streamFile(w http.ResponseWriter, rc io.ReadCloser, contentType string) {
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("Failed to stream file", "error", err)
	}
}
