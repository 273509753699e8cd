package delivery

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/always_evening/internal/episodes"
	"github.com/Vovarama1992/always_evening/internal/ports"
)

type FileHandler struct {
	cache     *episodes.Cache
	publisher ports.PublishService
	log       *logger.ZapLogger
}

func NewFileHandler(cache *episodes.Cache, publisher ports.PublishService, log *logger.ZapLogger) *FileHandler {
	return &FileHandler{cache: cache, publisher: publisher, log: log}
}

// GET /api/file?episodeId=&name=
func (h *FileHandler) File(w http.ResponseWriter, r *http.Request) {
	episodeID := r.URL.Query().Get("episodeId")
	name := r.URL.Query().Get("name")

	if episodeID == "" || name == "" {
		writeError(w, http.StatusBadRequest, "Missing episodeId or name", "")
		return
	}
	if !episodes.ValidID(episodeID) {
		writeError(w, http.StatusBadRequest, "Invalid path", "")
		return
	}
	switch err := episodes.ValidAudioName(name); {
	case errors.Is(err, episodes.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Invalid path", "")
		return
	case errors.Is(err, episodes.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "Invalid file type", "")
		return
	}

	f, info, err := h.cache.OpenAudio(episodeID, name)
	if errors.Is(err, episodes.ErrNotFound) {
		writeError(w, http.StatusNotFound, "File not found", "")
		return
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/file", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to serve file", hintFor(err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	// sets Content-Length and answers Range requests for seeking
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// GET /api/package?episodeId=
func (h *FileHandler) Package(w http.ResponseWriter, r *http.Request) {
	episodeID := r.URL.Query().Get("episodeId")
	if episodeID == "" {
		writeError(w, http.StatusBadRequest, "Missing episodeId", "")
		return
	}
	if !episodes.ValidID(episodeID) {
		writeError(w, http.StatusBadRequest, "Invalid episodeId", "")
		return
	}
	if !h.cache.Exists(episodeID) {
		writeError(w, http.StatusNotFound, "Episode not found", "")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="episode_%s.zip"`, episodeID))

	n, err := h.cache.WriteZip(episodeID, w)
	if err != nil {
		// headers are gone already, the client sees a truncated archive
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/package", Error: err, Service: "delivery"})
		return
	}
	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("packaged episode %s (%d files)", episodeID, n),
		Service: "delivery",
	})
}

// POST /api/publish?episodeId=
func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	episodeID := r.URL.Query().Get("episodeId")
	if episodeID == "" {
		writeError(w, http.StatusBadRequest, "Missing episodeId", "")
		return
	}
	if !episodes.ValidID(episodeID) {
		writeError(w, http.StatusBadRequest, "Invalid episodeId", "")
		return
	}

	url, err := h.publisher.Publish(r.Context(), episodeID)
	switch {
	case errors.Is(err, ports.ErrPublishingDisabled):
		writeError(w, http.StatusServiceUnavailable, "Publishing is not configured", "Set S3_ENDPOINT and S3_BUCKET")
		return
	case errors.Is(err, episodes.ErrNotFound):
		writeError(w, http.StatusNotFound, "Episode not found", "")
		return
	case err != nil:
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/publish", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to publish episode", hintFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
