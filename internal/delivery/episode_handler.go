package delivery

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/xid"

	"github.com/Vovarama1992/always_evening/internal/ai"
	"github.com/Vovarama1992/always_evening/internal/episodes"
	"github.com/Vovarama1992/always_evening/internal/ports"
	"github.com/Vovarama1992/always_evening/internal/speech"
)

const (
	maxThemeLen  = 200
	defaultTurns = 10
	minTurns     = 2
	maxTurns     = 20

	journalFile = "journal.txt"
)

type EpisodeHandler struct {
	dialogue ai.Service
	tts      speech.TTSClient
	cache    *episodes.Cache
	repo     ports.EpisodeRepo
	log      *logger.ZapLogger
	now      func() time.Time
}

func NewEpisodeHandler(
	dialogue ai.Service,
	tts speech.TTSClient,
	cache *episodes.Cache,
	repo ports.EpisodeRepo,
	log *logger.ZapLogger,
) *EpisodeHandler {
	return &EpisodeHandler{
		dialogue: dialogue,
		tts:      tts,
		cache:    cache,
		repo:     repo,
		log:      log,
		now:      time.Now,
	}
}

// POST /api/generate
func (h *EpisodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme any `json:"theme"`
		Turns any `json:"turns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Send a JSON object")
		return
	}

	theme, ok := req.Theme.(string)
	if !ok || theme == "" {
		writeError(w, http.StatusBadRequest, "Theme is required", "Provide a theme as a string")
		return
	}
	if utf8.RuneCountInString(theme) > maxThemeLen {
		writeError(w, http.StatusBadRequest, "Theme too long", "Keep theme under 200 characters")
		return
	}

	turns := defaultTurns
	if req.Turns != nil {
		n, ok := wholeNumber(req.Turns)
		if !ok || n < minTurns || n > maxTurns {
			writeError(w, http.StatusBadRequest, "Invalid turns count", "Turns must be between 2 and 20")
			return
		}
		turns = n
	}

	lines, err := h.dialogue.GenerateDialogue(r.Context(), theme, turns)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/generate", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to generate dialogue", hintFor(err))
		return
	}

	ep := ports.Episode{
		ID:        xid.New().String(),
		Theme:     theme,
		Lines:     lines,
		CreatedAt: h.now(),
	}
	if err := h.repo.Save(r.Context(), ep); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "failed to store episode " + ep.ID, Error: err, Service: "delivery"})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcript": lines,
		"episodeId":  ep.ID,
	})
}

// POST /api/tts
func (h *EpisodeHandler) TTS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speaker   any `json:"speaker"`
		Text      any `json:"text"`
		EpisodeID any `json:"episodeId"`
		Order     any `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Send a JSON object")
		return
	}

	speakerStr, _ := req.Speaker.(string)
	speaker := ports.Speaker(speakerStr)
	if !speaker.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid speaker", "Speaker must be LENA or ISAAC")
		return
	}

	text, ok := req.Text.(string)
	if !ok || text == "" {
		writeError(w, http.StatusBadRequest, "Text is required", "Provide text to synthesize")
		return
	}

	episodeID, ok := req.EpisodeID.(string)
	if !ok || episodeID == "" {
		writeError(w, http.StatusBadRequest, "Episode ID is required", "")
		return
	}
	if !episodes.ValidID(episodeID) {
		writeError(w, http.StatusBadRequest, "Invalid episodeId", "")
		return
	}

	if req.Order == nil {
		writeError(w, http.StatusBadRequest, "Order is required", "")
		return
	}
	order, ok := wholeNumber(req.Order)
	if !ok || order < 0 {
		writeError(w, http.StatusBadRequest, "Invalid order", "Order must be a non-negative integer")
		return
	}

	audio, err := h.tts.Synthesize(r.Context(), speaker, text)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/tts", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to generate audio", hintFor(err))
		return
	}

	name, err := h.cache.WriteLine(episodeID, order, speaker, audio)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to save audio", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to generate audio", hintFor(err))
		return
	}

	h.log.Log(logger.LogEntry{Level: "info", Message: "saved audio: " + name, Service: "delivery"})
	writeJSON(w, http.StatusOK, map[string]string{"url": fileURL(episodeID, name)})
}

// POST /api/journal
func (h *EpisodeHandler) Journal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme      string       `json:"theme"`
		EpisodeID  string       `json:"episodeId"`
		Transcript []ports.Line `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Send a JSON object")
		return
	}

	if req.EpisodeID != "" && !episodes.ValidID(req.EpisodeID) {
		writeError(w, http.StatusBadRequest, "Invalid episodeId", "")
		return
	}

	theme, lines := req.Theme, req.Transcript
	if req.EpisodeID != "" && (theme == "" || len(lines) == 0) {
		if ep, err := h.repo.Get(r.Context(), req.EpisodeID); err == nil {
			if theme == "" {
				theme = ep.Theme
			}
			if len(lines) == 0 {
				lines = ep.Lines
			}
		}
	}

	if theme == "" {
		writeError(w, http.StatusBadRequest, "Theme is required", "Provide a theme or a known episodeId")
		return
	}

	entry, err := h.dialogue.GenerateJournal(r.Context(), theme, lines)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "error in /api/journal", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to write journal", hintFor(err))
		return
	}

	if req.EpisodeID != "" {
		h.attachJournal(r, req.EpisodeID, entry)
	}

	writeJSON(w, http.StatusOK, map[string]string{"journal": entry})
}

func (h *EpisodeHandler) attachJournal(r *http.Request, episodeID, entry string) {
	if err := h.repo.SetJournal(r.Context(), episodeID, entry); err != nil && !errors.Is(err, ports.ErrEpisodeNotFound) {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "failed to store journal", Error: err, Service: "delivery"})
	}
	// goes into the zip next to the audio
	if h.cache.Exists(episodeID) {
		if err := h.cache.WriteFile(episodeID, journalFile, []byte(entry+"\n")); err != nil {
			h.log.Log(logger.LogEntry{Level: "warn", Message: "failed to write journal file", Error: err, Service: "delivery"})
		}
	}
}

// GET /api/themes/random
func (h *EpisodeHandler) RandomTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.dialogue.RandomTheme()})
}

// GET /api/episodes/{episodeId}
func (h *EpisodeHandler) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "episodeId")
	if !episodes.ValidID(id) {
		writeError(w, http.StatusBadRequest, "Invalid episodeId", "")
		return
	}

	ep, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ports.ErrEpisodeNotFound) {
		writeError(w, http.StatusNotFound, "Episode not found", "")
		return
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to load episode", Error: err, Service: "delivery"})
		writeError(w, http.StatusInternalServerError, "Failed to load episode", hintFor(err))
		return
	}

	writeJSON(w, http.StatusOK, ep)
}

func fileURL(episodeID, name string) string {
	q := url.Values{}
	q.Set("episodeId", episodeID)
	q.Set("name", name)
	return "/api/file?" + q.Encode()
}

// wholeNumber accepts JSON numbers without a fractional part.
func wholeNumber(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func hintFor(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Please try again"
	}
	return msg
}
