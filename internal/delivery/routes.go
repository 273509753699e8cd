package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
)

type RouteOptions struct {
	// applied to POST /api/tts only
	TTSLimiter   func(http.Handler) http.Handler
	PublishToken string
}

func RegisterRoutes(
	r chi.Router,
	hEp *EpisodeHandler,
	hFile *FileHandler,
	opts RouteOptions,
) {
	r.Route("/api", func(api chi.Router) {
		api.Use(httputil.RecoverMiddleware)
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "Not found", "")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		})

		// --- dialogue ---
		api.Post("/generate", hEp.Generate)
		api.Post("/journal", hEp.Journal)
		api.Get("/themes/random", hEp.RandomTheme)
		api.Get("/episodes/{episodeId}", hEp.GetEpisode)

		// --- audio ---
		tts := api.With()
		if opts.TTSLimiter != nil {
			tts = api.With(opts.TTSLimiter)
		}
		tts.Post("/tts", hEp.TTS)
		api.Get("/file", hFile.File)
		api.Get("/package", hFile.Package)

		// --- publishing ---
		api.With(AuthMiddleware(opts.PublishToken)).Post("/publish", hFile.Publish)
	})
}
