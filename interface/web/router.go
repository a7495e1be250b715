package web

import (
	"net/http"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds router settings
type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires the page, the JSON API and the WebSocket endpoint
func NewRouter(handler *Handler, page *PageHandler, hub *Hub, cfg RouterConfig, logger domain.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", page.Index)
	r.Get("/health", handler.Health)
	r.Get("/ws", hub.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", handler.GetBoard)
		r.Get("/catalog", handler.GetCatalog)
		r.Get("/link", handler.GetLink)
		r.Post("/import", handler.Import)
		r.Put("/date", handler.SetDate)
		r.Post("/theme/toggle", handler.ToggleTheme)

		r.Route("/zones", func(r chi.Router) {
			r.Post("/", handler.AddZone)
			r.Post("/reorder", handler.Reorder)
			r.Post("/reverse", handler.Reverse)
			r.Delete("/by-id/{id}", handler.RemoveZoneByID)
			r.Delete("/{index}", handler.RemoveZone)
			r.Put("/{index}/minute", handler.SetMinute)
			r.Put("/{index}/drag", handler.SetDrag)
		})
	})

	return r
}

func requestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug(r.Context(), "HTTP request",
				domain.NewField("method", r.Method),
				domain.NewField("path", r.URL.Path),
				domain.NewField("status", ww.Status()),
				domain.NewField("bytes", ww.BytesWritten()),
				domain.NewField("duration_ms", time.Since(start).Milliseconds()),
				domain.NewField("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
