// Package server exposes the coloring service HTTP API: image upload,
// region fill, saving colored results, member records, gallery listing,
// and the admin endpoints.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"

	"github.com/jaehwan-AI/coloring-web/internal/config"
	"github.com/jaehwan-AI/coloring-web/internal/maskcache"
	"github.com/jaehwan-AI/coloring-web/internal/store"
)

// Store is the persistence surface the handlers need. *store.Store
// implements it; tests substitute a fake.
type Store interface {
	UpsertMember(ctx context.Context, p store.MemberParams) (store.Member, error)
	MemberByNumber(ctx context.Context, number string) (store.Member, error)
	MemberByName(ctx context.Context, name string) (store.Member, error)
	SaveResult(ctx context.Context, p store.ResultParams) (store.Result, error)
	ResultByID(ctx context.Context, id int64) (store.Result, error)
	ListResults(ctx context.Context, limit int, cursor int64) ([]store.ResultWithMember, int64, error)
	ResultsByMember(ctx context.Context, memberID int64, dateFrom, dateTo *time.Time) ([]store.Result, error)
	DeleteResult(ctx context.Context, id int64) error
}

// Server holds the handler dependencies.
type Server struct {
	cfg   config.Config
	store Store
	log   *slog.Logger
	masks *maskcache.Cache
}

// New creates a server. A nil logger disables request logging.
func New(cfg config.Config, st Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &Server{
		cfg:   cfg,
		store: st,
		log:   log,
		masks: maskcache.New(maskcache.DefaultCapacity),
	}
}

// Handler builds the full HTTP handler: API routes, upload serving, the
// optional frontend, CORS for the dev origin, and gzip compression.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/fill", s.handleFill)

		r.Post("/results/save", s.handleSaveResult)
		r.Get("/results", s.handleListResults)
		r.Delete("/images/{id}", s.handleDeleteResult)

		r.Post("/members/upsert", s.handleUpsertMember)
		r.Get("/members/{key}", s.handleGetMember)
		r.Get("/members/{key}/results", s.handleMemberResults)
		r.Get("/members/by-name/{name}/results", s.handleMemberResultsByName)

		r.Post("/admin/login", s.handleAdminLogin)
		r.With(s.requireAdmin).Get("/admin/ping", s.handleAdminPing)
	})

	s.mountStatic(r)

	return gzhttp.GzipHandler(r)
}

// discardHandler drops all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
