// Package server exposes the price comparison over HTTP: the HTML pages,
// the JSON search API and the price-history endpoint.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Searcher runs one product search
type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error)
}

// Server holds the HTTP server dependencies
type Server struct {
	config   *types.Config
	logger   *logrus.Logger
	searcher Searcher
	pages    *template.Template
	http     *http.Server
}

// NewServer creates a new server around searcher
func NewServer(config *types.Config, logger *logrus.Logger, searcher Searcher) (*Server, error) {
	pages, err := template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:   config,
		logger:   logger,
		searcher: searcher,
		pages:    pages,
	}
	s.http = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// both upstream queries run in parallel, each bounded by the request timeout
		WriteTimeout: config.Timeout + 20*time.Second,
	}
	return s, nil
}

// Routes builds the router with its middleware stack
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(RateLimit(newInboundLimiter(s.config), s.logger))

	r.Get("/", s.handleLogin)
	r.Get("/home", s.handleHome)
	r.Get("/search", s.handleSearch)
	r.Post("/search", s.handleSearch)
	r.Get("/wishlist", s.handleWishlist)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleAPISearch)
		r.Post("/search", s.handleAPISearch)
		r.Get("/get-price-history", s.handlePriceHistory)
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

// Start listens on the configured port until Shutdown is called
func (s *Server) Start() error {
	s.logger.Infof("Starting server on port %s", s.config.Port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  GET      /                       - Login page")
	s.logger.Info("  GET      /home                   - Search form")
	s.logger.Info("  GET|POST /search                 - Comparison results")
	s.logger.Info("  GET      /wishlist               - Wishlist")
	s.logger.Info("  GET|POST /api/search             - Comparison results as JSON")
	s.logger.Info("  GET      /api/get-price-history  - Synthetic price history")
	s.logger.Info("  GET      /health                 - Health check")

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

var templateFuncs = template.FuncMap{
	"toJSON": func(v interface{}) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	},
	"money": func(v float64) string {
		return formatRupees(v)
	},
}

// formatRupees renders a whole-rupee amount with thousands separators
func formatRupees(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
