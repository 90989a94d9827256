package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/pricing"
	"github.com/Ishitag04/price-comparison-app/search"
)

const (
	defaultUser      = "User"
	defaultMinRating = "0"
)

// APIResponse is the envelope of every JSON API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type sortOption struct {
	Value types.SortMode
	Label string
}

var sortOptions = []sortOption{
	{types.SortPriceLow, "Price: Low to High"},
	{types.SortPriceHigh, "Price: High to Low"},
	{types.SortRatingHigh, "Rating: High to Low"},
	{types.SortBestDeal, "Best Deal"},
}

var ratingOptions = []string{"0", "3", "3.5", "4", "4.5"}

type page struct {
	User          string
	SortOptions   []sortOption
	RatingOptions []string
	Result        *types.SearchResult
}

// searchRequestFrom reads the search parameters from the query string or a
// submitted form
func searchRequestFrom(r *http.Request) types.SearchRequest {
	req := types.SearchRequest{
		Product:   strings.TrimSpace(r.FormValue("product")),
		SortBy:    search.ParseSortMode(r.FormValue("sort_by")),
		MinRating: r.FormValue("min_rating"),
		User:      strings.TrimSpace(r.FormValue("user")),
	}
	if _, ok := r.Form["min_rating"]; !ok {
		req.MinRating = defaultMinRating
	}
	return req
}

func userFrom(r *http.Request) string {
	if user := strings.TrimSpace(r.FormValue("user")); user != "" {
		return user
	}
	return defaultUser
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", page{})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home.html", page{
		User:          userFrom(r),
		SortOptions:   sortOptions,
		RatingOptions: ratingOptions,
	})
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "wishlist.html", page{User: userFrom(r)})
}

// handleSearch renders the comparison page. Input errors and empty results
// render as messages on the page, not as error statuses.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context(), s.logger)
	req := searchRequestFrom(r)

	result, err := s.searcher.Search(r.Context(), req)
	if err != nil && !errors.Is(err, search.ErrEmptyQuery) {
		logger.Errorf("Search for %q failed: %v", req.Product, err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "results.html", page{
		User:          userFrom(r),
		SortOptions:   sortOptions,
		RatingOptions: ratingOptions,
		Result:        result,
	})
}

// handleAPISearch returns the same result as the comparison page as JSON
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context(), s.logger)
	req := searchRequestFrom(r)

	result, err := s.searcher.Search(r.Context(), req)
	if errors.Is(err, search.ErrEmptyQuery) {
		s.sendError(w, search.EmptyQueryMessage, http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Errorf("Search for %q failed: %v", req.Product, err)
		s.sendError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// handlePriceHistory synthesizes a history for ?price=. A missing or
// unusable price yields an empty list.
func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	history := []types.PricePoint{}

	if price, err := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("price")), 64); err == nil {
		if p, ok := pricing.Parsed(price, "").Value(); ok {
			history = pricing.GenerateHistory(p)
		}
	}

	s.sendJSON(w, http.StatusOK, history)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data page) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		LoggerFromContext(r.Context(), s.logger).Errorf("Failed to render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Internal server error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, statusCode, APIResponse{Success: false, Error: message})
}
