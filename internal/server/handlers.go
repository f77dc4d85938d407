package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// requireUser returns the authenticated user context or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*common.UserContext, bool) {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return uc, true
}

// writeServiceError maps service errors to HTTP responses: validation
// errors become 400 with the user-facing message, everything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, verr.Message)
		return
	}
	s.app.Logger.Error().Err(err).Msg("Request failed")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// handleIndex serves the aggregated main-page payload.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/api/index" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	view, err := s.app.Market.BuildIndexView(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// handleSearch serves a single-ticker search payload.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("ticker")
	view, err := s.app.Market.BuildSearchView(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// handleStockPrice serves the wire-format price history for one ticker.
func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := PathParam(r, "/api/stock-price/", "")
	rng := interfaces.ChartRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = interfaces.Range1D
	}

	series, err := s.app.Market.GetPriceSeries(r.Context(), ticker, rng)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleValuation serves fair-value estimates for one ticker. The
// fundamentals snapshot is read fresh per request, never cached.
func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(PathParam(r, "/api/valuation/", "")))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Please enter a ticker symbol")
		return
	}

	snapshot, err := s.app.Quotes.GetFundamentals(r.Context(), ticker)
	if err != nil || snapshot == nil {
		s.app.Logger.Warn().Err(err).Str("ticker", ticker).Msg("Fundamentals fetch failed")
		WriteError(w, http.StatusBadGateway, "Problem fetching data for "+ticker)
		return
	}

	valuation := s.app.Valuation.Estimate(snapshot)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       snapshot.Symbol,
		"price":        snapshot.Price,
		"fundamentals": snapshot,
		"valuation":    valuation,
	})
}

// handleWatchlist serves GET (list) and POST (add) on the shared watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tickers, err := s.app.Watchlist.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"tickers": tickers})

	case http.MethodPost:
		var req struct {
			Ticker string `json:"ticker"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.app.Watchlist.Add(r.Context(), req.Ticker); err != nil {
			s.writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWatchlistItem serves DELETE /api/watchlist/{ticker}.
func (s *Server) handleWatchlistItem(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ticker := PathParam(r, "/api/watchlist/", "")
	if err := s.app.Watchlist.Remove(r.Context(), ticker); err != nil {
		s.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handlePortfolio serves GET (list) and POST (add) on the authenticated
// user's portfolio tickers.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		tickers, err := s.app.UserStore.ListPortfolioTickers(r.Context(), uc.UserID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"tickers": tickers})

	case http.MethodPost:
		var req struct {
			Ticker string `json:"ticker"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
		if ticker == "" {
			WriteError(w, http.StatusBadRequest, "Please enter a ticker symbol")
			return
		}
		if !s.app.Market.CheckTicker(r.Context(), ticker) {
			WriteError(w, http.StatusBadRequest, "Problem fetching data for "+ticker)
			return
		}
		if err := s.app.UserStore.AddPortfolioTicker(r.Context(), uc.UserID, ticker); err != nil {
			s.writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioItem serves DELETE /api/portfolio/{ticker}.
func (s *Server) handlePortfolioItem(w http.ResponseWriter, r *http.Request) {
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ticker := PathParam(r, "/api/portfolio/", "")
	if err := s.app.UserStore.RemovePortfolioTicker(r.Context(), uc.UserID, ticker); err != nil {
		s.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleHealth serves the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleVersion serves build metadata.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
