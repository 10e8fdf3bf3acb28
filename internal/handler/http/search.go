package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"signalist/internal/domain/entity"
	"signalist/internal/handler/http/respond"
)

// maxSearchQueryLength bounds the q parameter so arbitrary payloads are
// not forwarded to the market data API.
const maxSearchQueryLength = 100

// StockSearcher is the port to symbol search on the market data API.
type StockSearcher interface {
	SearchStocks(ctx context.Context, query string) ([]entity.StockMatch, error)
}

// SearchHandler serves GET /api/stocks/search, proxying symbol search to
// the market data provider. Results are cached by the underlying client.
type SearchHandler struct {
	Market StockSearcher
}

// searchResponse is the JSON body of a search result.
type searchResponse struct {
	Count  int                 `json:"count"`
	Result []entity.StockMatch `json:"result"`
}

// ServeHTTP handles one search request. The q parameter is required,
// trimmed, and length-limited.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("query parameter q is required"))
		return
	}
	if len(query) > maxSearchQueryLength {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("query parameter q is too long (max %d characters)", maxSearchQueryLength))
		return
	}

	matches, err := h.Market.SearchStocks(r.Context(), query)
	if err != nil {
		respond.SafeError(w, http.StatusBadGateway, err)
		return
	}

	if matches == nil {
		matches = []entity.StockMatch{}
	}

	respond.JSON(w, http.StatusOK, searchResponse{
		Count:  len(matches),
		Result: matches,
	})
}
