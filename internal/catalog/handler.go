package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type productResponse struct {
	ID      int64       `json:"id"`
	Section string      `json:"section"`
	Sub     string      `json:"sub"`
	Title   string      `json:"title"`
	Price   json.Number `json:"price"`
	Desc    string      `json:"desc"`
	Image   *string     `json:"image"`
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:      p.ID,
		Section: p.Section,
		Sub:     p.Subcategory,
		Title:   p.Title,
		Price:   json.Number(p.Price.String()),
		Desc:    p.Description,
		Image:   p.ImageURL,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := Query{
		Section: query.Get("section"),
		Search:  query.Get("search"),
		Sort:    ParseSortOrder(query.Get("sort")),
	}

	products, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}

	h.logger.Info("products listed", "count", len(resp), "section", q.Section, "sort", q.Sort)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
