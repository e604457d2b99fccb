package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service  *Service
	validate *validatorv10.Validate
	logger   *slog.Logger
}

func NewHandler(service *Service, validate *validatorv10.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

type placeOrderRequest struct {
	Name          string      `json:"name" validate:"required"`
	Email         *string     `json:"email"`
	Cart          domain.Cart `json:"cart" validate:"dive"`
	Address       string      `json:"address" validate:"required"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
}

type placeOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := validation.Decode(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	// an empty cart is reported before any other field problem
	if len(req.Cart) == 0 {
		h.writeError(w, http.StatusBadRequest, "Empty cart")
		return
	}

	if err := validation.Struct(&req, h.validate); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	order, err := h.service.Place(r.Context(), Placement{
		CustomerName:    req.Name,
		Email:           req.Email,
		Cart:            req.Cart,
		ShippingAddress: req.Address,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			h.writeError(w, http.StatusBadRequest, "Empty cart")
			return
		}
		h.logger.Error("failed to place order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order placed", "order_id", order.ID, "total", order.Total.String(), "lines", len(order.Details))
	h.writeJSON(w, http.StatusOK, placeOrderResponse{Message: "Order placed", OrderID: order.ID})
}

type orderSummary struct {
	ID     int64       `json:"id"`
	Total  json.Number `json:"total"`
	Items  string      `json:"items"`
	Date   string      `json:"date"`
	Status string      `json:"status"`
}

func (h *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.writeError(w, http.StatusBadRequest, "missing email")
		return
	}

	orders, err := h.service.ListForUser(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderSummary, 0, len(orders))
	for _, o := range orders {
		items, err := encodeDetails(o.Details)
		if err != nil {
			h.logger.Error("failed to encode order details", "error", err, "order_id", o.ID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp = append(resp, orderSummary{
			ID:     o.ID,
			Total:  json.Number(o.Total.String()),
			Items:  items,
			Date:   o.CreatedAt.UTC().Format(dateLayout),
			Status: domain.OrderStatusProcessing,
		})
	}

	h.logger.Info("orders listed", "count", len(resp))
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
