package mailer

import (
	"encoding/json"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

// Handler is a stand-in mail relay: it validates and logs messages.
type Handler struct {
	validate *validatorv10.Validate
	logger   *slog.Logger
}

func NewHandler(validate *validatorv10.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		validate: validate,
		logger:   logger,
	}
}

type sendRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"`
}

type sendResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	h.logger.InfoContext(r.Context(), "email sent", "to", req.To, "subject", req.Subject, "body_bytes", len(req.Body))

	h.writeJSON(w, http.StatusOK, sendResponse{Status: "sent"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
