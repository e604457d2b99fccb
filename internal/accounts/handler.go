package accounts

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

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

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,max=72"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	user, err := h.service.Register(r.Context(), Registration(req))
	if err != nil {
		var fields validation.FieldErrors
		switch {
		case errors.Is(err, domain.ErrEmailExists):
			h.writeError(w, http.StatusBadRequest, "Email exists")
		case errors.As(err, &fields):
			h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(fields))
		default:
			h.logger.Error("failed to register user", "error", err)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Registered"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("failed to authenticate user", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, loginResponse{Message: "Success", Email: user.Email, Name: user.FirstName})
}

type profileResponse struct {
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Address    *string `json:"address"`
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	user, err := h.service.Profile(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to load profile", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("profile retrieved", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, profileResponse{
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		Email:      user.Email,
		Address:    user.Address,
	})
}

type updateProfileRequest struct {
	Email   string          `json:"email" validate:"required"`
	Address json.RawMessage `json:"address"`
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	address, err := opaqueAddress(req.Address)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, validation.ErrorBody(err))
		return
	}

	if err := h.service.UpdateAddress(r.Context(), req.Email, address); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to update address", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("address updated")
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Address updated"})
}

// opaqueAddress turns the address value into the stored string: a JSON string
// is kept as is, any other JSON value is stored as its compact encoding, and
// null or an absent field clears the address.
func opaqueAddress(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Join(validation.ErrInvalidBody, err)
		}
		return &s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, errors.Join(validation.ErrInvalidBody, err)
	}
	s := buf.String()
	return &s, nil
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
