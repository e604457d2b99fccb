package mailer

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/storefront-otel-demo/internal/validation"
)

func newTestHandler() *Handler {
	return NewHandler(validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleSend(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"valid", `{"to":"a@example.com","subject":"Order Confirmation: 1","body":"hi"}`, http.StatusOK, ""},
		{"malformed", `{"to":`, http.StatusBadRequest, ""},
		{"missing subject", `{"to":"a@example.com"}`, http.StatusBadRequest, "subject"},
		{"bad address", `{"to":"nobody","subject":"x"}`, http.StatusBadRequest, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newTestHandler().HandleSend(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantField == "" {
				return
			}

			var resp struct {
				Fields map[string]string `json:"fields"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := resp.Fields[tt.wantField]; !ok {
				t.Errorf("fields = %v, want key %q", resp.Fields, tt.wantField)
			}
		})
	}
}
