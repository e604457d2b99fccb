package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

// Mail is the payload accepted by the mailer's /send endpoint.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationHandler turns order.placed events into confirmation emails.
type NotificationHandler struct {
	mailerURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewNotificationHandler(mailerURL string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		mailerURL:  strings.TrimRight(mailerURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// Handle matches messaging.HandlerFunc. Guest orders without an email are
// acknowledged and dropped.
func (h *NotificationHandler) Handle(ctx context.Context, key string, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	if event.Email == "" {
		h.logger.Info("skipping guest order without email", "order_id", event.OrderID, "key", key)
		return nil
	}

	h.logger.Info("sending order confirmation", "order_id", event.OrderID, "event_id", event.EventID)

	if err := h.send(ctx, ConfirmationMail(event)); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	return nil
}

func ConfirmationMail(event domain.OrderPlacedEvent) Mail {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\nThank you for your order #%d.\n\n", event.CustomerName, event.OrderID)
	for _, item := range event.Items {
		fmt.Fprintf(&body, "  - %s\n", item)
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", event.Total.StringFixed(2))

	return Mail{
		To:      event.Email,
		Subject: fmt.Sprintf("Order Confirmation: %d", event.OrderID),
		Body:    body.String(),
	}
}

func (h *NotificationHandler) send(ctx context.Context, mail Mail) error {
	data, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.mailerURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}

	return nil
}
