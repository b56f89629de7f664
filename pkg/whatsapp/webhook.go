package whatsapp

import (
	"context"
	"io"
	"net/http"
	"sync"

	"wacloud/pkg/whatsapp/types"

	"github.com/sirupsen/logrus"
)

// MessageFunc handles one decoded inbound message. The surrounding change
// value provides sender contacts and business-number metadata.
type MessageFunc func(ctx context.Context, msg *types.Message, value *types.ChangeValue) error

// StatusFunc handles one delivery-status notification.
type StatusFunc func(ctx context.Context, status *types.Status, value *types.ChangeValue) error

// ErrorFunc handles a provider-reported error delivered inside a change.
type ErrorFunc func(ctx context.Context, werr *types.WebhookError) error

// WebhookHandler serves the provider's callback endpoint: the GET
// subscription handshake and POST payload deliveries. Decoded messages and
// statuses are dispatched to the registered callbacks.
type WebhookHandler struct {
	verifyToken string
	logger      *logrus.Logger

	mu        sync.RWMutex
	onMessage MessageFunc
	onStatus  StatusFunc
	onError   ErrorFunc
}

// NewWebhookHandler creates a webhook handler. verifyToken is compared
// against hub.verify_token during the subscription handshake.
func NewWebhookHandler(verifyToken string, logger *logrus.Logger) *WebhookHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// OnMessage registers the inbound-message callback.
func (h *WebhookHandler) OnMessage(fn MessageFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMessage = fn
}

// OnStatus registers the delivery-status callback.
func (h *WebhookHandler) OnStatus(fn StatusFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStatus = fn
}

// OnError registers the callback for provider-reported errors.
func (h *WebhookHandler) OnError(fn ErrorFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = fn
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerification(w, r)
	case http.MethodPost:
		h.handleDelivery(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVerification answers the subscription handshake by echoing
// hub.challenge when the verify token matches.
func (h *WebhookHandler) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.WithField("mode", mode).Warn("Webhook verification rejected")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	h.logger.Info("Webhook verification succeeded")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(challenge)); err != nil {
		h.logger.WithError(err).Error("Failed to write challenge response")
	}
}

func (h *WebhookHandler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read webhook body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	hook, err := ParseWebhook(body)
	if err != nil {
		h.logger.WithError(err).Warn("Rejected webhook payload")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.dispatch(r.Context(), hook)
	w.WriteHeader(http.StatusOK)
}

// dispatch fans a decoded envelope out to the registered callbacks.
// Callback errors are logged, not surfaced: the provider would otherwise
// redeliver a payload we already decoded successfully.
func (h *WebhookHandler) dispatch(ctx context.Context, hook *types.Webhook) {
	h.mu.RLock()
	onMessage, onStatus, onError := h.onMessage, h.onStatus, h.onError
	h.mu.RUnlock()

	for _, entry := range hook.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			if len(value.Messages) == 0 && len(value.Statuses) == 0 && len(value.Errors) == 0 {
				h.logger.WithField("entry", entry.ID).Debug("Change carries no messages or statuses")
				continue
			}

			for i := range value.Messages {
				if onMessage == nil {
					continue
				}
				if err := onMessage(ctx, &value.Messages[i], &value); err != nil {
					h.logger.WithError(err).WithFields(logrus.Fields{
						"message_id": value.Messages[i].ID,
						"type":       value.Messages[i].Type,
					}).Error("Message callback failed")
				}
			}

			for i := range value.Statuses {
				if onStatus == nil {
					continue
				}
				if err := onStatus(ctx, &value.Statuses[i], &value); err != nil {
					h.logger.WithError(err).WithFields(logrus.Fields{
						"message_id": value.Statuses[i].ID,
						"status":     value.Statuses[i].Status,
					}).Error("Status callback failed")
				}
			}

			for i := range value.Errors {
				if onError == nil {
					continue
				}
				if err := onError(ctx, &value.Errors[i]); err != nil {
					h.logger.WithError(err).WithField("code", value.Errors[i].Code).Error("Error callback failed")
				}
			}
		}
	}
}
