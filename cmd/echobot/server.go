package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wacloud/internal/config"
	"wacloud/internal/middleware"
	"wacloud/internal/tracing"
	"wacloud/pkg/whatsapp"
	"wacloud/pkg/whatsapp/types"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router *mux.Router
	logger *logrus.Logger
	client *whatsapp.Client
	server *http.Server
	port   string
}

func NewServer(cfg *config.Config, client *whatsapp.Client, logger *logrus.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		client: client,
		port:   cfg.Port,
	}

	webhook := whatsapp.NewWebhookHandler(cfg.VerifyToken, logger)
	webhook.OnMessage(s.handleMessage)
	webhook.OnStatus(s.handleStatus)

	s.router.Use(middleware.Observability(logger))
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.Handle("/webhook/whatsapp", webhook).Methods(http.MethodGet, http.MethodPost)

	return s
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Infof("Starting server on port %s", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// handleMessage echoes inbound text back to the sender and marks every
// message read.
func (s *Server) handleMessage(ctx context.Context, msg *types.Message, value *types.ChangeValue) error {
	if err := s.client.MarkAsRead(ctx, msg.ID); err != nil {
		tracing.RecordError(ctx, err)
		s.logger.WithError(err).Warn("Failed to mark message as read")
	}

	switch msg.Type {
	case types.MessageTypeText:
		return s.reply(ctx, msg.From, msg.Text.Body)
	case types.MessageTypeLocation:
		return s.reply(ctx, msg.From, fmt.Sprintf("Got your pin at %.5f, %.5f", msg.Location.Latitude, msg.Location.Longitude))
	case types.MessageTypeReaction:
		// Nothing to echo for reactions.
		return nil
	default:
		return s.reply(ctx, msg.From, fmt.Sprintf("I can't echo %q messages yet.", msg.Type))
	}
}

// reply sends a text response, recording failures on the request span.
func (s *Server) reply(ctx context.Context, to, body string) error {
	if _, err := s.client.SendText(ctx, to, body, false); err != nil {
		tracing.RecordError(ctx, err)
		return err
	}
	return nil
}

func (s *Server) handleStatus(ctx context.Context, status *types.Status, value *types.ChangeValue) error {
	s.logger.WithFields(logrus.Fields{
		"message_id": status.ID,
		"status":     status.Status,
		"recipient":  status.RecipientID,
	}).Info("Delivery status update")
	return nil
}
