package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"event-wall-backend/logger"

	"github.com/slack-go/slack"
)

const slackFooter = "Mur interactif - Backend"

// SlackService gère l'envoi de notifications Slack
type SlackService struct {
	webhookURL string
	client     *http.Client
}

// NewSlackService crée une nouvelle instance de SlackService
func NewSlackService(webhookURL string) *SlackService {
	if webhookURL == "" {
		logger.L().Warn().Msg("⚠️  Slack webhook URL non configuré - notifications Slack désactivées")
	}

	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled indique si un webhook est configuré
func (s *SlackService) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

// post envoie une pièce jointe au webhook
func (s *SlackService) post(ctx context.Context, attachment slack.Attachment) error {
	if !s.Enabled() {
		return nil // Service désactivé
	}

	attachment.Footer = slackFooter
	msg := &slack.WebhookMessage{Attachments: []slack.Attachment{attachment}}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil {
		return fmt.Errorf("erreur lors de l'envoi à Slack: %w", err)
	}
	return nil
}

// SendErrorNotification envoie une notification d'erreur HTTP sur Slack
func (s *SlackService) SendErrorNotification(ctx context.Context, errorType, method, path, statusCode, message, origin, userAgent string) error {
	color := "danger"
	if statusCode == "403" {
		color = "warning"
	}

	fields := []slack.AttachmentField{
		{Title: "Méthode", Value: method, Short: true},
		{Title: "Status Code", Value: statusCode, Short: true},
		{Title: "Chemin", Value: path},
	}
	if origin != "" {
		fields = append(fields, slack.AttachmentField{Title: "Origin", Value: origin, Short: true})
	}
	if userAgent != "" {
		fields = append(fields, slack.AttachmentField{Title: "User-Agent", Value: userAgent})
	}

	err := s.post(ctx, slack.Attachment{
		Color:  color,
		Title:  fmt.Sprintf("🚨 Erreur serveur: %s", errorType),
		Text:   message,
		Fields: fields,
	})
	if err != nil {
		return err
	}

	logger.L().Info().Str("method", method).Str("path", path).Msg("✓ Notification Slack envoyée")
	return nil
}

// SendCriticalError envoie une notification pour une erreur critique
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.SendErrorNotification(ctx, "Erreur Critique", method, path, statusCode, errorMessage, origin, userAgent); err != nil {
		logger.L().Error().Err(err).Msg("❌ Erreur lors de l'envoi de la notification Slack")
	}
}

// SendCORSError envoie une notification pour une erreur CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := fmt.Sprintf("Origine non autorisée: %s", origin)
	if err := s.SendErrorNotification(ctx, "Erreur CORS", method, path, "403", msg, origin, userAgent); err != nil {
		logger.L().Error().Err(err).Msg("❌ Erreur lors de l'envoi de la notification Slack")
	}
}

// SendBackupFailure signale l'échec de la sauvegarde cloud d'un média
func (s *SlackService) SendBackupFailure(mediaID int64, provider, filename string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.post(ctx, slack.Attachment{
		Color: "warning",
		Title: "☁️ Sauvegarde cloud échouée",
		Text:  cause.Error(),
		Fields: []slack.AttachmentField{
			{Title: "Média", Value: fmt.Sprintf("%d", mediaID), Short: true},
			{Title: "Fournisseur", Value: provider, Short: true},
			{Title: "Fichier", Value: filename},
		},
	})
	if err != nil {
		logger.L().Error().Err(err).Msg("❌ Erreur lors de l'envoi de la notification Slack")
	}
}
