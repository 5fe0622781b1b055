package fiber

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"optin-webhook-service/internal/optin/adapters/whatsapp"
	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/usecase"
)

type ProcessEventsUseCase interface {
	Execute(ctx context.Context, events []domain.NormalizedEvent) (usecase.ProcessResult, error)
}

type WebhookHandler struct {
	uc          ProcessEventsUseCase
	verifyToken string
	// secret for the X-Hub-Signature check; empty disables the check
	secret string
}

func NewWebhookHandler(uc ProcessEventsUseCase, verifyToken, secret string) *WebhookHandler {
	return &WebhookHandler{
		uc:          uc,
		verifyToken: verifyToken,
		secret:      secret,
	}
}

// Verify godoc
// @Summary Webhook subscription verification
// @Description Answers the platform's subscription handshake with the challenge value
// @Tags Webhook
// @Produce plain
// @Param hub.mode query string true "Must be subscribe"
// @Param hub.verify_token query string true "Configured verification token"
// @Param hub.challenge query string true "Challenge to echo back"
// @Success 200 {string} string "Challenge value"
// @Failure 403 {string} string "Verification failed"
// @Router /webhook [get]
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if !handshake(mode, token, h.verifyToken) {
		log.Warn().Str("mode", mode).Msg("webhook verification failed")
		return c.Status(http.StatusForbidden).SendString("Verification failed")
	}

	log.Info().Msg("webhook verified")
	return c.Status(http.StatusOK).SendString(challenge)
}

// handshake is a pure function of the query values and the configured
// token. The expected token is never echoed back.
func handshake(mode, token, verifyToken string) bool {
	if mode != "subscribe" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1
}

// Receive godoc
// @Summary Receive a webhook delivery
// @Description Normalizes message, button and status events; opt-ins trigger the campaign job at most once per subject
// @Tags Webhook
// @Accept json
// @Produce json
// @Param X-Hub-Signature header string false "Shared-secret signature"
// @Success 200 {object} WebhookResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /webhook [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	if h.secret != "" {
		sig := c.Get("X-Hub-Signature")
		if subtle.ConstantTimeCompare([]byte(sig), []byte(h.secret)) != 1 {
			log.Warn().Msg("webhook signature mismatch")
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Error: "invalid_signature",
			})
		}
	}

	var payload whatsapp.Payload
	if err := c.BodyParser(&payload); err != nil {
		// Non-JSON bodies are benign traffic; acknowledging them keeps
		// the platform from retrying.
		log.Debug().Err(err).Msg("unparsable webhook body ignored")
		return c.Status(http.StatusOK).JSON(WebhookResponse{Status: "ignored"})
	}

	events := whatsapp.Normalize(payload, time.Now().UTC())
	if len(events) == 0 {
		return c.Status(http.StatusOK).JSON(WebhookResponse{Status: "no_events"})
	}

	res, err := h.uc.Execute(c.UserContext(), events)
	if err != nil {
		log.Error().Err(err).Msg("webhook processing failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusOK).JSON(WebhookResponse{
		Status:         "processed",
		Dispatched:     res.Dispatched,
		Duplicates:     res.Duplicates,
		DispatchErrors: res.DispatchErrors,
		Observed:       res.Observed,
		Ignored:        res.Ignored,
	})
}
