package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"

	"slipsheet/internal/api/middleware"
	"slipsheet/internal/line"
	"slipsheet/internal/pipeline"
)

// MessagingClient is the slice of the LINE client the webhook handler
// needs; internal/line.Client implements it, tests substitute mocks.
type MessagingClient interface {
	FetchMessageContent(messageID string) ([]byte, error)
	PushText(userID, text string) error
}

// SlipsHandler handles the direct-upload extraction endpoint.
type SlipsHandler struct {
	pipe *pipeline.Pipeline
	log  zerolog.Logger
}

// NewSlipsHandler creates a new slips handler.
func NewSlipsHandler(pipe *pipeline.Pipeline, log zerolog.Logger) *SlipsHandler {
	return &SlipsHandler{pipe: pipe, log: log}
}

// ExtractSlip handles POST /api/upload. It accepts one multipart file,
// runs the extraction pipeline, appends the row when data was read, and
// returns the record as flat JSON. A missing or empty file is a client
// error and triggers no model call.
func (h *SlipsHandler) ExtractSlip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	if len(imageBytes) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	rec, appended, err := h.pipe.ProcessAndRecord(ctx, imageBytes)
	if err != nil {
		h.log.Error().Err(err).Msg("Slip extraction failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Slip extraction failed")
		return
	}

	h.log.Info().Bool("appended", appended).Bool("empty", rec.IsEmpty()).Msg("Slip extracted")
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// WebhookHandler handles LINE webhook deliveries.
type WebhookHandler struct {
	pipe          *pipeline.Pipeline
	messenger     MessagingClient
	channelSecret string
	sheetURL      string
	log           zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(pipe *pipeline.Pipeline, messenger MessagingClient, channelSecret, sheetURL string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		pipe:          pipe,
		messenger:     messenger,
		channelSecret: channelSecret,
		sheetURL:      sheetURL,
		log:           log,
	}
}

// HandleWebhook handles POST /line/webhook. The signature is verified
// before any event is parsed; events are then processed sequentially, each
// one isolated so a failure is logged while its siblings proceed. The
// platform treats the delivery as fire-and-forget, so the response is a
// fixed acknowledgement regardless of per-event outcomes.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.log.Warn().Msg("Webhook signature verification failed")
			middleware.WriteError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	for _, event := range cb.Events {
		if err := h.handleEvent(r.Context(), event); err != nil {
			h.log.Error().Err(err).Msg("Webhook event processing failed")
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleEvent processes one webhook event. Events that are not an image
// message from an identifiable user are skipped with no side effect.
func (h *WebhookHandler) handleEvent(ctx context.Context, event webhook.EventInterface) error {
	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		return nil
	}
	image, ok := msgEvent.Message.(webhook.ImageMessageContent)
	if !ok {
		return nil
	}
	source, ok := msgEvent.Source.(webhook.UserSource)
	if !ok || source.UserId == "" {
		return nil
	}

	return h.processImage(ctx, source.UserId, image.Id)
}

func (h *WebhookHandler) processImage(ctx context.Context, userID, messageID string) error {
	imageBytes, err := h.messenger.FetchMessageContent(messageID)
	if err != nil {
		return err
	}

	rec, appended, err := h.pipe.ProcessAndRecord(ctx, imageBytes)
	if err != nil {
		return err
	}

	if rec.IsEmpty() {
		h.log.Info().Str("user_id", userID).Msg("Unreadable slip, sending rejection notice")
		return h.messenger.PushText(userID, line.RejectionText)
	}

	h.log.Info().
		Str("user_id", userID).
		Bool("appended", appended).
		Msg("Slip recorded, sending confirmation")
	return h.messenger.PushText(userID, line.ConfirmationText(rec, h.sheetURL))
}
