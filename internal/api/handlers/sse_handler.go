package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
)

// SSEHandler streams pharmacy change events (stock after sales, rating
// after reviews) to storefront dashboards over Server-Sent Events
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
	}
}

// StreamPharmacyUpdates handles GET /api/stream/pharmacies/{id}
func (h *SSEHandler) StreamPharmacyUpdates(w http.ResponseWriter, r *http.Request) {
	pharmacyID := r.PathValue("id")
	if pharmacyID == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	h.stream(w, r, providers.GetPharmacyChannel(pharmacyID))
}

// StreamAllUpdates handles GET /api/stream/pharmacies, the firehose of every
// pharmacy's changes
func (h *SSEHandler) StreamAllUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelPharmacyUpdates)
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("channel", channel).
			Msg("failed to subscribe to channel")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	sendEvent(w, "connected", map[string]interface{}{
		"channel":   channel,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	// Heartbeats keep intermediaries from closing an idle stream
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
