package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// Onboarder runs the onboarding pipeline for a symbol.
type Onboarder interface {
	Run(ctx context.Context, req contracts.RunRequest) (*contracts.RunResult, error)
}

// OnboardingHandler triggers pipeline runs over HTTP and streams their
// progress over websockets.
type OnboardingHandler struct {
	onboarder  Onboarder
	hub        *ProgressHub
	runTimeout time.Duration
	upgrader   websocket.Upgrader
	logger     *logger.Logger
}

func NewOnboardingHandler(onboarder Onboarder, hub *ProgressHub, runTimeout time.Duration, log *logger.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		onboarder:  onboarder,
		hub:        hub,
		runTimeout: runTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log,
	}
}

// TriggerRequest is the onboarding request body. All fields are
// optional; the symbol comes from the path.
type TriggerRequest struct {
	Name   string   `json:"name"`
	Years  int      `json:"years"`
	Stages []string `json:"stages"`
}

// Trigger starts an onboarding run in the background and returns 202.
// Progress is observable on the companion websocket endpoint; final
// state is observable on the status endpoint.
// POST /api/onboarding/{symbol}
func (h *OnboardingHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	var body TriggerRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	req := contracts.RunRequest{
		Symbol: symbol,
		Name:   body.Name,
		Years:  body.Years,
		Stages: body.Stages,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()

		result, err := h.onboarder.Run(ctx, req)
		if err != nil {
			h.logger.WithError(err).WithField("symbol", symbol).Error("Onboarding run failed to start")
			return
		}
		h.logger.WithFields(map[string]interface{}{
			"symbol":      symbol,
			"hard_failed": result.HardFailed(),
		}).Info("Onboarding run finished")
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"symbol": symbol,
		"status": "started",
	})
}

// Progress upgrades to a websocket and streams stage events for the
// symbol until the client disconnects.
// GET /api/onboarding/{symbol}/progress
func (h *OnboardingHandler) Progress(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.logger.WithField("symbol", symbol).Debug("Progress subscriber connected")
	h.hub.Subscribe(symbol, conn)
	h.logger.WithField("symbol", symbol).Debug("Progress subscriber disconnected")
}
