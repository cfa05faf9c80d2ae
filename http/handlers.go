package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"smartenergy/db"
	"smartenergy/ml"
)

// Handlers holds the dependencies of the API endpoints. The predictor is
// required; the history store and the websocket hub are optional and
// best-effort.
type Handlers struct {
	predictor *ml.Predictor
	store     *db.Store
	hub       *Hub
	log       *zap.Logger
}

func NewHandlers(predictor *ml.Predictor, store *db.Store, hub *Hub, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{predictor: predictor, store: store, hub: hub, log: log}
}

// Register 注册所有处理器
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/history", h.handleHistory)
	if h.hub != nil {
		mux.HandleFunc("GET /api/ws/predictions", h.hub.ServeWS)
	}
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": h.predictor.Ready(),
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !h.predictor.Ready() {
		h.writeError(w, http.StatusServiceUnavailable, "Model not loaded")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	features, err := ml.DecodeBatchRequest(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	predictions, err := h.predictor.PredictBatch(features)
	if err != nil {
		if errors.Is(err, ml.ErrModelNotLoaded) {
			h.writeError(w, http.StatusServiceUnavailable, "Model not loaded")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.store != nil {
		if err := h.store.SavePredictions(predictions); err != nil {
			h.log.Warn("failed to persist predictions", zap.Error(err))
		}
	}
	if h.hub != nil {
		h.hub.BroadcastPredictions(predictions)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"predictions": predictions,
	})
}

func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	if h.store == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{
			"predictions": []db.Record{},
		})
		return
	}

	records, err := h.store.QueryRecent(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"predictions": records,
	})
}

// writeJSON 统一JSON响应
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
