// Package serverless adapts the prediction service to an API-Gateway-style
// event entry point. Responses mirror the HTTP server byte-for-byte so the
// two deployments stay interchangeable.
package serverless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"smartenergy/ml"
)

type Handler struct {
	predictor *ml.Predictor
	log       *zap.Logger
}

func New(predictor *ml.Predictor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{predictor: predictor, log: log}
}

// Handle routes a proxy event. Any panic is converted to a 500 response so
// nothing escapes the handler boundary.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic in serverless handler", zap.Any("error", r))
			resp = h.errorResponse(http.StatusInternalServerError, fmt.Sprintf("%v", r))
			err = nil
		}
	}()

	switch {
	case event.HTTPMethod == http.MethodOptions:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
				"Access-Control-Allow-Headers": "Content-Type",
			},
			Body: "",
		}, nil

	case event.HTTPMethod == http.MethodGet && strings.HasSuffix(event.Path, "/health"):
		return h.jsonResponse(http.StatusOK, map[string]any{
			"status":       "healthy",
			"model_loaded": h.predictor.Ready(),
			"timestamp":    time.Now().Format(time.RFC3339),
		}), nil

	case event.HTTPMethod == http.MethodPost && strings.HasSuffix(event.Path, "/predict"):
		return h.handlePredict(event), nil

	default:
		return h.jsonResponse(http.StatusNotFound, map[string]any{
			"error": "Not found",
		}), nil
	}
}

func (h *Handler) handlePredict(event events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if !h.predictor.Ready() {
		return h.errorResponse(http.StatusServiceUnavailable, "Model not loaded")
	}

	features, err := ml.DecodeBatchRequest([]byte(event.Body))
	if err != nil {
		return h.errorResponse(http.StatusBadRequest, "Invalid request")
	}

	predictions, err := h.predictor.PredictBatch(features)
	if err != nil {
		if errors.Is(err, ml.ErrModelNotLoaded) {
			return h.errorResponse(http.StatusServiceUnavailable, "Model not loaded")
		}
		return h.errorResponse(http.StatusInternalServerError, err.Error())
	}

	return h.jsonResponse(http.StatusOK, map[string]any{
		"success":     true,
		"predictions": predictions,
	})
}

func (h *Handler) jsonResponse(status int, data any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Access-Control-Allow-Origin": "*"},
			Body:       `{"success":false,"error":"internal server error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}

func (h *Handler) errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return h.jsonResponse(status, map[string]any{
		"success": false,
		"error":   message,
	})
}
