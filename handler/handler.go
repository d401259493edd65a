package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"multilingual-bot/internal/domain"
	"multilingual-bot/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// TurnProcessor runs one inbound activity through the bot pipeline.
type TurnProcessor interface {
	Process(ctx context.Context, activity domain.Activity) (usecase.TurnOutput, error)
}

type activitiesResponse struct {
	Activities []domain.Activity `json:"activities"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler adapts API Gateway proxy requests carrying activities to the bot.
type Handler struct {
	turns  TurnProcessor
	logger *slog.Logger
}

func NewHandler(turns TurnProcessor, logger *slog.Logger) (*Handler, error) {
	if turns == nil {
		return nil, errors.New("handler: turn processor must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{turns: turns, logger: logger}, nil
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = newCorrelationID()
	}
	log := h.logger.With("correlationId", correlationID)

	if req.HTTPMethod != http.MethodPost {
		return jsonResponse(http.StatusMethodNotAllowed, correlationID, errorResponse{Error: string(usecase.ErrorMethodNotAllowed)}), nil
	}

	body, err := requestBody(req)
	if err != nil {
		log.Warn("invalid base64 body", "err", err)
		return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: string(usecase.ErrorInvalidInput)}), nil
	}

	var activity domain.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		log.Warn("invalid activity body", "err", err)
		return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: string(usecase.ErrorInvalidInput)}), nil
	}

	out, err := h.turns.Process(ctx, activity)
	if err != nil {
		status, code := errorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("turn failed", "err", err, "code", code, "activityType", activity.Type)
		} else {
			log.Warn("turn rejected", "err", err, "code", code, "activityType", activity.Type)
		}
		return jsonResponse(status, correlationID, errorResponse{Error: string(code)}), nil
	}

	replies := out.Replies
	if replies == nil {
		replies = []domain.Activity{}
	}
	log.Info("turn handled", "activityType", activity.Type, "replies", len(replies))
	return jsonResponse(http.StatusOK, correlationID, activitiesResponse{Activities: replies}), nil
}

// requestBody returns the raw body. REST APIs with binary media types deliver
// it base64 encoded.
func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}

func errorStatus(err error) (int, usecase.ErrorCode) {
	var coded *usecase.Error
	if !errors.As(err, &coded) {
		return http.StatusInternalServerError, usecase.ErrorInternal
	}
	switch coded.Code {
	case usecase.ErrorInvalidInput, usecase.ErrorInvalidActivity:
		return http.StatusBadRequest, coded.Code
	case usecase.ErrorRateLimited:
		return http.StatusTooManyRequests, coded.Code
	case usecase.ErrorUpstream:
		return http.StatusBadGateway, coded.Code
	default:
		return http.StatusInternalServerError, usecase.ErrorInternal
	}
}

func jsonResponse(status int, correlationID string, body any) events.APIGatewayProxyResponse {
	buf, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		buf = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(buf),
	}
}

// headerValue looks a header up case-insensitively; API Gateway forwards
// header names as the client sent them.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
