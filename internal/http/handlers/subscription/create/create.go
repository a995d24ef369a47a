// Package create implements the HTTP handler for adding subscriptions.
//
// The handler decodes a JSON request body, passes it to the service
// layer and returns the id of the created record. Validation failures
// are reported with a 422 and a message naming every violated field.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"subtrack/internal/http/response"
	"subtrack/internal/lib/sl"
	"subtrack/internal/models"
	services "subtrack/internal/services/subscription"
)

// Handler handles requests to create a subscription.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the slice of the business layer this handler needs.
type Service interface {
	Create(ctx context.Context, req models.DummySubscription) (int, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Create a subscription
// @Description Adds a new subscription and returns the id of the created record.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "New subscription"
// @Success 200 {object} map[string]any "Subscription created"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(ve))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("success to create subscription", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
