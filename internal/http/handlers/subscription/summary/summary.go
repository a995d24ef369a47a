// Package summary implements the HTTP handler returning collection-wide
// cost aggregates.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"subtrack/internal/http/response"
	"subtrack/internal/lib/sl"
	"subtrack/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Summary(ctx context.Context) (*models.CostSummary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Cost summary
// @Description Returns the subscription count, monthly and annual totals, and per-category totals.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} models.CostSummary
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sum, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error("failed to build cost summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build cost summary"))
		return
	}

	log.Info("success to build cost summary", slog.Int("count", sum.Count))
	render.JSON(w, r, response.StatusOKWithData(sum))
}
