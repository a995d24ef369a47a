// Package search implements the HTTP handler for case-insensitive
// substring search over subscription names and categories.
package search

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
	Search(ctx context.Context, query string) ([]*models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Search subscriptions
// @Description Matches the query against names and categories, ignoring case. An empty query matches nothing.
// @Tags Subscriptions
// @Produce  json
// @Param q query string false "Search term"
// @Success 200 {array} models.Subscription
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")

	subs, err := h.service.Search(r.Context(), query)
	if err != nil {
		log.Error("failed to search subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to search subscriptions"))
		return
	}

	log.Info("success to search subscriptions",
		slog.String("query", query), slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":         len(subs),
		"subscriptions": subs,
	}))
}
