// Package upcoming implements the HTTP handler returning renewals due
// within a window of days.
package upcoming

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"subtrack/internal/http/response"
	"subtrack/internal/lib/sl"
	"subtrack/internal/models"
	"subtrack/internal/renewal"
)

const defaultWindowDays = 7

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	UpcomingWithin(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary List upcoming renewals
// @Description Returns subscriptions renewing within the given number of days, soonest first. Defaults to 7 days from today.
// @Tags Subscriptions
// @Produce  json
// @Param days query int false "Window size in days" default(7)
// @Param today query string false "Reference date, YYYY-MM-DD; defaults to the current date"
// @Success 200 {array} models.Upcoming
// @Failure 400 {object} response.ErrorResponse "Invalid parameters"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upcoming"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	days := defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			log.Error("invalid days parameter", slog.String("days", daysStr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid days parameter"))
			return
		}
		days = parsed
	}

	today := h.now()
	if todayStr := r.URL.Query().Get("today"); todayStr != "" {
		parsed, err := time.Parse(renewal.Layout, todayStr)
		if err != nil {
			log.Error("invalid today parameter", slog.String("today", todayStr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid today parameter"))
			return
		}
		today = parsed
	}

	upcoming, err := h.service.UpcomingWithin(r.Context(), days, today)
	if err != nil {
		log.Error("failed to list upcoming renewals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list upcoming renewals"))
		return
	}

	log.Info("success to list upcoming renewals",
		slog.Int("days", days), slog.Int("count", len(upcoming)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"days":     days,
		"count":    len(upcoming),
		"upcoming": upcoming,
	}))
}
