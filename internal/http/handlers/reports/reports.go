// Package reports implements the HTTP handler that generates report
// files on disk and returns their paths.
package reports

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"subtrack/internal/http/response"
	"subtrack/internal/lib/sl"
	"subtrack/internal/renewal"
)

const defaultRenewalsWindow = 30

type Handler struct {
	log       *slog.Logger
	generator Generator
	now       func() time.Time
}

// Generator is the slice of the report service this handler needs.
type Generator interface {
	SaveSummary(ctx context.Context, today time.Time) (string, error)
	SaveRenewals(ctx context.Context, daysAhead int, today time.Time) (string, error)
	ExportXLSX(ctx context.Context, today time.Time) (string, error)
}

func New(log *slog.Logger, generator Generator) *Handler {
	return &Handler{
		log:       log,
		generator: generator,
		now:       time.Now,
	}
}

// ServeHTTP godoc
// @Summary Generate a report
// @Description Generates a report file and returns its path. Kind is one of summary, renewals, export.
// @Tags Reports
// @Produce  json
// @Param kind path string true "Report kind" Enums(summary, renewals, export)
// @Param days query int false "Renewals window in days" default(30)
// @Param today query string false "Reference date, YYYY-MM-DD; defaults to the current date"
// @Success 200 {object} map[string]any "Path of the generated file"
// @Failure 400 {object} response.ErrorResponse "Invalid parameters"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/{kind} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reports.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	var path string
	var err error

	kind := chi.URLParam(r, "kind")
	switch kind {
	case "summary":
		path, err = h.generator.SaveSummary(r.Context(), today)
	case "renewals":
		days := defaultRenewalsWindow
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			days, err = strconv.Atoi(daysStr)
			if err != nil || days < 0 {
				log.Error("invalid days parameter", slog.String("days", daysStr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid days parameter"))
				return
			}
		}
		path, err = h.generator.SaveRenewals(r.Context(), days, today)
	case "export":
		path, err = h.generator.ExportXLSX(r.Context(), today)
	default:
		log.Error("unknown report kind", slog.String("kind", kind))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown report kind"))
		return
	}

	if err != nil {
		log.Error("failed to generate report", slog.String("kind", kind), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to generate report"))
		return
	}

	log.Info("success to generate report",
		slog.String("kind", kind), slog.String("path", path))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"kind": kind,
		"path": path,
	}))
}
