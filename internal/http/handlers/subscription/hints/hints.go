// Package hints implements the HTTP handler returning the suggested
// category and payment method lists shown by clients.
package hints

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"subtrack/internal/http/response"
	"subtrack/internal/models"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Input hints
// @Description Returns suggested categories and payment methods. Free-form values are still accepted on create and update.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any
// @Router /subscriptions/hints [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories":      models.CommonCategories(),
		"payment_methods": models.CommonPaymentMethods(),
	}))
}
