package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subloop-tracker/internal/http/response"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/services/analytics"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Summary(ctx context.Context) (*analytics.Summary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error("failed to build spending summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build spending summary"))
		return
	}

	log.Info("built spending summary", slog.Int("count", result.Count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": result,
	}))
}
